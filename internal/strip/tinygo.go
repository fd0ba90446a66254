//go:build tinygo

package strip

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"

	"github.com/sweeney/boopbox/internal/logic"
)

// WS2812Strip bit-bangs frames onto one data pin.
type WS2812Strip struct {
	dev ws2812.Device
	buf []color.RGBA
}

// NewWS2812 configures pin as the data line of an n-pixel strip.
func NewWS2812(pin machine.Pin, n int) *WS2812Strip {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &WS2812Strip{dev: ws2812.New(pin), buf: make([]color.RGBA, n)}
}

// WriteFrame transmits frame.
func (s *WS2812Strip) WriteFrame(frame []logic.Color) error {
	buf := s.buf[:0]
	for _, c := range frame {
		buf = append(buf, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	}
	s.buf = buf
	return s.dev.WriteColors(buf)
}
