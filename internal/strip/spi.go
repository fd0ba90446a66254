//go:build linux && !tinygo

package strip

import (
	"fmt"

	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/devices/nrzled"
	"periph.io/x/periph/host"

	"github.com/sweeney/boopbox/internal/logic"
)

// SPIStrip is a WS2812 strip driven through an SPI port.
type SPIStrip struct {
	port spi.PortCloser
	dev  *nrzled.Dev
	n    int
}

// OpenSPI opens the SPI port by name ("" selects the first one) and prepares
// an NRZ encoder for n pixels.
func OpenSPI(port string, n int) (*SPIStrip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", port, err)
	}

	opts := nrzled.DefaultOpts
	opts.NumPixels = n
	opts.Channels = 3
	dev, err := nrzled.NewSPI(p, &opts)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("init nrzled: %w", err)
	}
	return &SPIStrip{port: p, dev: dev, n: n}, nil
}

// WriteFrame transmits frame. Frames longer than the strip are rejected.
func (s *SPIStrip) WriteFrame(frame []logic.Color) error {
	if len(frame) > s.n {
		return fmt.Errorf("frame of %d pixels on a strip of %d", len(frame), s.n)
	}
	if _, err := s.dev.Write(encodeRGB(frame)); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the port.
func (s *SPIStrip) Close() error {
	if err := s.dev.Halt(); err != nil {
		s.port.Close()
		return fmt.Errorf("halt strip: %w", err)
	}
	return s.port.Close()
}
