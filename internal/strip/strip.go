// Package strip drives an addressable LED strip.
// On Linux frames are NRZ-encoded onto an SPI port; on TinyGo they are
// bit-banged with the ws2812 driver. The fake implementation records frames
// for tests.
package strip

import "github.com/sweeney/boopbox/internal/logic"

// Transport transmits one frame as a single blocking write.
type Transport interface {
	WriteFrame(frame []logic.Color) error
}

// encodeRGB flattens a frame into 3 bytes per position.
func encodeRGB(frame []logic.Color) []byte {
	buf := make([]byte, 0, 3*len(frame))
	for _, c := range frame {
		buf = append(buf, c.R, c.G, c.B)
	}
	return buf
}
