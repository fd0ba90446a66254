//go:build !linux && !tinygo

package strip

import (
	"errors"

	"github.com/sweeney/boopbox/internal/logic"
)

// SPIStrip is not available on non-Linux platforms.
type SPIStrip struct{}

// OpenSPI returns an error on non-Linux platforms.
func OpenSPI(port string, n int) (*SPIStrip, error) {
	return nil, errors.New("strip: spi not supported on this platform (requires Linux)")
}

func (s *SPIStrip) WriteFrame(frame []logic.Color) error {
	return errors.New("strip: not supported")
}

func (s *SPIStrip) Close() error { return nil }
