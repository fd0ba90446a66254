//go:build !tinygo

package adc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// IIOChannel reads one voltage channel of a Linux IIO device.
type IIOChannel struct {
	path  string
	shift uint
}

// NewIIOChannel opens channel index of the IIO device directory dev (for
// example /sys/bus/iio/devices/iio:device0). bits is the converter width;
// samples are shifted down to Resolution.
func NewIIOChannel(dev string, index int, bits uint) (*IIOChannel, error) {
	path := filepath.Join(dev, fmt.Sprintf("in_voltage%d_raw", index))
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("iio channel %d: %w", index, err)
	}
	var shift uint
	if bits > Resolution {
		shift = bits - Resolution
	}
	return &IIOChannel{path: path, shift: shift}, nil
}

// Read returns the current raw sample.
func (c *IIOChannel) Read() (uint16, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", c.path, err)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", c.path, err)
	}
	return uint16(v >> c.shift), nil
}
