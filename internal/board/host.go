//go:build !tinygo

package board

import (
	"fmt"
	"time"

	"github.com/sweeney/boopbox/internal/adc"
	"github.com/sweeney/boopbox/internal/gpio"
	"github.com/sweeney/boopbox/internal/strip"
)

// Wiring describes how the image is connected to a Linux host.
type Wiring struct {
	Chip     string // GPIO character device, e.g. "gpiochip0"
	Lines    []int  // offsets of the monitored lines
	Trigger  int
	Motor    int
	LED      int
	Debounce time.Duration // kernel debounce on monitored lines, 0 disables

	IIODevice string // e.g. /sys/bus/iio/devices/iio:device0
	ADCBits   uint
	Channels  int

	SPIPort     string // "" selects the first SPI port
	StripLength int
}

// Open brings up a Linux host: GPIO through the character device, analog
// inputs through IIO sysfs and the LED strip through SPI.
func Open(w Wiring) (*Board, error) {
	b := &Board{Name: "linux"}
	ok := false
	defer func() {
		if !ok {
			b.Close()
		}
	}()

	chip, err := gpio.OpenChip(w.Chip)
	if err != nil {
		return nil, err
	}
	b.OnClose(chip.Close)

	for _, off := range w.Lines {
		in, err := chip.Input(off, w.Debounce)
		if err != nil {
			return nil, err
		}
		b.Lines = append(b.Lines, in)
	}
	if b.Trigger, err = chip.Input(w.Trigger, 0); err != nil {
		return nil, err
	}
	if b.Motor, err = chip.Output(w.Motor, false); err != nil {
		return nil, err
	}
	if b.LED, err = chip.Output(w.LED, false); err != nil {
		return nil, err
	}

	for i := 0; i < w.Channels; i++ {
		ch, err := adc.NewIIOChannel(w.IIODevice, i, w.ADCBits)
		if err != nil {
			return nil, fmt.Errorf("open analog inputs: %w", err)
		}
		b.Analog = append(b.Analog, ch)
	}

	s, err := strip.OpenSPI(w.SPIPort, w.StripLength)
	if err != nil {
		return nil, err
	}
	b.Strip = s
	b.OnClose(s.Close)

	ok = true
	return b, nil
}
