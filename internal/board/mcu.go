//go:build tinygo

package board

import (
	"machine"

	"github.com/sweeney/boopbox/internal/adc"
	"github.com/sweeney/boopbox/internal/gpio"
	"github.com/sweeney/boopbox/internal/strip"
)

// MCUChannels is the number of analog inputs broken out on the MCU board.
const MCUChannels = 4

// Pin assignment of the MCU board.
var (
	mcuAnalog  = [MCUChannels]machine.Pin{machine.ADC0, machine.ADC1, machine.ADC2, machine.ADC3}
	mcuLines   = [...]machine.Pin{machine.GP2, machine.GP3, machine.GP4, machine.GP5}
	mcuTrigger = machine.GP6
	mcuMotor   = machine.GP7
	mcuLED     = machine.LED
	mcuStrip   = machine.GP16
)

// OpenMCU brings up the MCU board. stripLength sizes the frame buffer.
func OpenMCU(stripLength int) (*Board, error) {
	machine.InitADC()

	b := &Board{Name: "mcu"}
	for _, pin := range mcuAnalog {
		b.Analog = append(b.Analog, adc.NewPinChannel(pin))
	}
	for _, pin := range mcuLines {
		in, err := gpio.NewPinInput(pin, 8)
		if err != nil {
			return nil, err
		}
		b.Lines = append(b.Lines, in)
	}

	trigger, err := gpio.NewPinInput(mcuTrigger, 8)
	if err != nil {
		return nil, err
	}
	b.Trigger = trigger
	b.Motor = gpio.NewPinOutput(mcuMotor, false)
	b.LED = gpio.NewPinOutput(mcuLED, false)
	b.Strip = strip.NewWS2812(mcuStrip, stripLength)
	return b, nil
}
