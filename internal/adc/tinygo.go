//go:build tinygo

package adc

import "machine"

// PinChannel samples one machine ADC pin. machine.ADC.Get scales every
// converter to 16 bits, so the sample is shifted down to Resolution.
type PinChannel struct {
	adc machine.ADC
}

// NewPinChannel configures pin for analog input. machine.InitADC must have
// been called once before.
func NewPinChannel(pin machine.Pin) *PinChannel {
	a := machine.ADC{Pin: pin}
	a.Configure(machine.ADCConfig{Resolution: Resolution})
	return &PinChannel{adc: a}
}

// Read returns the current sample. The machine ADC cannot fail.
func (c *PinChannel) Read() (uint16, error) {
	return c.adc.Get() >> (16 - Resolution), nil
}
