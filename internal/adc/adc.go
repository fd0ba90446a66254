// Package adc provides analog input channels with hardware abstraction.
// On Linux channels are read through the kernel IIO interface; on TinyGo
// through the machine ADC. The fake implementation allows testing without hardware.
package adc

// Channel yields one unsigned sample per Read.
type Channel interface {
	Read() (uint16, error)
}

// Resolution is the sample width the device works with. Readings from wider
// converters are shifted down to it.
const Resolution = 8
