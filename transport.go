package st7920

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Transport is the byte-level link to the controller. It has no protocol
// knowledge: the driver hands it fully framed bytes and expects exclusive,
// ordered delivery. Implementations do not retry at the byte level.
//
// The SPI implementation returned by SPITransport is the normal choice;
// tests inject a recording fake.
type Transport interface {
	// Write transmits p in order.
	Write(p []byte) error
	// Select asserts the controller's chip-select line.
	Select() error
	// Deselect releases the chip-select line.
	Deselect() error
	// PulseReset holds the reset line active for d, then releases it and
	// waits another d for the controller to come back up. Implementations
	// without a reset line return nil.
	PulseReset(d time.Duration) error
}

// spiTransport drives the controller over a periph.io SPI connection with
// GPIO chip-select and optional reset.
type spiTransport struct {
	c   conn.Conn
	cs  gpio.PinOut
	rst gpio.PinIO
}

// SPITransport opens a Transport over the given SPI port.
//
// The port is configured for 2MHz, Mode0 (CPOL=0, CPHA=0), 8-bit transfers,
// the timing the ST7920 serial interface is specified for. cs is the
// chip-select pin, which the ST7920 treats as active-high. rst is the
// active-low reset pin and may be nil if the display's reset line is tied
// high.
func SPITransport(p spi.Port, cs gpio.PinOut, rst gpio.PinIO) (Transport, error) {
	if cs == nil {
		return nil, fmt.Errorf("st7920: chip-select pin is required")
	}
	c, err := p.Connect(2*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("st7920: failed to connect SPI: %w", err)
	}
	if err := cs.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("st7920: failed to release chip-select: %w", err)
	}
	if rst != nil {
		if err := rst.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("st7920: failed to release reset: %w", err)
		}
	}
	return &spiTransport{c: c, cs: cs, rst: rst}, nil
}

func (t *spiTransport) Write(p []byte) error {
	return t.c.Tx(p, nil)
}

func (t *spiTransport) Select() error {
	return t.cs.Out(gpio.High)
}

func (t *spiTransport) Deselect() error {
	return t.cs.Out(gpio.Low)
}

func (t *spiTransport) PulseReset(d time.Duration) error {
	if t.rst == nil {
		return nil
	}
	if err := t.rst.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(d)
	if err := t.rst.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(d)
	return nil
}
