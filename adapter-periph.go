//go:build !tinygo

package seriallog

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// realPin wraps a gpio.PinIO to satisfy the Pin interface.
type realPin struct {
	gpio.PinIO
}

func (p *realPin) Out(l Level) error {
	if l == High {
		return p.PinIO.Out(gpio.High)
	}
	return p.PinIO.Out(gpio.Low)
}

// ConnConfig holds the configuration of an SPI transport on Linux/periph.io.
type ConnConfig struct {
	// SpiBusPath is the path to the SPI bus (e.g., "/dev/spidev0.0").
	// Defaults to "/dev/spidev0.0" if not provided.
	SpiBusPath string
	// SpiClockHz is the SPI clock frequency in Hz.
	// Defaults to 1000000 (1MHz) if not provided.
	SpiClockHz int
	// ActivityPin is the GPIO pin number (BCM numbering) of an LED lit while
	// data is sent. Optional.
	ActivityPin int
}

// OpenConn opens an SPI port through periph.io and returns a transport on it.
// Close releases the port.
func OpenConn(c ConnConfig) (*ConnTransport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph.io host: %w", err)
	}

	if c.SpiBusPath == "" {
		c.SpiBusPath = "/dev/spidev0.0"
	}
	p, err := spireg.Open(c.SpiBusPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port: %w", err)
	}

	if c.SpiClockHz == 0 {
		c.SpiClockHz = 1000000
	}
	conn, err := p.Connect(physic.Frequency(c.SpiClockHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to create SPI connection: %w", err)
	}

	var activity Pin
	if c.ActivityPin != 0 {
		name := fmt.Sprintf("GPIO%d", c.ActivityPin)
		pin := gpioreg.ByName(name)
		if pin == nil {
			p.Close()
			return nil, fmt.Errorf("failed to open activity pin %s", name)
		}
		activity = &realPin{PinIO: pin}
	}

	t := NewConnTransport(conn, activity)
	t.port = p
	diag.Info("SPI log transport opened on " + c.SpiBusPath)
	return t, nil
}
