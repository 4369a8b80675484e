//go:build tinygo

package seriallog

import (
	"io"
	"machine"
)

// tinygoPin wraps a machine.Pin to satisfy the Pin interface.
type tinygoPin struct {
	pin machine.Pin
}

func (p *tinygoPin) Out(l Level) error {
	p.pin.Set(bool(l))
	return nil
}

// tinygoSPI wraps a machine.SPI to satisfy the SPI interface.
type tinygoSPI struct {
	spi *machine.SPI
	cs  machine.Pin
}

func (s *tinygoSPI) Tx(w, r []byte) error {
	s.cs.Low()
	err := s.spi.Tx(w, r)
	s.cs.High()
	return err
}

// NewTinyGoConn creates an SPI transport for TinyGo systems.
// activityPin may be machine.NoPin.
func NewTinyGoConn(spi *machine.SPI, csPin, activityPin machine.Pin) *ConnTransport {
	// Configure CS pin as output and set high (inactive)
	csPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	csPin.High()

	var activity Pin
	if activityPin != machine.NoPin {
		activityPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		activity = &tinygoPin{pin: activityPin}
	}

	return NewConnTransport(&tinygoSPI{spi: spi, cs: csPin}, activity)
}

// SerialTransport writes to a TinyGo serial port such as machine.Serial.
type SerialTransport struct {
	port io.Writer
}

// NewSerialTransport returns a transport on machine.Serial.
func NewSerialTransport() *SerialTransport {
	return &SerialTransport{port: machine.Serial}
}

func (s *SerialTransport) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *SerialTransport) WriteLine(p []byte) error {
	if _, err := s.port.Write(p); err != nil {
		return err
	}
	_, err := s.port.Write([]byte(crlf))
	return err
}

// Flush is a no-op: machine serial writes return once the bytes are in the
// transmit register.
func (s *SerialTransport) Flush() error {
	return nil
}
