package seriallog

import "io"

// Level represents the logical level of a pin (Low or High).
type Level bool

const (
	Low  Level = false
	High Level = true
)

// Transport is the character-output device the logger writes to.
type Transport interface {
	// Write writes p as-is, without adding a line terminator.
	io.Writer
	// WriteLine writes p followed by the transport's line terminator.
	WriteLine(p []byte) error
	// Flush blocks until every previously written byte has been transmitted.
	Flush() error
}

// SPI represents a generic SPI connection.
type SPI interface {
	// Tx sends w and reads into r.
	// len(r) must be >= len(w).
	Tx(w, r []byte) error
}

// Pin represents a generic output GPIO pin.
type Pin interface {
	// Out sets the pin as output with the given level.
	Out(l Level) error
}
