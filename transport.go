package seriallog

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// StreamTransport writes lines to an io.Writer such as os.Stdout, a pty or
// a character device. Lines are terminated with "\r\n" and flushed out of
// the buffer at the end of each line, raw writes are flushed by Flush.
type StreamTransport struct {
	dst io.Writer
	w   *bufio.Writer
}

func NewStreamTransport(w io.Writer) *StreamTransport {
	return &StreamTransport{dst: w, w: bufio.NewWriter(w)}
}

func (s *StreamTransport) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s *StreamTransport) WriteLine(p []byte) error {
	if _, err := s.w.Write(p); err != nil {
		return err
	}
	if _, err := s.w.WriteString(crlf); err != nil {
		return err
	}
	return s.w.Flush()
}

// Flush writes out buffered bytes and syncs the destination when it supports it.
func (s *StreamTransport) Flush() error {
	if err := s.w.Flush(); err != nil {
		return err
	}
	if f, ok := s.dst.(interface{ Sync() error }); ok {
		// Terminals and pipes reject fsync; there is nothing left to wait for.
		_ = f.Sync()
	}
	return nil
}

// connChunk bounds a single SPI transaction.
const connChunk = 64

// ConnTransport streams log text over an SPI connection, for example to a
// SPI-to-UART bridge. An optional activity pin is held High while bytes
// are clocked out. Methods are safe for concurrent use since the bus may be
// shared with other drivers.
//
// Diagnostics are reported after the bus is released, so a Logger writing
// to this transport may also be installed with SetDiagLogger. Failures hit
// while such a report is being written are not reported again.
type ConnTransport struct {
	conn      SPI
	activity  Pin
	port      io.Closer
	mu        sync.Mutex
	reporting atomic.Bool
	scratch   [connChunk]byte
}

// NewConnTransport creates a transport on an already connected SPI device.
// activity may be nil.
func NewConnTransport(conn SPI, activity Pin) *ConnTransport {
	return &ConnTransport{conn: conn, activity: activity}
}

func (c *ConnTransport) String() string {
	return fmt.Sprintf("ConnTransport(Chunk=%d, Activity=%v)", connChunk, c.activity != nil)
}

func (c *ConnTransport) Write(p []byte) (int, error) {
	n, pinErr, err := c.send(p, nil)
	c.report(pinErr, err)
	return n, err
}

func (c *ConnTransport) WriteLine(p []byte) error {
	_, pinErr, err := c.send(p, []byte(crlf))
	c.report(pinErr, err)
	return err
}

// Flush returns once the bus is idle. SPI transactions are synchronous, so
// every byte handed to Write has already been clocked out.
func (c *ConnTransport) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return nil
}

// Close releases the SPI port if this transport opened it.
func (c *ConnTransport) Close() error {
	c.mu.Lock()
	pinErr := c.setActivity(Low)
	port := c.port
	c.port = nil
	c.mu.Unlock()

	c.report(pinErr, nil)
	if port == nil {
		return nil
	}
	if err := port.Close(); err != nil {
		diag.Warn("Failed to close SPI port")
		return fmt.Errorf("failed to close SPI port: %w", err)
	}
	diag.Info("SPI bus closed.")
	return nil
}

// send clocks out p, then term, holding the bus for both.
func (c *ConnTransport) send(p, term []byte) (written int, pinErr, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pinErr = c.setActivity(High)
	defer func() {
		if e := c.setActivity(Low); pinErr == nil {
			pinErr = e
		}
	}()

	if written, err = c.tx(p); err != nil {
		return written, pinErr, err
	}
	n, err := c.tx(term)
	return written + n, pinErr, err
}

func (c *ConnTransport) tx(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		n := copy(c.scratch[:], p)
		// Read back into the same slice, the response is ignored.
		chunk := c.scratch[:n]
		if err := c.conn.Tx(chunk, chunk); err != nil {
			return written, fmt.Errorf("spi transfer: %w", err)
		}
		written += n
		p = p[n:]
	}
	return written, nil
}

func (c *ConnTransport) setActivity(l Level) error {
	if c.activity == nil {
		return nil
	}
	return c.activity.Out(l)
}

// report must be called without c.mu held.
func (c *ConnTransport) report(pinErr, err error) {
	if pinErr == nil && err == nil {
		return
	}
	if !c.reporting.CompareAndSwap(false, true) {
		return
	}
	defer c.reporting.Store(false)

	if pinErr != nil {
		diag.Warn("Failed to drive activity pin")
	}
	if err != nil {
		diag.Error("SPI Transfer Error")
	}
}
