//go:build !tinygo

package seriallog

import (
	"log"
	"os"
)

func init() {
	diag = newStdLogger(log.New(os.Stderr, "seriallog: ", log.LstdFlags|log.Lmsgprefix))
}

// stdLogger is the default diagnostics sink on Linux. It writes to stderr
// so that diagnostics never interleave with a StreamTransport on stdout.
type stdLogger struct {
	out *log.Logger
}

func newStdLogger(out *log.Logger) *stdLogger {
	return &stdLogger{out: out}
}

func (l *stdLogger) Debug(msg string) { l.out.Print("[DEBUG] " + msg) }
func (l *stdLogger) Info(msg string)  { l.out.Print("[INFO]  " + msg) }
func (l *stdLogger) Warn(msg string)  { l.out.Print("[WARN]  " + msg) }
func (l *stdLogger) Error(msg string) { l.out.Print("[ERROR] " + msg) }
