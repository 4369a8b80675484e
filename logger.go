package seriallog

// DiagLogger receives diagnostics from the transports, such as a bus being
// opened or a failed SPI transfer. It is separate from Logger so that a
// transport never reports its own failures through itself.
// Simple strings keep binary size and allocations down on TinyGo.
type DiagLogger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

var diag DiagLogger = &nopLogger{}

// SetDiagLogger sets the package diagnostics sink. Nil discards diagnostics.
func SetDiagLogger(l DiagLogger) {
	if l == nil {
		diag = &nopLogger{}
		return
	}
	diag = l
}

// nopLogger is a logger that does nothing.
type nopLogger struct{}

func (l *nopLogger) Debug(msg string) {}
func (l *nopLogger) Info(msg string)  {}
func (l *nopLogger) Warn(msg string)  {}
func (l *nopLogger) Error(msg string) {}
