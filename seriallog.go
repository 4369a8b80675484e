// Package seriallog is a small leveled logger for microcontrollers and
// single-board computers. It wraps a character transport (a UART, a USB
// serial console, an SPI byte stream) and filters, prefixes and either
// writes or buffers each line.
//
// A Logger is not safe for concurrent use. Callers that share one between
// goroutines must serialize access themselves.
package seriallog

import (
	"errors"
	"fmt"
)

var (
	ErrNilTransport     = errors.New("transport is nil")
	ErrEmptyLevelTable  = errors.New("level table is empty")
	ErrTooManyLevels    = errors.New("too many levels")
	ErrLevelNameTooLong = errors.New("level name too long")
	ErrBacklogFull      = errors.New("backlog full")
)

// DefaultPrefix is the prefix label used when Config.Prefix is empty.
const DefaultPrefix = "SYSMON"

// Config holds the initial state of a Logger. The zero value logs with the
// default level table, the "SYSMON" prefix and output disabled.
type Config struct {
	// Prefix is the label written in front of each line as "<prefix>: ".
	// Longer labels are cut to MaxPrefixLen bytes.
	// Defaults to "SYSMON" if not provided.
	Prefix string
	// Levels is the level table. It is copied, so the caller may reuse the slice.
	// Defaults to DefaultLevels if not provided.
	Levels []LevelDefinition
	// Level is the numeric value of the initial threshold.
	// If no entry has this value the first entry of Levels is used.
	// Defaults to 0.
	Level uint8
	// HideLinePrefix disables the "<prefix>: " part of each line.
	HideLinePrefix bool
	// ShowLevelName enables the "<level name>: " part of each line.
	ShowLevelName bool
	// Enabled starts the logger in write-through mode. Otherwise lines are
	// buffered until Enable and FlushBuffer are called.
	Enabled bool
	// TraceFlush makes FlushBuffer announce the number of messages and each
	// element index before replaying it.
	TraceFlush bool
}

// Logger filters lines by level and writes them to a Transport, or keeps
// them in a fixed backlog while output is disabled.
type Logger struct {
	transport   Transport
	enabled     bool
	linePrefix  bool
	levelPrefix bool
	traceFlush  bool
	prefix      string
	levels      levelTable
	current     int
	backlog     backlog
	dropped     int
	err         error
	scratch     [LineSize]byte
}

// New creates a Logger writing to t.
// It applies configuration defaults and copies the level table.
func New(t Transport, c Config) (*Logger, error) {
	if t == nil {
		return nil, ErrNilTransport
	}
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.Levels == nil {
		c.Levels = DefaultLevels
	}

	table, err := newLevelTable(c.Levels)
	if err != nil {
		return nil, fmt.Errorf("invalid level table: %w", err)
	}

	l := &Logger{
		transport:   t,
		enabled:     c.Enabled,
		linePrefix:  !c.HideLinePrefix,
		levelPrefix: c.ShowLevelName,
		traceFlush:  c.TraceFlush,
		levels:      table,
		backlog:     newBacklog(),
	}
	l.SetPrefix(c.Prefix)
	l.SetCurrentLevel(c.Level)
	return l, nil
}

func (l *Logger) String() string {
	return fmt.Sprintf("Logger(Prefix=%q, Level=%s, Enabled=%v, Buffered=%d)",
		l.prefix,
		l.GetCurrentLevel(),
		l.enabled,
		l.backlog.count,
	)
}

// Enable switches to write-through mode. Buffered messages stay buffered
// until FlushBuffer is called.
func (l *Logger) Enable() {
	l.enabled = true
}

// Disable switches to buffering mode.
func (l *Logger) Disable() {
	l.enabled = false
}

// Enabled reports whether lines are written through to the transport.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// SetLinePrefix toggles the "<prefix>: " part of each line.
func (l *Logger) SetLinePrefix(enabled bool) {
	l.linePrefix = enabled
}

// SetLevelPrefix toggles the "<level name>: " part of each line.
func (l *Logger) SetLevelPrefix(enabled bool) {
	l.levelPrefix = enabled
}

// SetPrefix replaces the prefix label, cutting it to MaxPrefixLen bytes.
func (l *Logger) SetPrefix(prefix string) {
	l.prefix = string(truncate([]byte(prefix), MaxPrefixLen))
}

// SetLevelTable replaces the level table with a copy of levels and
// re-resolves the current level by its numeric value, falling back to the
// first entry of the new table. On error the logger is left unchanged.
func (l *Logger) SetLevelTable(levels []LevelDefinition) error {
	table, err := newLevelTable(levels)
	if err != nil {
		return fmt.Errorf("invalid level table: %w", err)
	}
	old := l.GetCurrentLevel().Value
	l.levels = table
	l.SetCurrentLevel(old)
	return nil
}

// SetCurrentLevel makes the entry with the given value the threshold.
// If there is none, the first entry of the table is used.
func (l *Logger) SetCurrentLevel(value uint8) {
	i := l.levels.indexOf(value)
	if i < 0 {
		i = 0
	}
	l.current = i
}

// GetLevelTable returns a copy of the active level table.
func (l *Logger) GetLevelTable() []LevelDefinition {
	return l.levels.slice()
}

// GetCurrentLevel returns the entry used as the threshold.
func (l *Logger) GetCurrentLevel() LevelDefinition {
	return l.levels.entries[l.current]
}

// GetLevelCount returns the number of entries in the active level table.
func (l *Logger) GetLevelCount() int {
	return l.levels.count
}

// GetTransport returns the transport the logger writes to.
func (l *Logger) GetTransport() Transport {
	return l.transport
}

// GetBuffer returns a copy of the buffered messages in insertion order.
func (l *Logger) GetBuffer() []Message {
	return l.backlog.snapshot()
}

// BufferedCount returns the number of messages waiting in the backlog.
func (l *Logger) BufferedCount() int {
	return l.backlog.count
}

// Dropped returns how many lines were rejected because the backlog was full.
func (l *Logger) Dropped() int {
	return l.dropped
}

// Err returns the failure of the last Log, FlushBuffer or DumpLevelTable
// call: a transport error, or ErrBacklogFull when a line was rejected.
// FlushBuffer and DumpLevelTable keep the first error they hit.
// It is nil when that call succeeded.
func (l *Logger) Err() error {
	return l.err
}

// Log formats and emits a line at the given level.
//
// The level must not exceed the current threshold and must be found among
// the first current.Value+1 entries of the table; entries stored at a higher
// index are never matched.
//
// Unlike printf, format is only interpreted when args are given. Without
// args it is written literally, so Log(0, "100%% done") writes both percent
// signs and Log(0, "100% done") needs no escaping.
//
// While enabled the line is written to the transport. While disabled it is
// appended to the backlog. Log returns false when the level does not match
// or the backlog is full; in both cases nothing is written or stored.
// Lines longer than LineSize-1 bytes are truncated, buffered lines to what
// fits in MessageSize together with "\r\n".
func (l *Logger) Log(level uint8, format string, args ...any) bool {
	cur := l.levels.entries[l.current]
	if level > cur.Value {
		return false
	}
	i := l.levels.lookupBounded(level, cur.Value)
	if i < 0 {
		return false
	}

	line := l.format(&l.levels.entries[i], format, args)
	if l.enabled {
		l.err = l.transport.WriteLine(line)
		return true
	}
	if !l.backlog.push(level, line) {
		l.dropped++
		l.err = fmt.Errorf("%w: %d messages pending", ErrBacklogFull, BacklogSize)
		return false
	}
	l.err = nil
	return true
}

func (l *Logger) format(lvl *LevelDefinition, format string, args []any) []byte {
	b := l.scratch[:0]
	if l.linePrefix {
		b = append(b, l.prefix...)
		b = append(b, ": "...)
	}
	if l.levelPrefix {
		b = append(b, lvl.Name...)
		b = append(b, ": "...)
	}
	if len(args) == 0 {
		b = append(b, format...)
	} else {
		b = fmt.Appendf(b, format, args...)
	}
	return truncate(b, LineSize-1)
}

// Errorf logs at LevelError.
func (l *Logger) Errorf(format string, args ...any) bool {
	return l.Log(LevelError, format, args...)
}

// Infof logs at LevelInfo.
func (l *Logger) Infof(format string, args ...any) bool {
	return l.Log(LevelInfo, format, args...)
}

// Debugf logs at LevelDebug.
func (l *Logger) Debugf(format string, args ...any) bool {
	return l.Log(LevelDebug, format, args...)
}

// Debug, Info, Warn and Error make a Logger usable as a DiagLogger.
// Warn has no level of its own and is logged at LevelInfo.

func (l *Logger) Debug(msg string) { l.Log(LevelDebug, msg) }
func (l *Logger) Info(msg string)  { l.Log(LevelInfo, msg) }
func (l *Logger) Warn(msg string)  { l.Log(LevelInfo, "WARN: "+msg) }
func (l *Logger) Error(msg string) { l.Log(LevelError, msg) }

// FlushBuffer replays the backlog in insertion order, flushing the
// transport after each message, and empties it. A message whose write
// fails is dropped and the first error is kept in Err. It does nothing
// while the logger is disabled.
func (l *Logger) FlushBuffer() {
	if !l.enabled {
		return
	}

	var first error
	keep := func(err error) {
		if first == nil {
			first = err
		}
	}

	if l.traceFlush {
		keep(l.printf("Printing %d buffered messages!\n", l.backlog.count))
	}
	i := 0
	l.backlog.drain(func(m *Message) {
		if l.traceFlush {
			keep(l.printf("Printing element %d: ", i))
		}
		i++
		if _, err := l.transport.Write(m.text[:m.n]); err != nil {
			keep(err)
			return
		}
		keep(l.transport.Flush())
	})
	if l.traceFlush {
		keep(l.printf("%d buffered messages!\n", l.backlog.count))
		keep(l.transport.Flush())
	}
	l.err = first
}

// DumpLevelTable writes every level and the current threshold to the
// transport and flushes it. It does nothing while the logger is disabled.
func (l *Logger) DumpLevelTable() {
	if !l.enabled {
		return
	}

	var first error
	keep := func(err error) {
		if first == nil {
			first = err
		}
	}

	keep(l.printf("LOG: Printing %d log levels:\n", l.levels.count))
	for i := 0; i < l.levels.count; i++ {
		e := l.levels.entries[i]
		keep(l.transport.WriteLine([]byte("{")))
		keep(l.printf(" Name: \"%s\"\n Value: %d\n", e.Name, e.Value))
		keep(l.transport.WriteLine([]byte("}")))
	}
	cur := l.GetCurrentLevel()
	keep(l.printf("Current log level: %s=%d\n\n", cur.Name, cur.Value))
	keep(l.transport.Flush())
	l.err = first
}

func (l *Logger) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(l.transport, format, args...)
	return err
}
