package seriallog

import "unicode/utf8"

const (
	// BacklogSize is the number of messages held while output is disabled.
	BacklogSize = 50
	// MessageSize is the storage of one buffered message, terminator slot included.
	MessageSize = 100
	// LineSize is the size of the line scratch buffer, terminator slot included.
	LineSize = 255
	// EmptyLevel marks a cleared backlog slot.
	EmptyLevel uint8 = 0xFF
)

const crlf = "\r\n"

// maxMessageText is how much of a line fits into a Message next to crlf.
const maxMessageText = MessageSize - 1 - len(crlf)

// Message is a formatted line waiting in the backlog.
type Message struct {
	Level uint8
	n     uint8
	text  [MessageSize]byte
}

// Text returns the message text, line terminator included.
func (m Message) Text() string {
	return string(m.text[:m.n])
}

func (m *Message) set(level uint8, line []byte) {
	line = truncate(line, maxMessageText)
	n := copy(m.text[:], line)
	n += copy(m.text[n:], crlf)
	m.n = uint8(n)
	m.Level = level
}

func (m *Message) clear() {
	m.n = 0
	m.Level = EmptyLevel
}

// backlog is a fixed-capacity, insertion-ordered message store.
type backlog struct {
	msgs  [BacklogSize]Message
	count int
}

func newBacklog() backlog {
	var b backlog
	for i := range b.msgs {
		b.msgs[i].clear()
	}
	return b
}

// push stores line at the next free slot. It returns false when full.
func (b *backlog) push(level uint8, line []byte) bool {
	if b.count >= BacklogSize {
		return false
	}
	b.msgs[b.count].set(level, line)
	b.count++
	return true
}

// drain calls fn for each message in insertion order, clearing every slot.
func (b *backlog) drain(fn func(m *Message)) {
	for i := 0; i < b.count; i++ {
		fn(&b.msgs[i])
		b.msgs[i].clear()
	}
	b.count = 0
}

func (b *backlog) snapshot() []Message {
	out := make([]Message, b.count)
	copy(out, b.msgs[:b.count])
	return out
}

// truncate cuts p to at most n bytes without splitting a UTF-8 sequence.
func truncate(p []byte, n int) []byte {
	if len(p) <= n {
		return p
	}
	for n > 0 && !utf8.RuneStart(p[n]) {
		n--
	}
	return p[:n]
}
