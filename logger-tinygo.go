//go:build tinygo

package seriallog

import (
	"machine"
)

func init() {
	diag = &serialDiag{}
}

// serialDiag is the default diagnostics sink for TinyGo. It writes to
// machine.Serial directly to avoid the memory overhead of the fmt package,
// and tags each line so it can be told apart from Logger output on the
// same port.
type serialDiag struct{}

func (l *serialDiag) log(tag, msg string) {
	machine.Serial.Write([]byte("seriallog: "))
	machine.Serial.Write([]byte(tag))
	machine.Serial.Write([]byte(msg))
	machine.Serial.Write([]byte(crlf))
}

func (l *serialDiag) Debug(msg string) { l.log("[DEBUG] ", msg) }
func (l *serialDiag) Info(msg string)  { l.log("[INFO]  ", msg) }
func (l *serialDiag) Warn(msg string)  { l.log("[WARN]  ", msg) }
func (l *serialDiag) Error(msg string) { l.log("[ERROR] ", msg) }
