package machine

import (
	"errors"
	"fmt"

	"github.com/JeanRibes/midistate/ump"

	charmlog "github.com/charmbracelet/log"
)

var (
	ErrNoteOutOfRange      = errors.New("note is out of range")
	ErrIndexOutOfRange     = errors.New("controller index is out of range")
	ErrParameterOutOfRange = errors.New("parameter number is out of range")
)

// ProtocolError describes a message that violates a structural
// precondition. Packet is nil for MIDI 1.0 messages.
type ProtocolError struct {
	Err     error
	Message string
	Packet  *ump.Packet
}

func (e *ProtocolError) Error() string {
	if e.Packet != nil {
		return e.Message + " : " + e.Packet.String()
	}
	return e.Message
}

// Unwrap returns the Err*OutOfRange value the violation was raised for.
func (e *ProtocolError) Unwrap() error { return e.Err }

// DiagnosticsHandler is called on every violation. The offending mutation
// is skipped whatever the handler does.
type DiagnosticsHandler func(v *ProtocolError)

// PanicOnViolation treats every violation as fatal. This is the default.
func PanicOnViolation(v *ProtocolError) {
	panic(v)
}

// LogAndSkip returns a handler that logs a warning and lets processing go on.
func LogAndSkip(logger *charmlog.Logger) DiagnosticsHandler {
	return func(v *ProtocolError) {
		if v.Packet != nil {
			logger.Warn(v.Message, "packet", v.Packet.String())
		} else {
			logger.Warn(v.Message)
		}
	}
}

// Recover turns a ProtocolError panic back into an error. Other panics
// are re-raised.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if pe, ok := r.(*ProtocolError); ok {
		*err = pe
		return
	}
	panic(r)
}

func violation(sentinel error, packet *ump.Packet, format string, args ...any) *ProtocolError {
	return &ProtocolError{
		Err:     sentinel,
		Message: sentinel.Error() + ": " + fmt.Sprintf(format, args...),
		Packet:  packet,
	}
}
