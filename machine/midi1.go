package machine

import (
	. "github.com/JeanRibes/midistate/shared"

	"gitlab.com/gomidi/midi/v2"
)

// Midi1Machine reduces MIDI 1.0 messages into the state of 16 channels.
// ProcessMessage must be driven by one goroutine at a time; accessors may be
// read from anywhere.
type Midi1Machine struct {
	Catalog      *ControllerCatalog
	SystemCommon SystemCommonState

	channels    [NUM_CHANNELS]Midi1Channel
	listeners   dispatcher[midi.Message]
	diagnostics DiagnosticsHandler
}

func NewMidi1Machine() *Midi1Machine {
	m := &Midi1Machine{
		Catalog:     NewControllerCatalog(),
		diagnostics: PanicOnViolation,
	}
	m.Reset()
	return m
}

// Channel returns the state of channel 0-15.
func (m *Midi1Machine) Channel(index int) *Midi1Channel {
	return &m.channels[index]
}

func (m *Midi1Machine) AddListener(l Midi1Listener) {
	m.listeners.add(l.OnMessage)
}

// SetDiagnostics replaces the violation policy. A nil handler restores
// PanicOnViolation.
func (m *Midi1Machine) SetDiagnostics(h DiagnosticsHandler) {
	if h == nil {
		h = PanicOnViolation
	}
	m.diagnostics = h
}

// Reset brings every channel and the system common state back to defaults.
// Listeners and the catalog are kept.
func (m *Midi1Machine) Reset() {
	for i := range m.channels {
		m.channels[i].Reset()
	}
	m.SystemCommon.Reset()
}

// ProcessMessage applies msg to the channel it addresses, then notifies the
// listeners with msg. Unknown or truncated messages change nothing.
func (m *Midi1Machine) ProcessMessage(msg midi.Message) {
	m.apply(msg)
	m.listeners.notify(msg)
}

func (m *Midi1Machine) withNoteRangeCheck(msg midi.Message, action func()) {
	if msg[1] > 127 {
		m.diagnostics(violation(ErrNoteOutOfRange, nil, "% X", []byte(msg)))
		return
	}
	action()
}

func (m *Midi1Machine) apply(msg midi.Message) {
	if len(msg) == 0 {
		return
	}
	status := msg[0]
	if status >= 0xF0 {
		m.applySystem(msg)
		return
	}
	if status < 0x80 || len(msg) < midi1MessageLength(status) {
		return
	}
	ch := &m.channels[status&0x0F]
	switch status & 0xF0 {
	case NoteOn:
		m.withNoteRangeCheck(msg, func() {
			ch.setNote(msg[1], msg[2], msg[2] != 0)
		})
	case NoteOff:
		m.withNoteRangeCheck(msg, func() {
			ch.setNote(msg[1], msg[2], false)
		})
	case PAF:
		m.withNoteRangeCheck(msg, func() {
			ch.polyAftertouch[msg[1]].Store(uint32(msg[2]))
		})
	case CC:
		if msg[1] > 127 {
			m.diagnostics(violation(ErrIndexOutOfRange, nil, "% X", []byte(msg)))
			return
		}
		ch.processCC(msg[1], msg[2])
	case Program:
		ch.program.Store(uint32(msg[1]))
	case CAF:
		ch.caf.Store(uint32(msg[1]))
	case PitchBend:
		// first data byte is the msb
		ch.pitchBend.Store(uint32(msg[1]&0x7F)<<7 + uint32(msg[2]&0x7F))
	}
}

func (m *Midi1Machine) applySystem(msg midi.Message) {
	switch msg[0] {
	case MTCQuarterFrame:
		if len(msg) >= 2 {
			m.SystemCommon.setMTCQuarterFrame(msg[1])
		}
	case SongPositionPointer:
		if len(msg) >= 3 {
			m.SystemCommon.setSongPositionPointer(msg[1], msg[2])
		}
	case SongSelect:
		if len(msg) >= 2 {
			m.SystemCommon.setSongSelect(msg[1])
		}
	}
}

func midi1MessageLength(status uint8) int {
	switch status & 0xF0 {
	case Program, CAF:
		return 2
	default:
		return 3
	}
}
