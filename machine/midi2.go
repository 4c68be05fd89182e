package machine

import (
	"sync/atomic"

	. "github.com/JeanRibes/midistate/shared"
	"github.com/JeanRibes/midistate/ump"
)

const NUM_GROUP_CHANNELS = NUM_GROUPS * NUM_CHANNELS

// Midi2Machine reduces UMPs into per group/channel state. Channels are
// created on first use and kept for the machine's lifetime. ProcessEvent
// must be driven by one goroutine at a time; accessors may be read from
// anywhere.
type Midi2Machine struct {
	Catalog      *ControllerCatalog
	SystemCommon SystemCommonState

	channels    [NUM_GROUP_CHANNELS]atomic.Pointer[Midi2Channel]
	listeners   dispatcher[ump.Packet]
	diagnostics DiagnosticsHandler
}

func NewMidi2Machine() *Midi2Machine {
	return &Midi2Machine{
		Catalog:     NewControllerCatalog(),
		diagnostics: PanicOnViolation,
	}
}

// Channel returns the state at group*16+channel, creating it if needed.
func (m *Midi2Machine) Channel(index int) *Midi2Channel {
	slot := &m.channels[index]
	if ch := slot.Load(); ch != nil {
		return ch
	}
	slot.CompareAndSwap(nil, newMidi2Channel())
	return slot.Load()
}

// Lookup returns the state at group*16+channel, or nil if nothing touched it.
func (m *Midi2Machine) Lookup(index int) *Midi2Channel {
	return m.channels[index].Load()
}

// UsedChannels lists the indexes of the channels created so far, ascending.
func (m *Midi2Machine) UsedChannels() []int {
	used := []int{}
	for i := range m.channels {
		if m.channels[i].Load() != nil {
			used = append(used, i)
		}
	}
	return used
}

func (m *Midi2Machine) AddListener(l Midi2Listener) {
	m.listeners.add(l.OnEvent)
}

// SetDiagnostics replaces the violation policy. A nil handler restores
// PanicOnViolation.
func (m *Midi2Machine) SetDiagnostics(h DiagnosticsHandler) {
	if h == nil {
		h = PanicOnViolation
	}
	m.diagnostics = h
}

// Reset brings the created channels and the system common state back to
// defaults. Channels are not released.
func (m *Midi2Machine) Reset() {
	for i := range m.channels {
		if ch := m.channels[i].Load(); ch != nil {
			ch.Reset()
		}
	}
	m.SystemCommon.Reset()
}

// ProcessEvent applies p to the channel it addresses, then notifies the
// listeners with p. Unsupported message types change nothing.
func (m *Midi2Machine) ProcessEvent(p ump.Packet) {
	switch p.MessageType() {
	case ump.MessageTypeMidi1:
		m.applyMidi1(p)
	case ump.MessageTypeMidi2:
		m.applyMidi2(p)
	case ump.MessageTypeSystem:
		m.applySystem(p)
	}
	m.listeners.notify(p)
}

func (m *Midi2Machine) check(value uint8, sentinel error, p ump.Packet) bool {
	if value > 127 {
		m.diagnostics(violation(sentinel, &p, "%d", value))
		return false
	}
	return true
}

func (m *Midi2Machine) applyMidi1(p ump.Packet) {
	switch p.StatusCode() {
	case NoteOn:
		if m.check(p.Midi1Msb(), ErrNoteOutOfRange, p) {
			ch := m.Channel(p.GroupAndChannel())
			ch.noteVelocity[p.Midi1Msb()].Store(uint32(p.Midi1Lsb()) << 9)
			ch.noteOn[p.Midi1Msb()].Store(p.Midi1Lsb() != 0)
		}
	case NoteOff:
		if m.check(p.Midi1Msb(), ErrNoteOutOfRange, p) {
			ch := m.Channel(p.GroupAndChannel())
			ch.noteVelocity[p.Midi1Msb()].Store(uint32(p.Midi1Lsb()) << 9)
			ch.noteOn[p.Midi1Msb()].Store(false)
		}
	case PAF:
		if m.check(p.Midi1Msb(), ErrNoteOutOfRange, p) {
			m.Channel(p.GroupAndChannel()).polyAftertouch[p.Midi1Msb()].Store(uint32(p.Midi1Lsb()) << 25)
		}
	case CC:
		if m.check(p.Midi1Msb(), ErrIndexOutOfRange, p) {
			m.Channel(p.GroupAndChannel()).processMidi1CC(p.Midi1Msb(), p.Midi1Lsb())
		}
	case Program:
		m.Channel(p.GroupAndChannel()).program.Store(uint32(p.Midi1Msb()))
	case CAF:
		m.Channel(p.GroupAndChannel()).caf.Store(uint32(p.Midi1Msb()) << 25)
	case PitchBend:
		m.Channel(p.GroupAndChannel()).pitchBend.Store(uint32(p.Midi1Msb()&0x7F)<<25 + uint32(p.Midi1Lsb()&0x7F)<<18)
	}
}

func (m *Midi2Machine) applyMidi2(p ump.Packet) {
	switch p.StatusCode() {
	case NoteOn:
		if m.check(p.Midi2Note(), ErrNoteOutOfRange, p) {
			ch := m.Channel(p.GroupAndChannel())
			note := p.Midi2Note()
			ch.noteOn[note].Store(true)
			ch.noteVelocity[note].Store(uint32(p.Midi2Velocity16()))
			ch.noteAttribute[note].Store(uint32(p.Midi2NoteAttributeData()))
			ch.noteAttributeType[note].Store(uint32(p.Midi2NoteAttributeType()))
		}
	case NoteOff:
		if m.check(p.Midi2Note(), ErrNoteOutOfRange, p) {
			ch := m.Channel(p.GroupAndChannel())
			ch.noteOn[p.Midi2Note()].Store(false)
			ch.noteVelocity[p.Midi2Note()].Store(uint32(p.Midi2Velocity16()))
		}
	case PAF:
		if m.check(p.Midi2Note(), ErrNoteOutOfRange, p) {
			m.Channel(p.GroupAndChannel()).polyAftertouch[p.Midi2Note()].Store(p.Midi2PAfData())
		}
	case CC:
		if m.check(p.Midi2CCIndex(), ErrIndexOutOfRange, p) {
			ch := m.Channel(p.GroupAndChannel())
			ch.controls[p.Midi2CCIndex()].Store(p.Midi2CCData())
			ch.setModes(p.Midi2CCIndex())
		}
	case Program:
		ch := m.Channel(p.GroupAndChannel())
		if p.Midi2ProgramOptions()&ump.ProgramOptionBankValid != 0 {
			ch.controls[BankSelect].Store(uint32(p.Midi2ProgramBankMsb()))
			ch.controls[BankSelectLsb].Store(uint32(p.Midi2ProgramBankLsb()))
		}
		ch.program.Store(uint32(p.Midi2ProgramProgram()))
	case CAF:
		m.Channel(p.GroupAndChannel()).caf.Store(p.Midi2CAfData())
	case PitchBend:
		m.Channel(p.GroupAndChannel()).pitchBend.Store(p.Midi2PitchBendData())
	case PerNotePitchBend:
		if m.check(p.Midi2Note(), ErrNoteOutOfRange, p) {
			m.Channel(p.GroupAndChannel()).perNotePitchBend[p.Midi2Note()].Store(p.Midi2PitchBendData())
		}
	case PerNoteRCC:
		if m.check(p.Midi2Note(), ErrNoteOutOfRange, p) && m.check(p.Midi2PerNoteIndex(), ErrIndexOutOfRange, p) {
			m.Channel(p.GroupAndChannel()).perNoteRCC[p.Midi2PerNoteIndex()][p.Midi2Note()].Store(p.Midi2PerNoteData())
		}
	case PerNoteACC:
		if m.check(p.Midi2Note(), ErrNoteOutOfRange, p) && m.check(p.Midi2PerNoteIndex(), ErrIndexOutOfRange, p) {
			m.Channel(p.GroupAndChannel()).perNoteACC[p.Midi2PerNoteIndex()][p.Midi2Note()].Store(p.Midi2PerNoteData())
		}
	case PerNoteManagement:
		if m.check(p.Midi2Note(), ErrNoteOutOfRange, p) && p.Midi2PerNoteManagementOptions()&ump.PerNoteResetOption != 0 {
			m.Channel(p.GroupAndChannel()).resetPerNote(p.Midi2Note())
		}
	case RPN:
		if addr, ok := m.parameterAddress(p); ok {
			m.Channel(p.GroupAndChannel()).rpn[addr].Store(p.Midi2RpnData())
		}
	case NRPN:
		if addr, ok := m.parameterAddress(p); ok {
			m.Channel(p.GroupAndChannel()).nrpn[addr].Store(p.Midi2RpnData())
		}
	case RelativeRPN:
		if addr, ok := m.parameterAddress(p); ok {
			m.Channel(p.GroupAndChannel()).rpn[addr].Add(p.Midi2RpnData())
		}
	case RelativeNRPN:
		if addr, ok := m.parameterAddress(p); ok {
			m.Channel(p.GroupAndChannel()).nrpn[addr].Add(p.Midi2RpnData())
		}
	}
}

func (m *Midi2Machine) parameterAddress(p ump.Packet) (int, bool) {
	if !m.check(p.Midi2RpnMsb(), ErrParameterOutOfRange, p) || !m.check(p.Midi2RpnLsb(), ErrParameterOutOfRange, p) {
		return 0, false
	}
	return address(p.Midi2RpnMsb(), p.Midi2RpnLsb()), true
}

func (m *Midi2Machine) applySystem(p ump.Packet) {
	switch p.StatusByte() {
	case MTCQuarterFrame:
		m.SystemCommon.setMTCQuarterFrame(p.Midi1Msb())
	case SongPositionPointer:
		m.SystemCommon.setSongPositionPointer(p.Midi1Msb(), p.Midi1Lsb())
	case SongSelect:
		m.SystemCommon.setSongSelect(p.Midi1Msb())
	}
}
