package shared

import "fmt"

// Channel voice status codes, as found in the high nibble of a MIDI 1.0
// status byte or of the UMP status field.
const (
	NoteOff   uint8 = 0x80
	NoteOn    uint8 = 0x90
	PAF       uint8 = 0xA0
	CC        uint8 = 0xB0
	Program   uint8 = 0xC0
	CAF       uint8 = 0xD0
	PitchBend uint8 = 0xE0

	// MIDI 2.0 only
	PerNoteRCC        uint8 = 0x00
	PerNoteACC        uint8 = 0x10
	RPN               uint8 = 0x20
	NRPN              uint8 = 0x30
	RelativeRPN       uint8 = 0x40
	RelativeNRPN      uint8 = 0x50
	PerNotePitchBend  uint8 = 0x60
	PerNoteManagement uint8 = 0xF0
)

// System common status bytes.
const (
	MTCQuarterFrame     uint8 = 0xF1
	SongPositionPointer uint8 = 0xF2
	SongSelect          uint8 = 0xF3
)

// Control change numbers the machines care about.
const (
	BankSelect    uint8 = 0x00
	Modulation    uint8 = 0x01
	DteMsb        uint8 = 0x06
	Volume        uint8 = 0x07
	Pan           uint8 = 0x0A
	Expression    uint8 = 0x0B
	BankSelectLsb uint8 = 0x20
	DteLsb        uint8 = 0x26
	Hold          uint8 = 0x40
	DteIncrement  uint8 = 0x60
	DteDecrement  uint8 = 0x61
	NrpnLsb       uint8 = 0x62
	NrpnMsb       uint8 = 0x63
	RpnLsb        uint8 = 0x64
	RpnMsb        uint8 = 0x65
	OmniModeOff   uint8 = 0x7C
	OmniModeOn    uint8 = 0x7D
	MonoModeOn    uint8 = 0x7E
	PolyModeOn    uint8 = 0x7F
)

// Registered parameter numbers, already combined as msb*128+lsb.
const (
	RpnPitchBendSensitivity = 0
	RpnFineTuning           = 1
	RpnCoarseTuning         = 2
	RpnTuningProgram        = 3
	RpnTuningBankSelect     = 4
	RpnModulationDepth      = 5
)

const NUM_CHANNELS = 16
const NUM_GROUPS = 16

// DteTarget selects the table that Data Entry messages write to.
type DteTarget int

const (
	DteRPN DteTarget = iota
	DteNRPN
)

func (t DteTarget) String() string {
	if t == DteNRPN {
		return "nrpn"
	}
	return "rpn"
}

// TriState distinguishes a mode that was never received from an explicit off.
type TriState int

const (
	Unset TriState = iota
	Off
	On
)

func TriStateOf(b bool) TriState {
	if b {
		return On
	}
	return Off
}

func (s TriState) String() string {
	switch s {
	case Off:
		return "off"
	case On:
		return "on"
	default:
		return "unset"
	}
}

// ChannelName formats a group*16+channel index the way it is shown to users.
func ChannelName(index int) string {
	if index < NUM_CHANNELS {
		return fmt.Sprintf("ch %d", index+1)
	}
	return fmt.Sprintf("g%d ch %d", index/NUM_CHANNELS+1, index%NUM_CHANNELS+1)
}
