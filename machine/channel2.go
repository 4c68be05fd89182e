package machine

import (
	"sync/atomic"

	. "github.com/JeanRibes/midistate/shared"
)

const MIDI2_PITCH_BEND_CENTER = 0x80000000

// Bit layout of a 14-bit MIDI1 DTE value translated into a 32-bit cell.
const (
	midi1DteMsbShift = 25
	midi1DteLsbShift = 18
	midi1DteMsbMask  = 0xFE000000
	midi1DteLsbMask  = 0x01FC0000
)

// Midi2Channel is the state of one group/channel pair of a MIDI 2.0 stream.
// Values are kept at MIDI 2.0 width; MIDI1-in-UMP values are scaled up.
type Midi2Channel struct {
	noteOn            [128]atomic.Bool
	noteVelocity      [128]atomic.Uint32
	noteAttribute     [128]atomic.Uint32
	noteAttributeType [128]atomic.Uint32
	polyAftertouch    [128]atomic.Uint32
	controls          [128]atomic.Uint32
	omniMode          atomic.Int32
	monoPolyMode      atomic.Int32
	// indexed [controller][note]
	perNoteRCC       [128][128]atomic.Uint32
	perNoteACC       [128][128]atomic.Uint32
	perNotePitchBend [128]atomic.Uint32
	rpn              [PARAMETER_SPACE]atomic.Uint32
	nrpn             [PARAMETER_SPACE]atomic.Uint32
	program          atomic.Uint32
	caf              atomic.Uint32
	pitchBend        atomic.Uint32
	dteTarget        atomic.Int32
}

func newMidi2Channel() *Midi2Channel {
	c := &Midi2Channel{}
	c.pitchBend.Store(MIDI2_PITCH_BEND_CENTER)
	for i := range c.perNotePitchBend {
		c.perNotePitchBend[i].Store(MIDI2_PITCH_BEND_CENTER)
	}
	return c
}

// Reset restores power-on defaults.
func (c *Midi2Channel) Reset() {
	for i := 0; i < 128; i++ {
		c.noteOn[i].Store(false)
		c.noteVelocity[i].Store(0)
		c.noteAttribute[i].Store(0)
		c.noteAttributeType[i].Store(0)
		c.polyAftertouch[i].Store(0)
		c.controls[i].Store(0)
		c.resetPerNote(uint8(i))
	}
	for i := 0; i < PARAMETER_SPACE; i++ {
		c.rpn[i].Store(0)
		c.nrpn[i].Store(0)
	}
	c.omniMode.Store(int32(Unset))
	c.monoPolyMode.Store(int32(Unset))
	c.program.Store(0)
	c.caf.Store(0)
	c.pitchBend.Store(MIDI2_PITCH_BEND_CENTER)
	c.dteTarget.Store(int32(DteRPN))
}

func (c *Midi2Channel) resetPerNote(note uint8) {
	for index := 0; index < 128; index++ {
		c.perNoteRCC[index][note].Store(0)
		c.perNoteACC[index][note].Store(0)
	}
	c.perNotePitchBend[note].Store(MIDI2_PITCH_BEND_CENTER)
}

func (c *Midi2Channel) NoteOn(note int) bool { return c.noteOn[note].Load() }

// NoteVelocity is the 16-bit velocity.
func (c *Midi2Channel) NoteVelocity(note int) uint16 { return uint16(c.noteVelocity[note].Load()) }

func (c *Midi2Channel) NoteAttribute(note int) uint16 { return uint16(c.noteAttribute[note].Load()) }

func (c *Midi2Channel) NoteAttributeType(note int) uint8 {
	return uint8(c.noteAttributeType[note].Load())
}

func (c *Midi2Channel) PolyAftertouch(note int) uint32 { return c.polyAftertouch[note].Load() }

func (c *Midi2Channel) Control(index int) uint32 { return c.controls[index].Load() }

func (c *Midi2Channel) OmniMode() TriState { return TriState(c.omniMode.Load()) }

// MonoPolyMode is On for poly mode and Off for mono mode.
func (c *Midi2Channel) MonoPolyMode() TriState { return TriState(c.monoPolyMode.Load()) }

func (c *Midi2Channel) PerNoteRCC(index, note int) uint32 { return c.perNoteRCC[index][note].Load() }

func (c *Midi2Channel) PerNoteACC(index, note int) uint32 { return c.perNoteACC[index][note].Load() }

func (c *Midi2Channel) PerNotePitchBend(note int) uint32 { return c.perNotePitchBend[note].Load() }

func (c *Midi2Channel) Rpn(address int) uint32 { return c.rpn[address].Load() }

func (c *Midi2Channel) Nrpn(address int) uint32 { return c.nrpn[address].Load() }

func (c *Midi2Channel) Program() uint8 { return uint8(c.program.Load()) }

func (c *Midi2Channel) ChannelAftertouch() uint32 { return c.caf.Load() }

// PitchBend is the 32-bit bend, 0x80000000 meaning no bend.
func (c *Midi2Channel) PitchBend() uint32 { return c.pitchBend.Load() }

func (c *Midi2Channel) DteTarget() DteTarget { return DteTarget(c.dteTarget.Load()) }

// CurrentRpn is the address selected by the last MIDI1-in-UMP RPN MSB/LSB
// controls, whose values are stored scaled to 32 bits.
func (c *Midi2Channel) CurrentRpn() int {
	return address(uint8(c.Control(int(RpnMsb))>>25), uint8(c.Control(int(RpnLsb))>>25))
}

func (c *Midi2Channel) CurrentNrpn() int {
	return address(uint8(c.Control(int(NrpnMsb))>>25), uint8(c.Control(int(NrpnLsb))>>25))
}

func (c *Midi2Channel) dteTable() (*[PARAMETER_SPACE]atomic.Uint32, int) {
	if c.DteTarget() == DteNRPN {
		return &c.nrpn, c.CurrentNrpn()
	}
	return &c.rpn, c.CurrentRpn()
}

// MIDI 1.0 DTE should not show up in a MIDI 2.0 stream, but translated
// legacy sources send it anyway. The 14-bit value lands in the top bits.
func (c *Midi2Channel) processMidi1Dte(value uint8, isMsb bool) {
	table, target := c.dteTable()
	cur := table[target].Load()
	if isMsb {
		cur = uint32(value&0x7F)<<midi1DteMsbShift | cur&midi1DteLsbMask
	} else {
		cur = cur&midi1DteMsbMask | uint32(value&0x7F)<<midi1DteLsbShift
	}
	table[target].Store(cur)
}

// One step of a 7-bit controller, translated to the 32-bit cell.
func (c *Midi2Channel) processMidi1DteIncrement() {
	table, target := c.dteTable()
	table[target].Add(1 << midi1DteMsbShift)
}

func (c *Midi2Channel) processMidi1DteDecrement() {
	table, target := c.dteTable()
	table[target].Add(^uint32(1<<midi1DteMsbShift - 1))
}

func (c *Midi2Channel) setModes(index uint8) {
	switch index {
	case OmniModeOff:
		c.omniMode.Store(int32(Off))
	case OmniModeOn:
		c.omniMode.Store(int32(On))
	case MonoModeOn:
		c.monoPolyMode.Store(int32(Off))
	case PolyModeOn:
		c.monoPolyMode.Store(int32(On))
	}
}

func (c *Midi2Channel) processMidi1CC(index, value uint8) {
	switch index {
	case NrpnMsb, NrpnLsb:
		c.dteTarget.Store(int32(DteNRPN))
	case RpnMsb, RpnLsb:
		c.dteTarget.Store(int32(DteRPN))
	case DteMsb:
		c.processMidi1Dte(value, true)
	case DteLsb:
		c.processMidi1Dte(value, false)
	case DteIncrement:
		c.processMidi1DteIncrement()
	case DteDecrement:
		c.processMidi1DteDecrement()
	}
	c.controls[index].Store(uint32(value) << 25)
	c.setModes(index)
}
