package machine

import (
	"sync/atomic"

	. "github.com/JeanRibes/midistate/shared"
)

const MIDI1_PITCH_BEND_CENTER = 8192

// Midi1Channel is the state of one MIDI 1.0 channel. Every field sits in an
// atomic cell, so readers on other goroutines see consistent values while
// the machine's single producer updates them.
type Midi1Channel struct {
	noteOn         [128]atomic.Bool
	noteVelocity   [128]atomic.Uint32
	polyAftertouch [128]atomic.Uint32
	controls       [128]atomic.Uint32
	omniMode       atomic.Int32
	monoPolyMode   atomic.Int32
	// 14-bit values written by DTE, in 16-bit cells
	rpn       [PARAMETER_SPACE]atomic.Uint32
	nrpn      [PARAMETER_SPACE]atomic.Uint32
	program   atomic.Uint32
	caf       atomic.Uint32
	pitchBend atomic.Uint32
	dteTarget atomic.Int32
}

// Reset restores power-on defaults.
func (c *Midi1Channel) Reset() {
	for i := 0; i < 128; i++ {
		c.noteOn[i].Store(false)
		c.noteVelocity[i].Store(0)
		c.polyAftertouch[i].Store(0)
		c.controls[i].Store(0)
	}
	for i := 0; i < PARAMETER_SPACE; i++ {
		c.rpn[i].Store(0)
		c.nrpn[i].Store(0)
	}
	c.omniMode.Store(int32(Unset))
	c.monoPolyMode.Store(int32(Unset))
	c.program.Store(0)
	c.caf.Store(0)
	c.pitchBend.Store(MIDI1_PITCH_BEND_CENTER)
	c.dteTarget.Store(int32(DteRPN))
}

func (c *Midi1Channel) NoteOn(note int) bool { return c.noteOn[note].Load() }

func (c *Midi1Channel) NoteVelocity(note int) uint8 { return uint8(c.noteVelocity[note].Load()) }

func (c *Midi1Channel) PolyAftertouch(note int) uint8 { return uint8(c.polyAftertouch[note].Load()) }

func (c *Midi1Channel) Control(index int) uint8 { return uint8(c.controls[index].Load()) }

func (c *Midi1Channel) OmniMode() TriState { return TriState(c.omniMode.Load()) }

// MonoPolyMode is On for poly mode and Off for mono mode.
func (c *Midi1Channel) MonoPolyMode() TriState { return TriState(c.monoPolyMode.Load()) }

// Rpn returns the value stored at msb*128+lsb.
func (c *Midi1Channel) Rpn(address int) uint16 { return uint16(c.rpn[address].Load()) }

func (c *Midi1Channel) Nrpn(address int) uint16 { return uint16(c.nrpn[address].Load()) }

func (c *Midi1Channel) Program() uint8 { return uint8(c.program.Load()) }

func (c *Midi1Channel) ChannelAftertouch() uint8 { return uint8(c.caf.Load()) }

// PitchBend is the 14-bit bend, 8192 meaning no bend.
func (c *Midi1Channel) PitchBend() uint16 { return uint16(c.pitchBend.Load()) }

func (c *Midi1Channel) DteTarget() DteTarget { return DteTarget(c.dteTarget.Load()) }

// CurrentRpn is the address selected by the last RPN MSB/LSB controls.
func (c *Midi1Channel) CurrentRpn() int {
	return address(c.Control(int(RpnMsb)), c.Control(int(RpnLsb)))
}

func (c *Midi1Channel) CurrentNrpn() int {
	return address(c.Control(int(NrpnMsb)), c.Control(int(NrpnLsb)))
}

func (c *Midi1Channel) dteTable() (*[PARAMETER_SPACE]atomic.Uint32, int) {
	if c.DteTarget() == DteNRPN {
		return &c.nrpn, c.CurrentNrpn()
	}
	return &c.rpn, c.CurrentRpn()
}

func (c *Midi1Channel) processDte(value uint8, isMsb bool) {
	table, target := c.dteTable()
	cur := uint16(table[target].Load())
	if isMsb {
		cur = cur&0x007F | uint16(value&0x7F)<<7
	} else {
		cur = cur&0x3F80 | uint16(value&0x7F)
	}
	table[target].Store(uint32(cur))
}

func (c *Midi1Channel) processDteIncrement() {
	table, target := c.dteTable()
	table[target].Store(uint32(uint16(table[target].Load()) + 1))
}

func (c *Midi1Channel) processDteDecrement() {
	table, target := c.dteTable()
	table[target].Store(uint32(uint16(table[target].Load()) - 1))
}

func (c *Midi1Channel) setNote(note, velocity uint8, on bool) {
	c.noteVelocity[note].Store(uint32(velocity))
	c.noteOn[note].Store(on)
}

func (c *Midi1Channel) processCC(index, value uint8) {
	switch index {
	case NrpnMsb, NrpnLsb:
		c.dteTarget.Store(int32(DteNRPN))
	case RpnMsb, RpnLsb:
		c.dteTarget.Store(int32(DteRPN))
	case DteMsb:
		c.processDte(value, true)
	case DteLsb:
		c.processDte(value, false)
	case DteIncrement:
		c.processDteIncrement()
	case DteDecrement:
		c.processDteDecrement()
	}
	c.controls[index].Store(uint32(value))
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
