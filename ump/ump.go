// Package ump holds the Universal MIDI Packet representation consumed by the
// MIDI 2.0 machine.
package ump

import (
	"fmt"

	. "github.com/JeanRibes/midistate/shared"
)

// Message types, from the top nibble of the first word.
const (
	MessageTypeUtility     uint8 = 0x0
	MessageTypeSystem      uint8 = 0x1
	MessageTypeMidi1       uint8 = 0x2
	MessageTypeSysex7      uint8 = 0x3
	MessageTypeMidi2       uint8 = 0x4
	MessageTypeSysex8MDS   uint8 = 0x5
	ProgramOptionBankValid uint8 = 0x01
	PerNoteResetOption     uint8 = 0x01
	PerNoteDetachOption    uint8 = 0x02
)

// Packet is one UMP, up to four words. Unused words are zero.
type Packet struct {
	Int1 uint32
	Int2 uint32
	Int3 uint32
	Int4 uint32
}

// Size returns the packet length in words.
func (p Packet) Size() int {
	switch p.MessageType() {
	case MessageTypeMidi2, MessageTypeSysex7, 0x8, 0x9, 0xA:
		return 2
	case 0xB, 0xC:
		return 3
	case MessageTypeSysex8MDS, 0xD, 0xE, 0xF:
		return 4
	default:
		return 1
	}
}

func (p Packet) MessageType() uint8 { return uint8(p.Int1 >> 28) }

func (p Packet) Group() uint8 { return uint8(p.Int1>>24) & 0xF }

// StatusByte is the full status byte, e.g. 0x93 for a note on on channel 4.
func (p Packet) StatusByte() uint8 { return uint8(p.Int1 >> 16) }

// StatusCode is the status byte without the channel, e.g. 0x90.
func (p Packet) StatusCode() uint8 { return p.StatusByte() & 0xF0 }

func (p Packet) ChannelInGroup() uint8 { return p.StatusByte() & 0xF }

// GroupAndChannel is the channel index across all groups, group*16+channel.
func (p Packet) GroupAndChannel() int {
	return int(p.Group())*NUM_CHANNELS + int(p.ChannelInGroup())
}

// Midi1Msb is the first data byte of a MIDI1-in-UMP or system message.
// It is not masked, so an invalid 8-bit value stays visible.
func (p Packet) Midi1Msb() uint8 { return uint8(p.Int1 >> 8) }

// Midi1Lsb is the second data byte of a MIDI1-in-UMP or system message.
func (p Packet) Midi1Lsb() uint8 { return uint8(p.Int1) }

func (p Packet) Midi2Note() uint8 { return uint8(p.Int1 >> 8) }

func (p Packet) Midi2NoteAttributeType() uint8 { return uint8(p.Int1) }

func (p Packet) Midi2Velocity16() uint16 { return uint16(p.Int2 >> 16) }

func (p Packet) Midi2NoteAttributeData() uint16 { return uint16(p.Int2) }

func (p Packet) Midi2PAfData() uint32 { return p.Int2 }

func (p Packet) Midi2CCIndex() uint8 { return uint8(p.Int1 >> 8) }

func (p Packet) Midi2CCData() uint32 { return p.Int2 }

func (p Packet) Midi2ProgramOptions() uint8 { return uint8(p.Int1) }

func (p Packet) Midi2ProgramProgram() uint8 { return uint8(p.Int2 >> 24) }

func (p Packet) Midi2ProgramBankMsb() uint8 { return uint8(p.Int2>>8) & 0x7F }

func (p Packet) Midi2ProgramBankLsb() uint8 { return uint8(p.Int2) & 0x7F }

func (p Packet) Midi2CAfData() uint32 { return p.Int2 }

func (p Packet) Midi2PitchBendData() uint32 { return p.Int2 }

func (p Packet) Midi2PerNoteIndex() uint8 { return uint8(p.Int1) }

func (p Packet) Midi2PerNoteData() uint32 { return p.Int2 }

func (p Packet) Midi2PerNoteManagementOptions() uint8 { return uint8(p.Int1) }

// Midi2RpnMsb is shared by RPN, NRPN and their relative variants.
func (p Packet) Midi2RpnMsb() uint8 { return uint8(p.Int1 >> 8) }

func (p Packet) Midi2RpnLsb() uint8 { return uint8(p.Int1) }

func (p Packet) Midi2RpnData() uint32 { return p.Int2 }

func (p Packet) String() string {
	switch p.Size() {
	case 1:
		return fmt.Sprintf("%08X", p.Int1)
	case 2:
		return fmt.Sprintf("%08X %08X", p.Int1, p.Int2)
	case 3:
		return fmt.Sprintf("%08X %08X %08X", p.Int1, p.Int2, p.Int3)
	default:
		return fmt.Sprintf("%08X %08X %08X %08X", p.Int1, p.Int2, p.Int3, p.Int4)
	}
}
