package ump

import (
	. "github.com/JeanRibes/midistate/shared"

	"gitlab.com/gomidi/midi/v2"
)

func header(messageType, group, status, channel uint8) uint32 {
	return uint32(messageType&0xF)<<28 | uint32(group&0xF)<<24 | uint32(status&0xF0|channel&0xF)<<16
}

func midi1(group, status, channel, data1, data2 uint8) Packet {
	return Packet{Int1: header(MessageTypeMidi1, group, status, channel) | uint32(data1)<<8 | uint32(data2)}
}

func midi2(group, status, channel, index1, index2 uint8, data uint32) Packet {
	return Packet{
		Int1: header(MessageTypeMidi2, group, status, channel) | uint32(index1)<<8 | uint32(index2),
		Int2: data,
	}
}

// Midi1Message builds a MIDI1 channel voice message in a UMP. Data bytes
// are stored as given, without masking.
func Midi1Message(group, status, channel, data1, data2 uint8) Packet {
	return midi1(group, status, channel, data1, data2)
}

func Midi1NoteOn(group, channel, note, velocity uint8) Packet {
	return midi1(group, NoteOn, channel, note, velocity)
}

func Midi1NoteOff(group, channel, note, velocity uint8) Packet {
	return midi1(group, NoteOff, channel, note, velocity)
}

func Midi1PAf(group, channel, note, pressure uint8) Packet {
	return midi1(group, PAF, channel, note, pressure)
}

func Midi1CC(group, channel, index, value uint8) Packet {
	return midi1(group, CC, channel, index, value)
}

func Midi1Program(group, channel, program uint8) Packet {
	return midi1(group, Program, channel, program, 0)
}

func Midi1CAf(group, channel, pressure uint8) Packet {
	return midi1(group, CAF, channel, pressure, 0)
}

// Midi1PitchBend lays out a 14-bit bend value in MIDI 1.0 wire order, lsb
// first. The machines read the first data byte as the msb.
func Midi1PitchBend(group, channel uint8, value uint16) Packet {
	return midi1(group, PitchBend, channel, uint8(value&0x7F), uint8(value>>7)&0x7F)
}

func Midi2NoteOn(group, channel, note, attributeType uint8, velocity, attributeData uint16) Packet {
	return midi2(group, NoteOn, channel, note, attributeType, uint32(velocity)<<16|uint32(attributeData))
}

func Midi2NoteOff(group, channel, note, attributeType uint8, velocity, attributeData uint16) Packet {
	return midi2(group, NoteOff, channel, note, attributeType, uint32(velocity)<<16|uint32(attributeData))
}

func Midi2PAf(group, channel, note uint8, data uint32) Packet {
	return midi2(group, PAF, channel, note, 0, data)
}

func Midi2CC(group, channel, index uint8, data uint32) Packet {
	return midi2(group, CC, channel, index, 0, data)
}

func Midi2Program(group, channel, options, program, bankMsb, bankLsb uint8) Packet {
	return midi2(group, Program, channel, 0, options,
		uint32(program)<<24|uint32(bankMsb&0x7F)<<8|uint32(bankLsb&0x7F))
}

func Midi2CAf(group, channel uint8, data uint32) Packet {
	return midi2(group, CAF, channel, 0, 0, data)
}

func Midi2PitchBend(group, channel uint8, data uint32) Packet {
	return midi2(group, PitchBend, channel, 0, 0, data)
}

func Midi2PerNotePitchBend(group, channel, note uint8, data uint32) Packet {
	return midi2(group, PerNotePitchBend, channel, note, 0, data)
}

func Midi2PerNoteRCC(group, channel, note, index uint8, data uint32) Packet {
	return midi2(group, PerNoteRCC, channel, note, index, data)
}

func Midi2PerNoteACC(group, channel, note, index uint8, data uint32) Packet {
	return midi2(group, PerNoteACC, channel, note, index, data)
}

func Midi2PerNoteManagement(group, channel, note, options uint8) Packet {
	return midi2(group, PerNoteManagement, channel, note, options, 0)
}

func Midi2RPN(group, channel, msb, lsb uint8, data uint32) Packet {
	return midi2(group, RPN, channel, msb, lsb, data)
}

func Midi2NRPN(group, channel, msb, lsb uint8, data uint32) Packet {
	return midi2(group, NRPN, channel, msb, lsb, data)
}

// Midi2RelativeRPN carries a signed delta, stored as two's complement.
func Midi2RelativeRPN(group, channel, msb, lsb uint8, delta int32) Packet {
	return midi2(group, RelativeRPN, channel, msb, lsb, uint32(delta))
}

func Midi2RelativeNRPN(group, channel, msb, lsb uint8, delta int32) Packet {
	return midi2(group, RelativeNRPN, channel, msb, lsb, uint32(delta))
}

// SystemMessage builds a system common or real time message.
func SystemMessage(group, status, data1, data2 uint8) Packet {
	return Packet{Int1: uint32(MessageTypeSystem)<<28 | uint32(group&0xF)<<24 | uint32(status)<<16 | uint32(data1)<<8 | uint32(data2)}
}

// FromMidi1 wraps a MIDI 1.0 channel voice or system message into a UMP of
// the given group. Sysex, meta and incomplete messages are not converted.
func FromMidi1(group uint8, msg midi.Message) (Packet, bool) {
	if len(msg) == 0 {
		return Packet{}, false
	}
	status := msg[0]
	switch {
	case status >= 0x80 && status < 0xF0:
		code := status & 0xF0
		need := 3
		if code == Program || code == CAF {
			need = 2
		}
		if len(msg) < need {
			return Packet{}, false
		}
		var data2 uint8
		if need == 3 {
			data2 = msg[2]
		}
		return midi1(group, code, status&0xF, msg[1], data2), true
	case status == MTCQuarterFrame || status == SongSelect:
		if len(msg) < 2 {
			return Packet{}, false
		}
		return SystemMessage(group, status, msg[1], 0), true
	case status == SongPositionPointer:
		if len(msg) < 3 {
			return Packet{}, false
		}
		return SystemMessage(group, status, msg[1], msg[2]), true
	case status == 0xF6 || status >= 0xF8:
		return SystemMessage(group, status, 0, 0), true
	}
	return Packet{}, false
}
