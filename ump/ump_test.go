package ump

import (
	"testing"

	. "github.com/JeanRibes/midistate/shared"

	"gitlab.com/gomidi/midi/v2"
)

func TestMidi1NoteOnFields(t *testing.T) {
	p := Midi1NoteOn(3, 9, 60, 100)
	if p.Int1 != 0x23993C64 {
		t.Fatalf("word: got %08X", p.Int1)
	}
	if p.MessageType() != MessageTypeMidi1 {
		t.Errorf("message type: got %d", p.MessageType())
	}
	if p.Group() != 3 || p.ChannelInGroup() != 9 {
		t.Errorf("group/channel: got %d/%d", p.Group(), p.ChannelInGroup())
	}
	if p.GroupAndChannel() != 3*16+9 {
		t.Errorf("group and channel: got %d", p.GroupAndChannel())
	}
	if p.StatusCode() != NoteOn {
		t.Errorf("status: got %02X", p.StatusCode())
	}
	if p.Midi1Msb() != 60 || p.Midi1Lsb() != 100 {
		t.Errorf("data: got %d %d", p.Midi1Msb(), p.Midi1Lsb())
	}
	if p.Size() != 1 {
		t.Errorf("size: got %d", p.Size())
	}
}

func TestMidi2NoteOnFields(t *testing.T) {
	p := Midi2NoteOn(1, 2, 64, 3, 0xABCD, 0x1234)
	if p.Int1 != 0x41924003 || p.Int2 != 0xABCD1234 {
		t.Fatalf("words: got %v", p)
	}
	if p.Midi2Note() != 64 || p.Midi2NoteAttributeType() != 3 {
		t.Errorf("note/attr type: got %d %d", p.Midi2Note(), p.Midi2NoteAttributeType())
	}
	if p.Midi2Velocity16() != 0xABCD || p.Midi2NoteAttributeData() != 0x1234 {
		t.Errorf("velocity/attr: got %04X %04X", p.Midi2Velocity16(), p.Midi2NoteAttributeData())
	}
	if p.Size() != 2 {
		t.Errorf("size: got %d", p.Size())
	}
	if p.String() != "41924003 ABCD1234" {
		t.Errorf("string: got %q", p.String())
	}
}

func TestMidi2ProgramFields(t *testing.T) {
	p := Midi2Program(0, 0, ProgramOptionBankValid, 42, 5, 6)
	if p.Midi2ProgramOptions()&ProgramOptionBankValid == 0 {
		t.Errorf("bank valid bit missing")
	}
	if p.Midi2ProgramProgram() != 42 {
		t.Errorf("program: got %d", p.Midi2ProgramProgram())
	}
	if p.Midi2ProgramBankMsb() != 5 || p.Midi2ProgramBankLsb() != 6 {
		t.Errorf("bank: got %d %d", p.Midi2ProgramBankMsb(), p.Midi2ProgramBankLsb())
	}
}

func TestMidi2RelativeRPNDelta(t *testing.T) {
	p := Midi2RelativeRPN(0, 0, 0, 1, -2)
	if p.Midi2RpnData() != 0xFFFFFFFE {
		t.Errorf("delta: got %08X", p.Midi2RpnData())
	}
	if p.Midi2RpnMsb() != 0 || p.Midi2RpnLsb() != 1 {
		t.Errorf("address: got %d %d", p.Midi2RpnMsb(), p.Midi2RpnLsb())
	}
}

func TestMidi1PitchBendSplitsWireOrder(t *testing.T) {
	p := Midi1PitchBend(0, 0, 0x2001)
	// first data byte is the lsb
	if p.Midi1Msb() != 0x01 || p.Midi1Lsb() != 0x40 {
		t.Errorf("data: got %02X %02X", p.Midi1Msb(), p.Midi1Lsb())
	}
}

func TestFromMidi1(t *testing.T) {
	tests := []struct {
		name string
		msg  midi.Message
		ok   bool
		want Packet
	}{
		{"note on", midi.NoteOn(2, 60, 100), true, Midi1NoteOn(5, 2, 60, 100)},
		{"control change", midi.ControlChange(0, 7, 99), true, Midi1CC(5, 0, 7, 99)},
		{"program", midi.ProgramChange(15, 12), true, Midi1Program(5, 15, 12)},
		{"pitch bend", midi.Message{0xE1, 0x00, 0x40}, true, Midi1PitchBend(5, 1, 8192)},
		{"song position", midi.Message{0xF2, 0x10, 0x01}, true, SystemMessage(5, SongPositionPointer, 0x10, 0x01)},
		{"mtc", midi.Message{0xF1, 0x23}, true, SystemMessage(5, MTCQuarterFrame, 0x23, 0)},
		{"sysex", midi.Message{0xF0, 0x7E, 0xF7}, false, Packet{}},
		{"truncated", midi.Message{0x90, 60}, false, Packet{}},
		{"empty", midi.Message{}, false, Packet{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromMidi1(5, tt.msg)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("packet: got %v, want %v", got, tt.want)
			}
		})
	}
}
