package monitor

import (
	"sync/atomic"

	"github.com/JeanRibes/midistate/machine"
	. "github.com/JeanRibes/midistate/shared"
	"github.com/JeanRibes/midistate/ump"

	"gitlab.com/gomidi/midi/v2"
)

// NoteBoard mirrors which keys are held on every group*16+channel, for
// keyboard widgets. It is fed by machine listeners and cleared on stop.
type NoteBoard struct {
	held [NUM_GROUPS * NUM_CHANNELS][128]atomic.Bool
}

func (b *NoteBoard) set(index int, note uint8, on bool) {
	if note > 127 {
		return
	}
	b.held[index][note].Store(on)
}

func (b *NoteBoard) Midi1Listener() machine.Midi1Listener {
	return machine.Midi1ListenerFunc(func(msg midi.Message) {
		if len(msg) < 3 {
			return
		}
		ch := int(msg[0] & 0x0F)
		switch msg[0] & 0xF0 {
		case NoteOn:
			b.set(ch, msg[1], msg[2] != 0)
		case NoteOff:
			b.set(ch, msg[1], false)
		}
	})
}

func (b *NoteBoard) Midi2Listener() machine.Midi2Listener {
	return machine.Midi2ListenerFunc(func(p ump.Packet) {
		if p.MessageType() != ump.MessageTypeMidi1 && p.MessageType() != ump.MessageTypeMidi2 {
			return
		}
		switch p.StatusCode() {
		case NoteOn:
			on := true
			if p.MessageType() == ump.MessageTypeMidi1 {
				on = p.Midi1Lsb() != 0
			}
			b.set(p.GroupAndChannel(), p.Midi2Note(), on)
		case NoteOff:
			b.set(p.GroupAndChannel(), p.Midi2Note(), false)
		}
	})
}

func (b *NoteBoard) IsHeld(index, note int) bool {
	return b.held[index][note].Load()
}

// Held lists the held notes of a channel, ascending.
func (b *NoteBoard) Held(index int) []uint8 {
	var notes []uint8
	for n := range b.held[index] {
		if b.held[index][n].Load() {
			notes = append(notes, uint8(n))
		}
	}
	return notes
}

func (b *NoteBoard) Reset() {
	for i := range b.held {
		for n := range b.held[i] {
			b.held[i][n].Store(false)
		}
	}
}
