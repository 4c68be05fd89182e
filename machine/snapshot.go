package machine

import (
	"sync/atomic"

	. "github.com/JeanRibes/midistate/shared"
)

type NoteSnapshot struct {
	Note     int    `yaml:"note"`
	Velocity uint32 `yaml:"velocity"`
}

type ParameterSnapshot struct {
	Msb        int    `yaml:"msb"`
	Lsb        int    `yaml:"lsb"`
	Value      uint32 `yaml:"value"`
	Recognized bool   `yaml:"recognized"`
}

type PerNoteSnapshot struct {
	Note      int            `yaml:"note"`
	PitchBend uint32         `yaml:"pitch_bend"`
	RCC       map[int]uint32 `yaml:"rcc,omitempty"`
	ACC       map[int]uint32 `yaml:"acc,omitempty"`
}

// ChannelSnapshot is a copy of the non-default part of a channel state.
type ChannelSnapshot struct {
	Index             int                 `yaml:"index"`
	Name              string              `yaml:"name"`
	Program           uint8               `yaml:"program"`
	PitchBend         uint32              `yaml:"pitch_bend"`
	ChannelAftertouch uint32              `yaml:"channel_aftertouch"`
	OmniMode          string              `yaml:"omni_mode"`
	MonoPolyMode      string              `yaml:"mono_poly_mode"`
	DteTarget         string              `yaml:"dte_target"`
	Notes             []NoteSnapshot      `yaml:"notes,omitempty"`
	Controls          map[int]uint32      `yaml:"controls,omitempty"`
	Rpns              []ParameterSnapshot `yaml:"rpns,omitempty"`
	Nrpns             []ParameterSnapshot `yaml:"nrpns,omitempty"`
	PerNote           []PerNoteSnapshot   `yaml:"per_note,omitempty"`

	pitchBendCenter uint32
}

func (s *ChannelSnapshot) isDefault() bool {
	return len(s.Notes) == 0 && len(s.Controls) == 0 && len(s.Rpns) == 0 && len(s.Nrpns) == 0 &&
		len(s.PerNote) == 0 && s.Program == 0 && s.ChannelAftertouch == 0 &&
		s.PitchBend == s.pitchBendCenter && s.OmniMode == Unset.String() &&
		s.MonoPolyMode == Unset.String() && s.DteTarget == DteRPN.String()
}

type SystemCommonSnapshot struct {
	MTCQuarterFrame     uint8  `yaml:"mtc_quarter_frame"`
	SongPositionPointer uint16 `yaml:"song_position_pointer"`
	SongSelect          uint8  `yaml:"song_select"`
}

type Snapshot struct {
	Protocol     int                  `yaml:"protocol"`
	SystemCommon SystemCommonSnapshot `yaml:"system_common"`
	Channels     []ChannelSnapshot    `yaml:"channels"`
}

func (s *SystemCommonState) snapshot() SystemCommonSnapshot {
	return SystemCommonSnapshot{
		MTCQuarterFrame:     s.MTCQuarterFrame(),
		SongPositionPointer: s.SongPositionPointer(),
		SongSelect:          s.SongSelect(),
	}
}

func parameters(table *[PARAMETER_SPACE]atomic.Uint32, enabled *[PARAMETER_SPACE]bool) []ParameterSnapshot {
	var res []ParameterSnapshot
	for addr := range table {
		if v := table[addr].Load(); v != 0 {
			res = append(res, ParameterSnapshot{
				Msb:        addr >> 7,
				Lsb:        addr & 0x7F,
				Value:      v,
				Recognized: enabled[addr],
			})
		}
	}
	return res
}

func nonZeroControls(table *[128]atomic.Uint32) map[int]uint32 {
	res := map[int]uint32{}
	for i := range table {
		if v := table[i].Load(); v != 0 {
			res[i] = v
		}
	}
	if len(res) == 0 {
		return nil
	}
	return res
}

// Snapshot copies every channel that differs from its defaults.
func (m *Midi1Machine) Snapshot() Snapshot {
	snap := Snapshot{Protocol: 1, SystemCommon: m.SystemCommon.snapshot(), Channels: []ChannelSnapshot{}}
	for i := range m.channels {
		ch := &m.channels[i]
		cs := ChannelSnapshot{
			Index:             i,
			Name:              ChannelName(i),
			Program:           ch.Program(),
			PitchBend:         uint32(ch.PitchBend()),
			ChannelAftertouch: uint32(ch.ChannelAftertouch()),
			OmniMode:          ch.OmniMode().String(),
			MonoPolyMode:      ch.MonoPolyMode().String(),
			DteTarget:         ch.DteTarget().String(),
			Controls:          nonZeroControls(&ch.controls),
			Rpns:              parameters(&ch.rpn, &m.Catalog.EnabledRpns),
			Nrpns:             parameters(&ch.nrpn, &m.Catalog.EnabledNrpns),
			pitchBendCenter:   MIDI1_PITCH_BEND_CENTER,
		}
		for note := 0; note < 128; note++ {
			if ch.NoteOn(note) {
				cs.Notes = append(cs.Notes, NoteSnapshot{Note: note, Velocity: uint32(ch.NoteVelocity(note))})
			}
		}
		if !cs.isDefault() {
			snap.Channels = append(snap.Channels, cs)
		}
	}
	return snap
}

// Snapshot copies every created channel that differs from its defaults.
func (m *Midi2Machine) Snapshot() Snapshot {
	snap := Snapshot{Protocol: 2, SystemCommon: m.SystemCommon.snapshot(), Channels: []ChannelSnapshot{}}
	for _, i := range m.UsedChannels() {
		ch := m.Lookup(i)
		cs := ChannelSnapshot{
			Index:             i,
			Name:              ChannelName(i),
			Program:           ch.Program(),
			PitchBend:         ch.PitchBend(),
			ChannelAftertouch: ch.ChannelAftertouch(),
			OmniMode:          ch.OmniMode().String(),
			MonoPolyMode:      ch.MonoPolyMode().String(),
			DteTarget:         ch.DteTarget().String(),
			Controls:          nonZeroControls(&ch.controls),
			Rpns:              parameters(&ch.rpn, &m.Catalog.EnabledRpns),
			Nrpns:             parameters(&ch.nrpn, &m.Catalog.EnabledNrpns),
			pitchBendCenter:   MIDI2_PITCH_BEND_CENTER,
		}
		for note := 0; note < 128; note++ {
			if ch.NoteOn(note) {
				cs.Notes = append(cs.Notes, NoteSnapshot{Note: note, Velocity: uint32(ch.NoteVelocity(note))})
			}
			pn := PerNoteSnapshot{Note: note, PitchBend: ch.PerNotePitchBend(note), RCC: map[int]uint32{}, ACC: map[int]uint32{}}
			for index := 0; index < 128; index++ {
				if v := ch.PerNoteRCC(index, note); v != 0 {
					pn.RCC[index] = v
				}
				if v := ch.PerNoteACC(index, note); v != 0 {
					pn.ACC[index] = v
				}
			}
			if len(pn.RCC) > 0 || len(pn.ACC) > 0 || pn.PitchBend != MIDI2_PITCH_BEND_CENTER {
				cs.PerNote = append(cs.PerNote, pn)
			}
		}
		if !cs.isDefault() {
			snap.Channels = append(snap.Channels, cs)
		}
	}
	return snap
}
