package machine

import (
	"strings"
	"testing"

	. "github.com/JeanRibes/midistate/shared"
	"github.com/JeanRibes/midistate/ump"

	"gitlab.com/gomidi/midi/v2"
	"gopkg.in/yaml.v3"
)

func TestMidi1SnapshotSkipsDefaultChannels(t *testing.T) {
	m := NewMidi1Machine()
	if snap := m.Snapshot(); len(snap.Channels) != 0 {
		t.Fatalf("fresh machine: got %d channels", len(snap.Channels))
	}
	m.Catalog.EnableNrpn(1, 1)
	feed1(m,
		midi.NoteOn(9, 36, 120),
		midi.ControlChange(9, RpnMsb, 0),
		midi.ControlChange(9, RpnLsb, 0),
		midi.ControlChange(9, DteMsb, 2),
		midi.ControlChange(9, NrpnMsb, 1),
		midi.ControlChange(9, NrpnLsb, 1),
		midi.ControlChange(9, DteMsb, 3),
		midi.ControlChange(9, NrpnLsb, 2),
		midi.ControlChange(9, DteMsb, 4),
	)
	snap := m.Snapshot()
	if snap.Protocol != 1 || len(snap.Channels) != 1 {
		t.Fatalf("snapshot: %+v", snap)
	}
	cs := snap.Channels[0]
	if cs.Index != 9 || cs.Name != "ch 10" {
		t.Errorf("channel: %d %q", cs.Index, cs.Name)
	}
	if len(cs.Notes) != 1 || cs.Notes[0] != (NoteSnapshot{Note: 36, Velocity: 120}) {
		t.Errorf("notes: %+v", cs.Notes)
	}
	if len(cs.Rpns) != 1 || cs.Rpns[0] != (ParameterSnapshot{Msb: 0, Lsb: 0, Value: 256, Recognized: true}) {
		t.Errorf("rpns: %+v", cs.Rpns)
	}
	if len(cs.Nrpns) != 2 || !cs.Nrpns[0].Recognized || cs.Nrpns[1].Recognized {
		t.Errorf("nrpns: %+v", cs.Nrpns)
	}
	if cs.DteTarget != "nrpn" {
		t.Errorf("dte target: %q", cs.DteTarget)
	}

	out, err := yaml.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"protocol: 1", "name: ch 10", "recognized: true", "dte_target: nrpn"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("yaml misses %q:\n%s", want, out)
		}
	}
}

func TestMidi2SnapshotPerNote(t *testing.T) {
	m := NewMidi2Machine()
	feed2(m,
		ump.Midi2PerNoteRCC(1, 0, 60, 74, 9),
		ump.Midi2PerNotePitchBend(1, 0, 61, 0),
		ump.Midi2CC(1, 1, Volume, 0),
	)
	snap := m.Snapshot()
	if snap.Protocol != 2 || len(snap.Channels) != 1 {
		t.Fatalf("snapshot: %+v", snap)
	}
	cs := snap.Channels[0]
	if cs.Index != 16 || cs.Name != "g2 ch 1" {
		t.Errorf("channel: %d %q", cs.Index, cs.Name)
	}
	if len(cs.PerNote) != 2 || cs.PerNote[0].RCC[74] != 9 || cs.PerNote[1].PitchBend != 0 {
		t.Errorf("per note: %+v", cs.PerNote)
	}
}
