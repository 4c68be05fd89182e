package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JeanRibes/midistate/machine"
	. "github.com/JeanRibes/midistate/shared"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"gopkg.in/yaml.v3"
)

func TestMergeTracks(t *testing.T) {
	var first, second smf.Track
	first.Add(0, midi.NoteOn(0, 60, 100))
	first.Add(960, midi.NoteOff(0, 60))
	first.Close(0)
	second.Add(0, smf.MetaTempo(120))
	second.Add(480, midi.NoteOn(9, 36, 120))
	second.Add(480, midi.NoteOff(9, 36))
	second.Close(0)

	got := mergeTracks([]smf.Track{first, second})
	want := []midi.Message{
		midi.NoteOn(0, 60, 100),
		midi.NoteOn(9, 36, 120),
		midi.NoteOff(0, 60),
		midi.NoteOff(9, 36),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d messages: %v", len(got), got)
	}
	for i := range want {
		if !bytes.Equal(got[i], want[i]) {
			t.Errorf("message %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFeederRecoversViolations(t *testing.T) {
	f := &feeder{midi1: machine.NewMidi1Machine(), midi2: machine.NewMidi2Machine()}
	if err := f.feed(midi.Message{0x90, 0x80, 0x40}); err == nil {
		t.Fatal("no error for note 128")
	}
	if err := f.feed(midi.NoteOn(2, 64, 1)); err != nil {
		t.Fatal(err)
	}
	if !f.midi1.Channel(2).NoteOn(64) || !f.midi2.Channel(2).NoteOn(64) {
		t.Error("note not applied after a recovered violation")
	}
}

func TestFeederReachesEveryMachine(t *testing.T) {
	f := &feeder{midi1: machine.NewMidi1Machine(), midi2: machine.NewMidi2Machine(), group: 2}
	var reported []*machine.ProtocolError
	f.midi2.SetDiagnostics(func(v *machine.ProtocolError) { reported = append(reported, v) })

	// midi1 rejects the note with a panic, midi2 only reports it
	err := f.feed(midi.Message{0x90, 0x80, 0x40})
	if !errors.Is(err, machine.ErrNoteOutOfRange) {
		t.Fatalf("got %v", err)
	}
	if len(reported) != 1 || reported[0].Packet == nil || reported[0].Packet.Group() != 2 {
		t.Fatalf("midi2 machine did not see the message: %v", reported)
	}

	f.midi2.SetDiagnostics(nil)
	err = f.feed(midi.Message{0x90, 0x80, 0x40})
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 2 {
		t.Errorf("expected one error per machine, got %v", err)
	}
}

func writeSong(t *testing.T) string {
	t.Helper()
	var tr smf.Track
	tr.Add(0, midi.ControlChange(1, Volume, 90))
	tr.Add(0, midi.ControlChange(1, RpnMsb, 0))
	tr.Add(0, midi.ControlChange(1, RpnLsb, 0))
	tr.Add(0, midi.ControlChange(1, DteMsb, 12))
	tr.Add(10, midi.NoteOn(1, 64, 100))
	tr.Close(0)
	s := smf.New()
	if err := s.Add(tr); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "song.mid")
	if err := s.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunFile(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "dump.yaml")
	var out bytes.Buffer
	err := run(context.Background(), options{file: writeSong(t), protocol: "both", dump: dump}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out.String(), "ch 2"); n != 2 {
		t.Errorf("channel shown %d times:\n%s", n, out.String())
	}

	data, err := os.ReadFile(dump)
	if err != nil {
		t.Fatal(err)
	}
	var snapshots []machine.Snapshot
	if err := yaml.Unmarshal(data, &snapshots); err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 2 || snapshots[0].Protocol != 1 || snapshots[1].Protocol != 2 {
		t.Fatalf("got %+v", snapshots)
	}
	ch1, ch2 := snapshots[0].Channels[0], snapshots[1].Channels[0]
	if ch1.Controls[int(Volume)] != 90 || ch2.Controls[int(Volume)] != 90<<25 {
		t.Errorf("volume: %d %d", ch1.Controls[int(Volume)], ch2.Controls[int(Volume)])
	}
	if ch1.Rpns[0].Value != 12<<7 || ch2.Rpns[0].Value != 12<<25 {
		t.Errorf("pitch bend sensitivity: %+v %+v", ch1.Rpns, ch2.Rpns)
	}
	if len(ch1.Notes) != 1 || ch1.Notes[0].Note != 64 {
		t.Errorf("notes: %+v", ch1.Notes)
	}
}

func TestRunSingleProtocol(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), options{file: writeSong(t), protocol: "2"}, &out); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "MIDI 1.0") || !strings.Contains(out.String(), "MIDI 2.0") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestRunRejects(t *testing.T) {
	ctx := context.Background()
	if err := run(ctx, options{file: "x.mid", protocol: "3"}, &bytes.Buffer{}); err == nil {
		t.Error("protocol 3 accepted")
	}
	if err := run(ctx, options{protocol: "both"}, &bytes.Buffer{}); err == nil {
		t.Error("no source accepted")
	}
	if err := run(ctx, options{file: filepath.Join(t.TempDir(), "missing.mid"), protocol: "1"}, &bytes.Buffer{}); err == nil {
		t.Error("missing file accepted")
	}
}
