package monitor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/JeanRibes/midistate/machine"
	. "github.com/JeanRibes/midistate/shared"
	"github.com/JeanRibes/midistate/ump"

	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
)

func TestRenderSnapshotMidi1(t *testing.T) {
	var board NoteBoard
	m := machine.NewMidi1Machine()
	m.AddListener(board.Midi1Listener())
	for _, msg := range []midi.Message{
		midi.ProgramChange(0, 12),
		midi.ControlChange(0, Volume, 100),
		midi.NoteOn(0, 60, 90),
		midi.ControlChange(15, NrpnMsb, 3),
		midi.ControlChange(15, NrpnLsb, 4),
		midi.ControlChange(15, DteMsb, 1),
		{SongSelect, 7},
	} {
		m.ProcessMessage(msg)
	}

	out := RenderSnapshot(m.Snapshot(), &board)
	for _, want := range []string{"MIDI 1.0", "song 7", "ch 1", "ch 16", "3:4=128?", midi.Note(60).String()} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
	if strings.Contains(out, "ch 2 ") {
		t.Errorf("default channel rendered:\n%s", out)
	}
}

func TestRenderSnapshotMidi2(t *testing.T) {
	m := machine.NewMidi2Machine()
	m.ProcessEvent(ump.Midi2NoteOn(15, 15, 62, 0, 0x8000, 0))
	m.ProcessEvent(ump.Midi2RPN(15, 15, 0, 0, 1<<25))

	// without a board the snapshot's notes are listed
	out := RenderSnapshot(m.Snapshot(), nil)
	for _, want := range []string{"MIDI 2.0", "g16 ch 16", "0:0=33554432", midi.Note(62).String()} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestRenderStylesOnlyTheHeader(t *testing.T) {
	if !styleRow(0, 0).GetBold() {
		t.Error("header row is not bold")
	}
	for _, row := range []int{1, 2, 16} {
		if styleRow(row, 3).GetBold() {
			t.Errorf("data row %d styled as header", row)
		}
	}

	m := machine.NewMidi1Machine()
	m.ProcessMessage(midi.ControlChange(0, Volume, 1))
	lines := strings.Split(RenderSnapshot(m.Snapshot(), nil), "\n")
	header, first := -1, -1
	for i, line := range lines {
		if header < 0 && strings.Contains(line, "channel") {
			header = i
		}
		if first < 0 && strings.Contains(line, "ch 1") {
			first = i
		}
	}
	if header < 0 || first <= header {
		t.Errorf("header at line %d, first channel at line %d", header, first)
	}
}

type event string

func (e event) String() string { return string(e) }

func TestLogStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = charmlog.WithContext(ctx, charmlog.New(&strings.Builder{}))
	send, events := machine.Forward[event](ctx, 1)
	done := make(chan struct{})
	go func() {
		Log(ctx, "test", events)
		close(done)
	}()
	send("a")
	send("b")
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Log did not return")
	}
}
