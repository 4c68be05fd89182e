package monitor

import (
	"fmt"
	"strings"

	"github.com/JeanRibes/midistate/machine"
	. "github.com/JeanRibes/midistate/shared"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gitlab.com/gomidi/midi/v2"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

var headers = []string{"channel", "program", "bank", "vol", "pan", "bend", "omni", "poly", "dte", "rpn", "nrpn", "notes"}

// RenderSnapshot draws the channels of a snapshot as a table. Values are
// shown in the resolution of the snapshot's protocol.
func RenderSnapshot(snap machine.Snapshot, board *NoteBoard) string {
	rows := [][]string{}
	for _, cs := range snap.Channels {
		rows = append(rows, []string{
			cs.Name,
			fmt.Sprint(cs.Program),
			fmt.Sprintf("%d/%d", cs.Controls[int(BankSelect)], cs.Controls[int(BankSelectLsb)]),
			fmt.Sprint(cs.Controls[int(Volume)]),
			fmt.Sprint(cs.Controls[int(Pan)]),
			bend(snap.Protocol, cs.PitchBend),
			cs.OmniMode,
			cs.MonoPolyMode,
			cs.DteTarget,
			parameterList(cs.Rpns),
			parameterList(cs.Nrpns),
			noteList(board, cs),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(styleRow).
		Headers(headers...).
		Rows(rows...)

	sc := snap.SystemCommon
	title := titleStyle.Render(fmt.Sprintf("MIDI %d.0  song %d  position %d  mtc %02X",
		snap.Protocol, sc.SongSelect, sc.SongPositionPointer, sc.MTCQuarterFrame))
	return lipgloss.JoinVertical(lipgloss.Left, title, t.Render())
}

// styleRow styles a table row. Row 0 is the header row.
func styleRow(row, col int) lipgloss.Style {
	if row == 0 {
		return headerStyle
	}
	return cellStyle
}

func bend(protocol int, v uint32) string {
	if protocol == 1 {
		return fmt.Sprintf("%+d", int(v)-machine.MIDI1_PITCH_BEND_CENTER)
	}
	return fmt.Sprintf("%+d", int64(v)-machine.MIDI2_PITCH_BEND_CENTER)
}

func parameterList(params []machine.ParameterSnapshot) string {
	parts := []string{}
	for _, p := range params {
		mark := ""
		if !p.Recognized {
			mark = "?"
		}
		parts = append(parts, fmt.Sprintf("%d:%d=%d%s", p.Msb, p.Lsb, p.Value, mark))
	}
	return strings.Join(parts, " ")
}

func noteList(board *NoteBoard, cs machine.ChannelSnapshot) string {
	names := []string{}
	if board != nil {
		for _, n := range board.Held(cs.Index) {
			names = append(names, midi.Note(n).String())
		}
		return strings.Join(names, " ")
	}
	for _, n := range cs.Notes {
		names = append(names, midi.Note(uint8(n.Note)).String())
	}
	return strings.Join(names, " ")
}
