package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/JeanRibes/midistate/machine"
	"github.com/JeanRibes/midistate/ump"

	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
	"gitlab.com/gomidi/midi/v2/smf"
)

// feeder sends every MIDI 1.0 message to the enabled machines. The MIDI 2.0
// machine gets it wrapped in a UMP of the configured group.
type feeder struct {
	midi1 *machine.Midi1Machine
	midi2 *machine.Midi2Machine
	group uint8
}

// feed hands msg to every machine, each under its own recover so a
// violation in one machine does not hide the message from the other.
func (f *feeder) feed(msg midi.Message) error {
	var errs []error
	if f.midi1 != nil {
		errs = append(errs, guard(func() { f.midi1.ProcessMessage(msg) }))
	}
	if f.midi2 != nil {
		if p, ok := ump.FromMidi1(f.group, msg); ok {
			errs = append(errs, guard(func() { f.midi2.ProcessEvent(p) }))
		}
	}
	return errors.Join(errs...)
}

func guard(process func()) (err error) {
	defer machine.Recover(&err)
	process()
	return nil
}

type timedMessage struct {
	tick uint64
	msg  midi.Message
}

// mergeTracks flattens the tracks in absolute tick order, dropping meta
// events. Messages on the same tick keep track order.
func mergeTracks(tracks []smf.Track) []midi.Message {
	events := []timedMessage{}
	for _, tr := range tracks {
		var abs uint64
		for _, ev := range tr {
			abs += uint64(ev.Delta)
			if ev.Message.IsMeta() || len(ev.Message) == 0 {
				continue
			}
			events = append(events, timedMessage{tick: abs, msg: midi.Message(ev.Message)})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].tick < events[j].tick
	})
	msgs := make([]midi.Message, len(events))
	for i, ev := range events {
		msgs[i] = ev.msg
	}
	return msgs
}

// feedFile plays a standard MIDI file into the machines as fast as possible.
func feedFile(ctx context.Context, fileName string, f *feeder) error {
	logger := charmlog.FromContext(ctx)
	mid, err := smf.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("reading %s: %w", fileName, err)
	}
	msgs := mergeTracks(mid.Tracks)
	logger.Info("loaded file", "file", fileName, "tracks", len(mid.Tracks), "messages", len(msgs))
	for i, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.feed(msg); err != nil {
			return fmt.Errorf("message %d (%s): %w", i, msg, err)
		}
	}
	return nil
}

// listen feeds the machines from a live input port until ctx is done or a
// message is rejected.
func listen(ctx context.Context, portName string, f *feeder) error {
	logger := charmlog.FromContext(ctx)
	defer midi.CloseDriver()
	in, err := midi.FindInPort(portName)
	if err != nil {
		return fmt.Errorf("can't find input %q: %w", portName, err)
	}
	logger.Info("listening", "input", in.String())

	failed := make(chan error, 1)
	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		if err := f.feed(msg); err != nil {
			select {
			case failed <- err:
			default:
			}
		}
	})
	if err != nil {
		return fmt.Errorf("listening to %s: %w", in.String(), err)
	}
	defer stop()

	select {
	case <-ctx.Done():
		logger.Info("stopped listening")
		return nil
	case err := <-failed:
		return err
	}
}
