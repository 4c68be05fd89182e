package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/JeanRibes/midistate/machine"
	"github.com/JeanRibes/midistate/monitor"
	"github.com/JeanRibes/midistate/ump"

	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gopkg.in/yaml.v3"
)

type options struct {
	file       string
	input      string
	configFile string
	protocol   string
	dump       string
	debug      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.file, "file", "", "MIDI file to feed into the machines")
	flag.StringVar(&opts.input, "input", "", "MIDI input port name, listens until interrupted")
	flag.StringVar(&opts.configFile, "config", "", "config file")
	flag.StringVar(&opts.protocol, "protocol", "both", "machines to run: 1, 2 or both")
	flag.StringVar(&opts.dump, "dump", "", "write the final snapshots as yaml to this file")
	flag.BoolVar(&opts.debug, "debug", false, "log every message")
	flag.Parse()

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Prefix:          "midistate",
		ReportTimestamp: true,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx = charmlog.WithContext(ctx, logger)

	if err := run(ctx, opts, os.Stdout); err != nil {
		logger.Fatal(err)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	logger := charmlog.FromContext(ctx)
	config, err := LoadConfig(opts.configFile)
	if err != nil {
		return err
	}
	level, err := config.Level()
	if err != nil {
		return err
	}
	if opts.debug {
		level = charmlog.DebugLevel
	}
	logger.SetLevel(level)

	handler, err := config.Handler(logger)
	if err != nil {
		return err
	}

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	f := &feeder{group: config.Group}
	var board1, board2 monitor.NoteBoard
	switch opts.protocol {
	case "1", "2", "both":
	default:
		return fmt.Errorf("unknown protocol %q", opts.protocol)
	}
	if opts.protocol != "2" {
		f.midi1 = machine.NewMidi1Machine()
		f.midi1.SetDiagnostics(handler)
		if err := config.ApplyCatalog(f.midi1.Catalog); err != nil {
			return err
		}
		f.midi1.AddListener(board1.Midi1Listener())
		if opts.debug {
			send, events := machine.Forward[midi.Message](ctx, 64)
			f.midi1.AddListener(machine.Midi1ListenerFunc(send))
			go monitor.Log(ctx, "midi1", events)
		}
	}
	if opts.protocol != "1" {
		f.midi2 = machine.NewMidi2Machine()
		f.midi2.SetDiagnostics(handler)
		if err := config.ApplyCatalog(f.midi2.Catalog); err != nil {
			return err
		}
		f.midi2.AddListener(board2.Midi2Listener())
		if opts.debug {
			send, events := machine.Forward[ump.Packet](ctx, 64)
			f.midi2.AddListener(machine.Midi2ListenerFunc(send))
			go monitor.Log(ctx, "midi2", events)
		}
	}

	switch {
	case opts.file != "":
		err = feedFile(ctx, opts.file, f)
	case opts.input != "":
		err = listen(ctx, opts.input, f)
	default:
		return errors.New("nothing to read, use -file or -input")
	}
	if err != nil {
		return err
	}

	snapshots := []machine.Snapshot{}
	if f.midi1 != nil {
		snap := f.midi1.Snapshot()
		snapshots = append(snapshots, snap)
		fmt.Fprintln(out, monitor.RenderSnapshot(snap, &board1))
	}
	if f.midi2 != nil {
		snap := f.midi2.Snapshot()
		snapshots = append(snapshots, snap)
		fmt.Fprintln(out, monitor.RenderSnapshot(snap, &board2))
	}
	if opts.dump != "" {
		return dumpSnapshots(opts.dump, snapshots)
	}
	return nil
}

func dumpSnapshots(fileName string, snapshots []machine.Snapshot) error {
	data, err := yaml.Marshal(snapshots)
	if err != nil {
		return err
	}
	if err := os.WriteFile(fileName, data, 0o644); err != nil {
		return fmt.Errorf("writing dump: %w", err)
	}
	return nil
}
