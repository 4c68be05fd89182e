package machine

import (
	"context"
	"sync"

	"github.com/JeanRibes/midistate/ump"

	"gitlab.com/gomidi/midi/v2"
)

// Midi1Listener receives every message processed by a Midi1Machine, after
// the channel state has been updated.
type Midi1Listener interface {
	OnMessage(msg midi.Message)
}

type Midi1ListenerFunc func(msg midi.Message)

func (f Midi1ListenerFunc) OnMessage(msg midi.Message) { f(msg) }

// Midi2Listener receives every packet processed by a Midi2Machine, after
// the channel state has been updated.
type Midi2Listener interface {
	OnEvent(p ump.Packet)
}

type Midi2ListenerFunc func(p ump.Packet)

func (f Midi2ListenerFunc) OnEvent(p ump.Packet) { f(p) }

// dispatcher is an append-only, ordered list of callbacks.
type dispatcher[T any] struct {
	mu        sync.Mutex
	listeners []func(T)
}

func (d *dispatcher[T]) add(fn func(T)) {
	d.mu.Lock()
	d.listeners = append(d.listeners, fn)
	d.mu.Unlock()
}

func (d *dispatcher[T]) notify(v T) {
	d.mu.Lock()
	listeners := d.listeners
	d.mu.Unlock()
	for _, fn := range listeners {
		fn(v)
	}
}

// Forward returns a listener func that hands every value over to the
// returned channel, for consumers running on another goroutine. The
// listener blocks while the channel is full and drops values once ctx is
// done. The channel is never closed.
func Forward[T any](ctx context.Context, size int) (func(T), <-chan T) {
	queue := make(chan T, size)
	return func(v T) {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
		case queue <- v:
		}
	}, queue
}
