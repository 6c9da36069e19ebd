/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tschaefer/flowconsole/internal/buffer"
	"github.com/tschaefer/flowconsole/internal/event"
	"github.com/tschaefer/flowconsole/internal/filter"
	"github.com/tschaefer/flowconsole/internal/geoip"
	"github.com/tschaefer/flowconsole/internal/logger"
	"github.com/tschaefer/flowconsole/internal/record"
	"github.com/tschaefer/flowconsole/internal/sink"
	"github.com/tschaefer/flowconsole/internal/sorter"
	"github.com/tschaefer/flowconsole/internal/transport"
	"github.com/tschaefer/flowconsole/internal/version"
	"golang.org/x/sync/errgroup"
)

// Snapshot is an immutable copy of the console state.
type Snapshot struct {
	Lines  []string
	Paused bool
	Failed bool
}

// View is a snapshot after filtering and sorting.
type View struct {
	Records []event.Record
	Markers []string
	Total   int
	Paused  bool
	Failed  bool
}

func (s Snapshot) View(query string, state sorter.State) View {
	var markers []string
	for _, line := range s.Lines {
		if event.IsMarker(line) {
			markers = append(markers, line)
		}
	}

	records := event.ParseAll(s.Lines)
	return View{
		Records: sorter.Sort(filter.Apply(records, query), state),
		Markers: markers,
		Total:   len(records),
		Paused:  s.Paused,
		Failed:  s.Failed,
	}
}

// Console owns the event buffer of one session. Its state is only touched by
// the goroutine running Run, or by the caller when Run is not used.
type Console struct {
	Buffer    *buffer.Buffer
	Persister *buffer.Persister
	Gate      *transport.Gate
	GeoIP     *geoip.Reader
	Sink      *sink.Sink
	Logger    *slog.Logger

	// FlushInterval coalesces persistence in Run. Zero persists after
	// every mutation.
	FlushInterval time.Duration
	// OnChange receives a snapshot after each mutation inside Run.
	OnChange func(Snapshot)

	actions chan func()
	failed  bool
	dirty   bool
}

// NewConsole rehydrates the buffer from persister. geo and sink are
// optional.
func NewConsole(logger *logger.Logger, persister *buffer.Persister, capacity int, geo *geoip.Reader, sink *sink.Sink) (*Console, error) {
	if logger == nil {
		return nil, errors.New("console needs a logger")
	}
	if persister == nil {
		return nil, errors.New("console needs a persister")
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("invalid buffer capacity: %d", capacity)
	}

	slog.SetDefault(logger.Logger)

	buf := buffer.New(capacity)
	buf.Reset(persister.LoadPersisted())

	return &Console{
		Buffer:    buf,
		Persister: persister,
		Gate:      &transport.Gate{},
		GeoIP:     geo,
		Sink:      sink,
		Logger:    logger.Logger,
		actions:   make(chan func(), 16),
	}, nil
}

func (c *Console) Snapshot() Snapshot {
	return Snapshot{
		Lines:  c.Buffer.Snapshot(),
		Paused: c.Gate.Paused(),
		Failed: c.failed,
	}
}

// Admit appends a received line and forwards parsed records to the sink.
func (c *Console) Admit(line string) {
	c.Buffer.Append(line)
	c.mutated()

	if c.Sink == nil {
		return
	}
	if rec, ok := event.Parse(line); ok {
		record.Record(rec, c.GeoIP, c.Sink.Logger)
	}
}

// Fail records the terminal error of the stream as a marker line.
func (c *Console) Fail(err error) {
	slog.Error("Event stream failed.", "error", err)
	c.failed = true
	c.Buffer.Append(event.ErrorMarker(err))
	c.mutated()
}

func (c *Console) Clear() {
	slog.Debug("Clearing event buffer.")
	c.Buffer.Clear()
	c.mutated()
}

func (c *Console) TogglePause() bool {
	paused := c.Gate.Toggle()
	slog.Debug("Toggled pause.", "paused", paused)
	c.notify()
	return paused
}

// Handler wires a stream to the console.
func (c *Console) Handler() transport.Handler {
	return transport.Handler{
		OnLine:  c.Admit,
		OnError: c.Fail,
		Paused:  c.Gate.Paused,
	}
}

// Do queues f to run on the goroutine executing Run.
func (c *Console) Do(ctx context.Context, f func()) {
	select {
	case c.actions <- f:
	case <-ctx.Done():
	}
}

func (c *Console) mutated() {
	c.dirty = true
	if c.FlushInterval == 0 {
		c.Flush()
	}
	c.notify()
}

// Flush persists the buffer if it changed since the last flush.
func (c *Console) Flush() {
	if !c.dirty {
		return
	}
	c.dirty = false
	c.Persister.Persist(c.Buffer.Snapshot())
}

// Refresh reports the current snapshot to OnChange.
func (c *Console) Refresh() {
	c.notify()
}

func (c *Console) notify() {
	if c.OnChange != nil {
		c.OnChange(c.Snapshot())
	}
}

// Run consumes stream and queued actions until ctx is done. It returns
// false if the stream failed.
func (c *Console) Run(ctx context.Context, stream transport.Stream) bool {
	slog.Info("Starting event console.",
		"release", version.Release(), "commit", version.Commit(),
	)

	g := c.startEventProcessor(ctx, stream)
	if err := g.Wait(); err != nil {
		slog.Error("Event loop returned error during shutdown.", "error", err)
		return false
	}

	return !c.failed
}

func (c *Console) startEventProcessor(ctx context.Context, stream transport.Stream) *errgroup.Group {
	var g errgroup.Group
	g.Go(func() error {
		defer func() {
			_ = stream.Close()
			c.Flush()
		}()

		var tick <-chan time.Time
		if c.FlushInterval > 0 {
			ticker := time.NewTicker(c.FlushInterval)
			defer ticker.Stop()
			tick = ticker.C
		}

		h := c.Handler()
		messages := stream.Messages()
		c.notify()

		for {
			select {
			case <-ctx.Done():
				slog.Info("Shutting down event console.")
				return nil
			case m, ok := <-messages:
				if !ok {
					messages = nil
					continue
				}
				if !h.Dispatch(m) {
					// no reconnect, the view stays usable
					messages = nil
				}
			case f := <-c.actions:
				messages = drain(messages, h)
				f()
			case <-tick:
				c.Flush()
			}
		}
	})
	return &g
}

// drain dispatches messages the stream already delivered, so an action
// never overtakes a line that arrived before it. It returns nil once the
// stream is done.
func drain(messages <-chan transport.Message, h transport.Handler) <-chan transport.Message {
	for range cap(messages) + 1 {
		select {
		case m, ok := <-messages:
			if !ok || !h.Dispatch(m) {
				return nil
			}
		default:
			return messages
		}
	}
	return messages
}
