/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package transport

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var ErrClosed = errors.New("stream closed")

// Message is either one raw line or the terminal error of a stream.
type Message struct {
	Line string
	Err  error
}

// Stream delivers messages on a single channel. A stream emits at most one
// error message, after which the channel is closed. Streams never reconnect.
type Stream interface {
	Messages() <-chan Message
	Close() error
}

// Gate is the pause flag checked for every inbound message.
type Gate struct {
	paused atomic.Bool
}

func (g *Gate) Paused() bool {
	return g.paused.Load()
}

func (g *Gate) SetPaused(paused bool) {
	g.paused.Store(paused)
}

// Toggle flips the flag and returns the new state.
func (g *Gate) Toggle() bool {
	for {
		old := g.paused.Load()
		if g.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Handler receives what a stream delivers. Lines arriving while Paused
// reports true are dropped.
type Handler struct {
	OnLine  func(line string)
	OnError func(err error)
	Paused  func() bool
}

// Dispatch forwards m and reports whether the stream is still usable.
func (h Handler) Dispatch(m Message) bool {
	if m.Err != nil {
		if h.OnError != nil {
			h.OnError(m.Err)
		}
		return false
	}

	if h.Paused != nil && h.Paused() {
		return true
	}
	if h.OnLine != nil {
		h.OnLine(m.Line)
	}
	return true
}

// Consume dispatches messages until the stream ends or ctx is done, then
// closes the stream.
func Consume(ctx context.Context, s Stream, h Handler) {
	defer func() {
		_ = s.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-s.Messages():
			if !ok {
				return
			}
			if !h.Dispatch(m) {
				return
			}
		}
	}
}

type pump struct {
	messages chan Message
	done     chan struct{}
	once     sync.Once
	closer   func() error
}

func newPump(closer func() error) *pump {
	return &pump{
		messages: make(chan Message, 64),
		done:     make(chan struct{}),
		closer:   closer,
	}
}

func (p *pump) Messages() <-chan Message {
	return p.messages
}

func (p *pump) Close() error {
	var err error
	p.once.Do(func() {
		close(p.done)
		if p.closer != nil {
			err = p.closer()
		}
	})
	return err
}

func (p *pump) closing() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *pump) send(m Message) bool {
	select {
	case p.messages <- m:
		return true
	case <-p.done:
		return false
	}
}

// fail reports err unless the stream is being closed by its owner.
func (p *pump) fail(err error) {
	if p.closing() {
		return
	}
	p.send(Message{Err: err})
}
