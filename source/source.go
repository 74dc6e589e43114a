// Package source provides event sources: pull-based sequences of run events
// terminated by stream completion or failure.
package source

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/streamloom/streamloom/event"
)

// Source provides a pull-based API over a run's event stream.
// Implementations return io.EOF when the stream completes normally.
type Source interface {
	Recv(ctx context.Context) (*event.Event, error)
	Close() error
}

// ErrSourceClosed indicates Recv was called after Close.
var ErrSourceClosed = errors.New("source closed")

// ChannelSource adapts a Go channel of events into a Source. The producer
// closes the channel to signal stream completion.
type ChannelSource struct {
	ch     <-chan *event.Event
	mu     sync.Mutex
	closed bool
}

// FromChannel wraps ch as a Source.
func FromChannel(ch <-chan *event.Event) *ChannelSource {
	return &ChannelSource{ch: ch}
}

// Recv returns the next event, io.EOF when the channel is closed, or the
// context error when ctx ends first.
func (s *ChannelSource) Recv(ctx context.Context) (*event.Event, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrSourceClosed
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case ev, ok := <-s.ch:
		if !ok {
			return nil, io.EOF
		}
		return ev, nil
	}
}

// Close marks the source closed. The underlying channel is owned by the
// producer and is not touched.
func (s *ChannelSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// SliceSource replays a fixed event sequence, mainly for tests and offline
// reprocessing.
type SliceSource struct {
	events []*event.Event
	pos    int
	closed bool
}

// FromSlice wraps events as a Source.
func FromSlice(events []*event.Event) *SliceSource {
	return &SliceSource{events: events}
}

// Recv returns the next event or io.EOF when the sequence is exhausted.
func (s *SliceSource) Recv(ctx context.Context) (*event.Event, error) {
	if s.closed {
		return nil, ErrSourceClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.events) {
		return nil, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

// Close marks the source closed.
func (s *SliceSource) Close() error {
	s.closed = true
	return nil
}
