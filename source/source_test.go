package source

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/streamloom/streamloom/event"
)

func TestSliceSourceReplaysInOrder(t *testing.T) {
	events := []*event.Event{
		{Event: event.KindChainStart, Name: "a"},
		{Event: event.KindChainEnd, Name: "b"},
	}
	s := FromSlice(events)
	ctx := context.Background()

	for i, want := range events {
		got, err := s.Recv(ctx)
		if err != nil {
			t.Fatalf("recv %d: %v", i, err)
		}
		if got.Name != want.Name {
			t.Errorf("recv %d = %q, want %q", i, got.Name, want.Name)
		}
	}
	if _, err := s.Recv(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestSliceSourceClosed(t *testing.T) {
	s := FromSlice([]*event.Event{{Event: event.KindChainStart}})
	_ = s.Close()
	if _, err := s.Recv(context.Background()); !errors.Is(err, ErrSourceClosed) {
		t.Errorf("expected ErrSourceClosed, got %v", err)
	}
}

func TestChannelSourceDeliversAndEnds(t *testing.T) {
	ch := make(chan *event.Event, 2)
	ch <- &event.Event{Event: event.KindToolStart, Name: "search"}
	close(ch)
	s := FromChannel(ch)
	ctx := context.Background()

	ev, err := s.Recv(ctx)
	if err != nil {
		t.Fatalf("recv: %v", err)
	}
	if ev.Name != "search" {
		t.Errorf("got %q", ev.Name)
	}
	if _, err := s.Recv(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestChannelSourceHonorsContext(t *testing.T) {
	ch := make(chan *event.Event)
	s := FromChannel(ch)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := s.Recv(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline, got %v", err)
	}
}
