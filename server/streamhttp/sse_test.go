package streamhttp

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestStreamDeltasWritesEventsAndDone(t *testing.T) {
	deltas := make(chan string, 2)
	deltas <- `{"channel":"text","delta":{"type":"text_chunk","text":"hi"}}`
	deltas <- `{"channel":"text","delta":{"type":"text_chunk","text":"!"}}`
	close(deltas)

	rec := httptest.NewRecorder()
	if err := StreamDeltas(context.Background(), rec, deltas, 0); err != nil {
		t.Fatalf("stream: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	if strings.Count(body, "event: delta") != 2 {
		t.Errorf("expected 2 delta events, body:\n%s", body)
	}
	if !strings.Contains(body, `data: {"channel":"text","delta":{"type":"text_chunk","text":"hi"}}`) {
		t.Errorf("first payload missing, body:\n%s", body)
	}
	if !strings.Contains(body, "event: done") {
		t.Errorf("missing done event, body:\n%s", body)
	}
	if !strings.Contains(body, "id: 1\n") || !strings.Contains(body, "id: 2\n") {
		t.Errorf("missing sequence ids, body:\n%s", body)
	}
}

func TestStreamDeltasStopsOnContextCancel(t *testing.T) {
	deltas := make(chan string)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := httptest.NewRecorder()
	if err := StreamDeltas(ctx, rec, deltas, time.Second); err != nil {
		t.Fatalf("stream: %v", err)
	}
	if strings.Contains(rec.Body.String(), "event: done") {
		t.Error("done must not be emitted on cancel")
	}
}

func TestChannelSinkDropsWhenFull(t *testing.T) {
	ch := make(chan string, 1)
	sink := ChannelSink(ch)
	sink("first")
	sink("dropped")

	if got := <-ch; got != "first" {
		t.Errorf("got %q", got)
	}
	select {
	case extra := <-ch:
		t.Errorf("unexpected extra payload %q", extra)
	default:
	}
}
