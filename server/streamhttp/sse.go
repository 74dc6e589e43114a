// Package streamhttp delivers run deltas to HTTP clients over SSE.
package streamhttp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/streamloom/streamloom/stream"
)

// ChannelSink returns a DeltaSink that forwards payloads to ch without
// blocking; payloads are dropped when the channel is full, since a slow
// client must not stall the run.
func ChannelSink(ch chan<- string) stream.DeltaSink {
	return func(payload string) {
		select {
		case ch <- payload:
		default:
		}
	}
}

// StreamDeltas writes delta payloads from deltas to w as SSE until the
// channel closes or ctx ends.
// - Each payload is emitted as "event: delta" with the serialized envelope as data
// - Heartbeat comments ": ping" are sent at heartbeatInterval (default 15s)
// - "event: done" is emitted when the delta channel closes
func StreamDeltas(
	ctx context.Context,
	w http.ResponseWriter,
	deltas <-chan string,
	heartbeatInterval time.Duration,
) error {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("stream unsupported")
	}

	if heartbeatInterval <= 0 {
		heartbeatInterval = 15 * time.Second
	}
	hb := time.NewTicker(heartbeatInterval)
	defer hb.Stop()

	seq := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case payload, open := <-deltas:
			if !open {
				fmt.Fprintf(w, "event: done\ndata: {}\n\n")
				flusher.Flush()
				return nil
			}
			seq++
			fmt.Fprintf(w, "id: %d\n", seq)
			fmt.Fprintf(w, "event: delta\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		case <-hb.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
