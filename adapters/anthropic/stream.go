//go:build anthropicstream
// +build anthropicstream

package anthropicbridge

import (
	"context"
	"io"

	anth "github.com/anthropics/anthropic-sdk-go"

	"github.com/streamloom/streamloom/event"
	"github.com/streamloom/streamloom/source"
)

// Stream adapts an Anthropic Messages streaming response into the neutral run
// event stream. Text deltas, tool_use block starts, and input JSON deltas map
// to model stream events; message_stop ends the source.
type Stream struct {
	inner   *anth.MessageStream
	runID   string
	channel event.Channel
	closed  bool
}

// Config controls the bridge behavior.
type Config struct {
	// RunID stamps every emitted event. Optional.
	RunID string
	// Channel scopes emitted content. Defaults to the primary text channel.
	Channel event.Channel
}

// NewStream wraps an Anthropic message stream.
func NewStream(inner *anth.MessageStream, cfg Config) *Stream {
	if cfg.Channel == "" {
		cfg.Channel = event.ChannelText
	}
	return &Stream{inner: inner, runID: cfg.RunID, channel: cfg.Channel}
}

// Recv returns the next mappable run event, io.EOF at message_stop.
func (s *Stream) Recv(ctx context.Context) (*event.Event, error) {
	if s.closed {
		return nil, source.ErrSourceClosed
	}
	for {
		ev, err := s.inner.Recv()
		if err != nil {
			s.closed = true
			return nil, io.EOF
		}
		switch ev.Type {
		case "content_block_start":
			if ev.ContentBlock != nil && ev.ContentBlock.Type == "tool_use" {
				return s.modelStream([]interface{}{map[string]interface{}{
					"type": "tool_use",
					"name": ev.ContentBlock.Name,
					"id":   ev.ContentBlock.ID,
				}}), nil
			}
		case "content_block_delta":
			if ev.Delta != nil && ev.Delta.Text != "" {
				return s.modelStream(ev.Delta.Text), nil
			}
			if ev.Delta != nil && ev.Delta.PartialJSON != "" {
				return s.modelStream([]interface{}{map[string]interface{}{
					"type":  "input_json_delta",
					"input": ev.Delta.PartialJSON,
				}}), nil
			}
		case "message_stop":
			s.closed = true
			return nil, io.EOF
		}
	}
}

func (s *Stream) modelStream(content interface{}) *event.Event {
	return &event.Event{
		Event: event.KindModelStream,
		RunID: s.runID,
		Metadata: map[string]interface{}{
			"stream_channel": string(s.channel),
		},
		Data: &event.Data{Chunk: map[string]interface{}{"content": content}},
	}
}

// Close closes the underlying stream.
func (s *Stream) Close() error {
	s.closed = true
	s.inner.Close()
	return nil
}
