// Package openaibridge adapts OpenAI chat-completion streaming responses into
// the neutral run event stream.
package openaibridge

import (
	"context"
	"io"

	oa "github.com/openai/openai-go/v3"

	"github.com/streamloom/streamloom/event"
	"github.com/streamloom/streamloom/source"
)

// streamCore matches the subset of the OpenAI stream API we use.
type streamCore interface {
	Next() bool
	Current() oa.ChatCompletionChunk
	Err() error
	Close() error
}

// Stream adapts an OpenAI completion stream into run events. Content deltas
// map to text fragments; tool-call deltas map to tool_use announcements and
// input JSON fragments.
type Stream struct {
	inner   streamCore
	runID   string
	channel event.Channel
	// tool-call indexes already announced, so argument chunks after the
	// first delta become input_json_delta fragments
	announced map[int64]bool
	queue     []*event.Event
	closed    bool
}

// Config controls the bridge behavior.
type Config struct {
	// RunID stamps every emitted event. Optional.
	RunID string
	// Channel scopes emitted content. Defaults to the primary text channel.
	Channel event.Channel
}

// NewStream wraps an OpenAI completion stream.
func NewStream(inner streamCore, cfg Config) *Stream {
	if cfg.Channel == "" {
		cfg.Channel = event.ChannelText
	}
	return &Stream{inner: inner, runID: cfg.RunID, channel: cfg.Channel, announced: make(map[int64]bool)}
}

// Recv returns the next mappable run event, io.EOF when the completion
// stream ends.
func (s *Stream) Recv(ctx context.Context) (*event.Event, error) {
	if s.closed {
		return nil, source.ErrSourceClosed
	}
	for {
		if len(s.queue) > 0 {
			ev := s.queue[0]
			s.queue = s.queue[1:]
			return ev, nil
		}
		if !s.inner.Next() {
			s.closed = true
			if err := s.inner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		s.enqueueChunk(s.inner.Current())
	}
}

func (s *Stream) enqueueChunk(chunk oa.ChatCompletionChunk) {
	for _, choice := range chunk.Choices {
		if choice.Delta.Content != "" {
			s.queue = append(s.queue, s.modelStream(choice.Delta.Content))
		}
		for _, tc := range choice.Delta.ToolCalls {
			if tc.Function.Name != "" && !s.announced[tc.Index] {
				s.announced[tc.Index] = true
				s.queue = append(s.queue, s.modelStream([]interface{}{map[string]interface{}{
					"type":  "tool_use",
					"name":  tc.Function.Name,
					"id":    tc.ID,
					"input": tc.Function.Arguments,
				}}))
				continue
			}
			if tc.Function.Arguments != "" {
				s.queue = append(s.queue, s.modelStream([]interface{}{map[string]interface{}{
					"type":  "input_json_delta",
					"input": tc.Function.Arguments,
				}}))
			}
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
	if s.closed {
		return nil
	}
	s.closed = true
	return s.inner.Close()
}
