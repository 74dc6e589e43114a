package stream

import (
	"encoding/json"

	"github.com/streamloom/streamloom/event"
)

// DeltaType identifies the kind of an incremental UI update.
type DeltaType string

const (
	DeltaStepStarted     DeltaType = "step_started"
	DeltaTextChunk       DeltaType = "text_chunk"
	DeltaToolInputChunk  DeltaType = "tool_input_chunk"
	DeltaToolOutputChunk DeltaType = "tool_output_chunk"
)

// Delta is one incremental update emitted while a run streams.
type Delta struct {
	Type   DeltaType `json:"type"`
	Text   string    `json:"text,omitempty"`
	Input  string    `json:"input,omitempty"`
	Output string    `json:"output,omitempty"`
	Name   string    `json:"name,omitempty"`
	ID     string    `json:"id,omitempty"`
}

// deltaEnvelope is the serialized wire shape handed to a sink.
type deltaEnvelope struct {
	Channel event.Channel `json:"channel"`
	Delta   Delta         `json:"delta"`
}

// DeltaSink receives serialized delta envelopes for live UI updates. Sinks
// are invoked synchronously and must not block; a nil sink disables delta
// emission entirely.
type DeltaSink func(payload string)

// emit serializes and forwards one delta. A no-op when sink is nil.
func emit(sink DeltaSink, ch event.Channel, d Delta) {
	if sink == nil {
		return
	}
	b, err := json.Marshal(deltaEnvelope{Channel: ch, Delta: d})
	if err != nil {
		return
	}
	sink(string(b))
}
