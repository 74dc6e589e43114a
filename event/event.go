// Package event defines the run event stream consumed by the accumulator:
// the wire-level event union emitted by an agent orchestration engine and
// helpers for reading its loosely-typed payloads.
package event

// Kind identifies the type of a run event.
type Kind string

const (
	KindModelStream Kind = "on_chat_model_stream"
	KindModelEnd    Kind = "on_chat_model_end"
	KindToolStart   Kind = "on_tool_start"
	KindToolEnd     Kind = "on_tool_end"
	KindToolError   Kind = "on_tool_error"
	KindChainStart  Kind = "on_chain_start"
	KindChainEnd    Kind = "on_chain_end"
	KindChainStream Kind = "on_chain_stream"
)

// Channel identifies an independent sub-stream of content within one run.
type Channel string

const (
	// ChannelText is the primary, user-visible channel.
	ChannelText Channel = "text"
	// ChannelProcessing carries internal reasoning content.
	ChannelProcessing Channel = "processing"
)

// metadata keys set by the orchestration engine
const (
	metaStreamChannel = "stream_channel"
	metaNodeName      = "langgraph_node"
)

// Data is the nested payload of a run event. Chunk carries streamed model
// content; Output/Input/Error carry tool and chain lifecycle payloads. All
// fields are loosely typed because the upstream engine emits heterogeneous
// shapes.
type Data struct {
	Chunk  interface{} `json:"chunk,omitempty"`
	Output interface{} `json:"output,omitempty"`
	Input  interface{} `json:"input,omitempty"`
	Error  interface{} `json:"error,omitempty"`
}

// Event is one notification from an agent run's event stream. Events arrive
// one at a time, in emission order, for a single logical run.
type Event struct {
	Event     Kind                   `json:"event"`
	Name      string                 `json:"name,omitempty"`
	RunID     string                 `json:"run_id,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      *Data                  `json:"data,omitempty"`
	Timestamp int64                  `json:"timestamp,omitempty"`
}

// Channel returns the channel the event is scoped to, defaulting to the
// primary text channel when no channel metadata is present.
func (e *Event) Channel() Channel {
	if e == nil || e.Metadata == nil {
		return ChannelText
	}
	if v, ok := e.Metadata[metaStreamChannel].(string); ok && v != "" {
		return Channel(v)
	}
	return ChannelText
}

// NodeName returns the originating graph node recorded by the engine, or ""
// when the event carries no node attribution.
func (e *Event) NodeName() string {
	if e == nil || e.Metadata == nil {
		return ""
	}
	if v, ok := e.Metadata[metaNodeName].(string); ok {
		return v
	}
	return ""
}

// ChunkContent extracts the raw content payload from a model stream event.
// Engines wrap streamed content either as data.chunk.content or as the chunk
// itself; both are accepted.
func (e *Event) ChunkContent() interface{} {
	if e == nil || e.Data == nil || e.Data.Chunk == nil {
		return nil
	}
	if m, ok := e.Data.Chunk.(map[string]interface{}); ok {
		if c, ok := m["content"]; ok {
			return c
		}
	}
	return e.Data.Chunk
}
