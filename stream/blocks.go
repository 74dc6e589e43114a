// Package stream reconstructs structured run content from an ordered stream
// of agent execution events. One Accumulator holds the mutable state for one
// run; a Processor applies events to it and assembles the final result.
package stream

import "github.com/streamloom/streamloom/event"

// BlockType identifies the kind of a content block.
type BlockType string

const (
	BlockText    BlockType = "text"
	BlockToolUse BlockType = "tool_use"
)

// ContentBlock is one unit of assembled output: a contiguous span of text or
// one tool invocation with its captured input and output. Input accumulates
// streamed tool parameters fragment by fragment as raw JSON text; Output is
// written exactly once, at tool completion.
type ContentBlock struct {
	Index    int                    `json:"index"`
	Type     BlockType              `json:"type"`
	Text     string                 `json:"text,omitempty"`
	Name     string                 `json:"name,omitempty"`
	ID       string                 `json:"id,omitempty"`
	Input    string                 `json:"input,omitempty"`
	Output   string                 `json:"output,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Chain is the finalized, ordered block sequence for one channel.
type Chain struct {
	Channel    event.Channel   `json:"channel"`
	Steps      []*ContentBlock `json:"steps"`
	IsComplete bool            `json:"is_complete"`
}
