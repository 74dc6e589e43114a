// Package trace retains a filtered, size-bounded projection of run events for
// observability and billing. High-volume token deltas and engine-internal
// bookkeeping nodes are dropped; everything kept has its payloads passed
// through a size sanitizer before storage.
package trace

import (
	"strings"
	"time"

	"github.com/streamloom/streamloom/event"
)

// Event is one sanitized trace record.
type Event struct {
	Type      string                 `json:"type"`
	Name      string                 `json:"name,omitempty"`
	Channel   string                 `json:"channel,omitempty"`
	NodeName  string                 `json:"node_name,omitempty"`
	Timestamp int64                  `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Summary is the packaged trace for one run.
type Summary struct {
	Events      []*Event `json:"events"`
	StartedAt   int64    `json:"started_at"`
	CompletedAt int64    `json:"completed_at"`
	DurationMs  int64    `json:"duration_ms"`
	TotalEvents int      `json:"total_events"`
}

// Sanitizer bounds nested payloads before they are retained.
type Sanitizer interface {
	Map(v map[string]interface{}) map[string]interface{}
	Value(v interface{}) interface{}
}

// Drop reasons returned by Capturer.Capture.
const (
	DropUntyped        = "untyped"
	DropRawChunk       = "raw_chunk"
	DropTokenStream    = "token_stream"
	DropInfrastructure = "infrastructure"
	DropUnattributed   = "unattributed_wrapper"
)

// infraNamePrefixes match engine-internal bookkeeping nodes whose events
// duplicate or wrap real node activity.
var infraNamePrefixes = []string{"ChannelWrite", "ChannelRead", "branch:"}

// infraNames are exact-match internal node names.
var infraNames = map[string]bool{
	"_write":           true,
	"_read":            true,
	"RunnableSequence": true,
}

// Capturer filters and sanitizes run events into trace records.
type Capturer struct {
	sanitizer Sanitizer
}

type noSanitizer struct{}

func (noSanitizer) Map(v map[string]interface{}) map[string]interface{} { return v }
func (noSanitizer) Value(v interface{}) interface{}                     { return v }

// NewCapturer constructs a Capturer around the given sanitizer. A nil
// sanitizer disables payload bounding (useful only in tests).
func NewCapturer(s Sanitizer) *Capturer {
	if s == nil {
		s = noSanitizer{}
	}
	return &Capturer{sanitizer: s}
}

// Capture converts ev into a trace record. It returns (nil, reason) when the
// event is filtered out, and (record, "") when the event is accepted.
func (c *Capturer) Capture(ev *event.Event) (*Event, string) {
	if ev == nil || ev.Event == "" {
		return nil, DropUntyped
	}
	switch ev.Event {
	case event.KindChainStream:
		return nil, DropRawChunk
	case event.KindModelStream:
		// token deltas are reconstructed from content blocks; only the
		// completion event is worth tracing
		return nil, DropTokenStream
	}
	if isInfraName(ev.Name) {
		return nil, DropInfrastructure
	}
	node := ev.NodeName()
	if node == "" && (ev.Event == event.KindChainStart || ev.Event == event.KindChainEnd) {
		// top-level chain wrappers duplicate inner node events
		return nil, DropUnattributed
	}

	rec := &Event{
		Type:      string(ev.Event),
		Name:      ev.Name,
		Channel:   string(ev.Channel()),
		NodeName:  node,
		Timestamp: ev.Timestamp,
	}
	if rec.Timestamp == 0 {
		rec.Timestamp = time.Now().UnixMilli()
	}
	if ev.Metadata != nil {
		rec.Metadata = c.sanitizer.Map(ev.Metadata)
	}
	if ev.Data != nil {
		rec.Data = c.sanitizeData(ev.Data)
	}
	return rec, ""
}

func (c *Capturer) sanitizeData(d *event.Data) map[string]interface{} {
	out := make(map[string]interface{}, 4)
	if d.Chunk != nil {
		out["chunk"] = c.sanitizer.Value(d.Chunk)
	}
	if d.Output != nil {
		out["output"] = c.sanitizer.Value(d.Output)
	}
	if d.Input != nil {
		out["input"] = c.sanitizer.Value(d.Input)
	}
	if d.Error != nil {
		out["error"] = c.sanitizer.Value(d.Error)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isInfraName(name string) bool {
	if name == "" {
		return false
	}
	if infraNames[name] {
		return true
	}
	for _, p := range infraNamePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
