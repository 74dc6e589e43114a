package stream

import (
	"context"
	"encoding/json"

	"github.com/streamloom/streamloom/event"
	"github.com/streamloom/streamloom/observability"
	"github.com/streamloom/streamloom/sanitize"
	"github.com/streamloom/streamloom/trace"
)

// Config holds processor configuration. All fields are optional.
type Config struct {
	// Sanitizer bounds trace payloads before retention. Defaults to
	// sanitize.New with default bounds.
	Sanitizer trace.Sanitizer
	// Hooks receives observability callbacks.
	Hooks *observability.Hooks
}

// Processor applies run events to accumulators and assembles results. It
// holds no per-run state, so a single Processor is safely shared by any
// number of concurrent runs as long as each run owns its own Accumulator.
type Processor struct {
	capturer *trace.Capturer
	hooks    *observability.Hooks
}

// NewProcessor creates a Processor.
func NewProcessor(cfg Config) *Processor {
	s := cfg.Sanitizer
	if s == nil {
		s = sanitize.New(sanitize.Config{})
	}
	return &Processor{
		capturer: trace.NewCapturer(s),
		hooks:    cfg.Hooks,
	}
}

// Process applies one event to the accumulator, optionally emitting deltas to
// sink. It never fails: malformed events are dropped from the trace, content
// handlers no-op, and unmatched lifecycle events are logged and ignored —
// dropping a single event must never abort the run.
func (p *Processor) Process(acc *Accumulator, ev *event.Event, sink DeltaSink) {
	if acc == nil || ev == nil {
		return
	}
	ctx := context.Background()

	p.capture(ctx, acc, ev)

	switch ev.Event {
	case event.KindModelStream:
		p.handleContent(acc, ev, sink)
	case event.KindToolStart:
		p.handleToolStart(ctx, acc, ev)
	case event.KindToolEnd:
		p.handleToolEnd(ctx, acc, ev, sink)
	case event.KindToolError:
		p.handleToolError(ctx, acc, ev)
	case event.KindChainEnd:
		p.handleChainEnd(acc, ev)
	}
}

// capture runs the event through the trace filters and records it on accept.
func (p *Processor) capture(ctx context.Context, acc *Accumulator, ev *event.Event) {
	rec, reason := p.capturer.Capture(ev)
	if rec == nil {
		p.hooks.SafeEventDropped(ctx, string(ev.Event), ev.Name, reason)
		return
	}
	acc.traceEvents = append(acc.traceEvents, rec)
	if acc.traceStartedAt == 0 {
		acc.traceStartedAt = rec.Timestamp
	}
	acc.traceCompletedAt = rec.Timestamp
	p.hooks.SafeEventAccepted(ctx, string(ev.Event), ev.Name)
}

// handleContent applies normalized content fragments to the event's channel.
// Block boundaries are inferred purely from type transitions in the fragment
// stream; no explicit start/end markers are required.
func (p *Processor) handleContent(acc *Accumulator, ev *event.Event, sink DeltaSink) {
	frags := event.NormalizeContent(ev.ChunkContent())
	if len(frags) == 0 {
		return
	}
	channel := ev.Channel()
	ch := acc.channel(channel)

	for _, f := range frags {
		switch f.Type {
		case event.FragmentToolUse:
			b := ch.open(BlockToolUse)
			b.Name = f.Name
			b.ID = f.ID
			b.Input = f.Input
			ch.pending = append(ch.pending, b)
			emit(sink, channel, Delta{Type: DeltaStepStarted, Name: b.Name, ID: b.ID})
		case event.FragmentInputJSONDelta:
			if ch.current != nil && ch.current.Type == BlockToolUse {
				ch.current.Input += f.Input
				emit(sink, channel, Delta{Type: DeltaToolInputChunk, Input: f.Input})
			}
		case event.FragmentText:
			if ch.current == nil || ch.current.Type != BlockText {
				ch.open(BlockText)
			}
			ch.current.Text += f.Text
			emit(sink, channel, Delta{Type: DeltaTextChunk, Text: f.Text})
		}
	}
}

// handleToolStart correlates a pending tool block to the started run. Events
// without a run_id are left in the FIFO so the end-event fallback still
// resolves them.
func (p *Processor) handleToolStart(ctx context.Context, acc *Accumulator, ev *event.Event) {
	if ev.RunID == "" {
		return
	}
	ch := acc.channel(ev.Channel())
	b := ch.takePendingByName(ev.Name)
	if b == nil {
		p.hooks.SafeUnmatchedLifecycle(ctx, string(ev.Event), ev.Name, ev.RunID)
		p.hooks.SafeLog(ctx, "warn", "tool start with no pending block", map[string]any{"name": ev.Name, "run_id": ev.RunID})
		return
	}
	ch.byRunID[ev.RunID] = b
	p.hooks.SafeToolCorrelated(ctx, ev.Name, ev.RunID)
}

// handleToolEnd resolves the completed tool call to its block and writes the
// output. Resolution is two-tier: exact run_id lookup first, oldest pending
// block second. The run_id tier is what keeps two concurrent calls of the
// same tool apart; the FIFO tier covers sequential runs from event sources
// that never emit a correlated start.
func (p *Processor) handleToolEnd(ctx context.Context, acc *Accumulator, ev *event.Event, sink DeltaSink) {
	channel := ev.Channel()
	ch := acc.channel(channel)

	var b *ContentBlock
	if ev.RunID != "" {
		if found, ok := ch.byRunID[ev.RunID]; ok {
			b = found
			delete(ch.byRunID, ev.RunID)
		}
	}
	if b == nil {
		b = ch.takeOldestPending()
	}
	if b == nil {
		p.hooks.SafeUnmatchedLifecycle(ctx, string(ev.Event), ev.Name, ev.RunID)
		p.hooks.SafeLog(ctx, "warn", "tool end with no matching block", map[string]any{"name": ev.Name, "run_id": ev.RunID})
		return
	}
	var out interface{}
	if ev.Data != nil {
		out = ev.Data.Output
	}
	b.Output = stringifyOutput(out)
	emit(sink, channel, Delta{Type: DeltaToolOutputChunk, Output: b.Output, Name: b.Name, ID: b.ID})
}

// handleToolError abandons the correlation for the failed run. Block content
// is left untouched so no partial output is surfaced.
func (p *Processor) handleToolError(ctx context.Context, acc *Accumulator, ev *event.Event) {
	ch := acc.channel(ev.Channel())
	if ev.RunID != "" {
		if _, ok := ch.byRunID[ev.RunID]; ok {
			delete(ch.byRunID, ev.RunID)
		}
	}
	p.hooks.SafeLog(ctx, "warn", "tool errored", map[string]any{"name": ev.Name, "run_id": ev.RunID})
}

// handleChainEnd merges final-output data surfaced by a sub-chain end on the
// primary channel. Several sub-chains may each contribute partial data, so
// attachments concatenate and metadata shallow-merges.
func (p *Processor) handleChainEnd(acc *Accumulator, ev *event.Event) {
	if ev.Channel() != event.ChannelText {
		return
	}
	if ev.Data == nil {
		return
	}
	out, ok := ev.Data.Output.(map[string]interface{})
	if !ok {
		return
	}
	// known final-output shapes, in lookup order
	payload := out
	if inner, ok := out["answer"].(map[string]interface{}); ok {
		payload = inner
	} else if inner, ok := out["generation"].(map[string]interface{}); ok {
		payload = inner
	}
	if atts, ok := payload["attachments"].([]interface{}); ok {
		acc.attachments = append(acc.attachments, atts...)
	}
	if meta, ok := payload["metadata"].(map[string]interface{}); ok {
		for k, v := range meta {
			acc.metadata[k] = v
		}
	}
}

// stringifyOutput renders a tool result as a string, pretty-printing
// non-string values.
func stringifyOutput(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		b, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return ""
		}
		return string(b)
	}
}
