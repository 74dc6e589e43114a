package stream

import (
	"context"
	"strings"

	"github.com/streamloom/streamloom/event"
	"github.com/streamloom/streamloom/trace"
)

// Content is the assembled structured output of one run.
type Content struct {
	// Chains holds one entry per channel that produced content. Nil when no
	// channel produced anything.
	Chains      []Chain                `json:"content_chains,omitempty"`
	Attachments []interface{}          `json:"attachments"`
	Metadata    map[string]interface{} `json:"metadata"`
	// Text is the flattened primary-channel text, kept for callers that
	// predate channels.
	Text string `json:"text"`
}

// Result packages the final content and the trace summary for one run.
type Result struct {
	Content Content        `json:"content"`
	Trace   *trace.Summary `json:"trace"`
}

// Result assembles the final result from the accumulator. Open blocks are
// flushed first; the flush is idempotent, so calling Result more than once
// never duplicates a block. Partial state after an aborted stream is a valid
// input — whatever accumulated is returned.
func (p *Processor) Result(acc *Accumulator) Result {
	if acc == nil {
		return Result{}
	}
	ctx := context.Background()

	var chains []Chain
	for _, name := range acc.channelOrder {
		ch := acc.channels[name]
		ch.flush()
		if orphans := len(ch.pending) + len(ch.byRunID); orphans > 0 {
			// announced tool blocks that never completed; excluded from the
			// chain unless an earlier type transition already placed them
			p.hooks.SafeOrphanedBlocks(ctx, name, orphans)
			p.hooks.SafeLog(ctx, "warn", "orphaned tool blocks at result time", map[string]any{"channel": string(name), "count": orphans})
		}
		if len(ch.chain) == 0 {
			continue
		}
		chains = append(chains, Chain{Channel: name, Steps: ch.chain, IsComplete: true})
	}

	return Result{
		Content: Content{
			Chains:      chains,
			Attachments: acc.attachments,
			Metadata:    acc.metadata,
			Text:        flattenText(acc),
		},
		Trace: traceSummary(acc),
	}
}

// flattenText concatenates the text-typed steps of the primary channel, in
// order, with no separators.
func flattenText(acc *Accumulator) string {
	ch, ok := acc.channels[event.ChannelText]
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, b := range ch.chain {
		if b.Type == BlockText {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}

func traceSummary(acc *Accumulator) *trace.Summary {
	if len(acc.traceEvents) == 0 {
		return nil
	}
	duration := acc.traceCompletedAt - acc.traceStartedAt
	if duration < 0 {
		duration = 0
	}
	return &trace.Summary{
		Events:      acc.traceEvents,
		StartedAt:   acc.traceStartedAt,
		CompletedAt: acc.traceCompletedAt,
		DurationMs:  duration,
		TotalEvents: len(acc.traceEvents),
	}
}
