package observability

import (
	"context"

	"github.com/streamloom/streamloom/event"
)

// Hooks provides optional callbacks for logging, metrics, and tracing without
// introducing dependencies in the core library. All functions are optional.
type Hooks struct {
	// Logf logs a structured message with a severity level and key-value fields.
	Logf func(ctx context.Context, level string, msg string, fields map[string]any)

	// OnEventAccepted is called when an event passes the trace filters.
	OnEventAccepted func(ctx context.Context, kind string, name string)
	// OnEventDropped is called when an event is filtered out of the trace.
	OnEventDropped func(ctx context.Context, kind string, name string, reason string)
	// OnToolCorrelated is called when a tool lifecycle event resolves to a block.
	OnToolCorrelated func(ctx context.Context, name string, runID string)
	// OnUnmatchedLifecycle is called when a tool start/end/error event has no
	// block to resolve against.
	OnUnmatchedLifecycle func(ctx context.Context, kind string, name string, runID string)
	// OnOrphanedBlocks is called at result time when announced tool blocks were
	// never completed.
	OnOrphanedBlocks func(ctx context.Context, channel event.Channel, count int)
}

// SafeLog logs if Logf is configured.
func (h *Hooks) SafeLog(ctx context.Context, level string, msg string, fields map[string]any) {
	if h != nil && h.Logf != nil {
		h.Logf(ctx, level, msg, fields)
	}
}

// SafeEventAccepted invokes OnEventAccepted if configured.
func (h *Hooks) SafeEventAccepted(ctx context.Context, kind string, name string) {
	if h != nil && h.OnEventAccepted != nil {
		h.OnEventAccepted(ctx, kind, name)
	}
}

// SafeEventDropped invokes OnEventDropped if configured.
func (h *Hooks) SafeEventDropped(ctx context.Context, kind string, name string, reason string) {
	if h != nil && h.OnEventDropped != nil {
		h.OnEventDropped(ctx, kind, name, reason)
	}
}

// SafeToolCorrelated invokes OnToolCorrelated if configured.
func (h *Hooks) SafeToolCorrelated(ctx context.Context, name string, runID string) {
	if h != nil && h.OnToolCorrelated != nil {
		h.OnToolCorrelated(ctx, name, runID)
	}
}

// SafeUnmatchedLifecycle invokes OnUnmatchedLifecycle if configured.
func (h *Hooks) SafeUnmatchedLifecycle(ctx context.Context, kind string, name string, runID string) {
	if h != nil && h.OnUnmatchedLifecycle != nil {
		h.OnUnmatchedLifecycle(ctx, kind, name, runID)
	}
}

// SafeOrphanedBlocks invokes OnOrphanedBlocks if configured.
func (h *Hooks) SafeOrphanedBlocks(ctx context.Context, channel event.Channel, count int) {
	if h != nil && h.OnOrphanedBlocks != nil {
		h.OnOrphanedBlocks(ctx, channel, count)
	}
}
