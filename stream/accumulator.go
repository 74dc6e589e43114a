package stream

import (
	"github.com/streamloom/streamloom/event"
	"github.com/streamloom/streamloom/trace"
)

// channelState holds the in-progress block machinery for one channel.
//
// A tool block may be referenced from the chain (already finalized by a type
// transition) and from pending/byRunID at the same time; lifecycle events
// mutate the shared block, so output written after finalization still lands
// in the chain.
type channelState struct {
	chain   []*ContentBlock
	current *ContentBlock
	// pending holds announced tool blocks awaiting start correlation, in
	// model-emission order.
	pending []*ContentBlock
	// byRunID holds correlated tool blocks awaiting completion.
	byRunID   map[string]*ContentBlock
	nextIndex int
}

func newChannelState() *channelState {
	return &channelState{byRunID: make(map[string]*ContentBlock)}
}

// flush moves the open block into the chain. Safe to call repeatedly.
func (c *channelState) flush() {
	if c.current == nil {
		return
	}
	c.chain = append(c.chain, c.current)
	c.current = nil
}

// open finalizes any open block and starts a new one.
func (c *channelState) open(typ BlockType) *ContentBlock {
	c.flush()
	b := &ContentBlock{Index: c.nextIndex, Type: typ}
	c.nextIndex++
	c.current = b
	return b
}

// takePendingByName removes and returns the oldest pending tool block with
// the given name, or nil.
func (c *channelState) takePendingByName(name string) *ContentBlock {
	for i, b := range c.pending {
		if b.Name == name {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return b
		}
	}
	return nil
}

// takeOldestPending removes and returns the oldest pending tool block, or nil.
func (c *channelState) takeOldestPending() *ContentBlock {
	if len(c.pending) == 0 {
		return nil
	}
	b := c.pending[0]
	c.pending = c.pending[1:]
	return b
}

// Accumulator is the full mutable state for one run. It must be created fresh
// per logical run and never shared between runs; with that discipline any
// number of runs can be processed concurrently by one Processor without
// locking.
type Accumulator struct {
	channels     map[event.Channel]*channelState
	channelOrder []event.Channel
	attachments  []interface{}
	metadata     map[string]interface{}

	traceEvents      []*trace.Event
	traceStartedAt   int64
	traceCompletedAt int64
}

// NewAccumulator creates an empty accumulator with the text and processing
// channels pre-seeded.
func NewAccumulator() *Accumulator {
	acc := &Accumulator{
		channels: make(map[event.Channel]*channelState),
		metadata: make(map[string]interface{}),
	}
	acc.channel(event.ChannelText)
	acc.channel(event.ChannelProcessing)
	return acc
}

// channel returns the state for ch, creating it on first use.
func (a *Accumulator) channel(ch event.Channel) *channelState {
	if s, ok := a.channels[ch]; ok {
		return s
	}
	s := newChannelState()
	a.channels[ch] = s
	a.channelOrder = append(a.channelOrder, ch)
	return s
}
