package event

import "testing"

func TestNormalizeContent(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want []Fragment
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"whitespace string", " \t\n ", nil},
		{"plain string", "hello", []Fragment{{Type: FragmentText, Text: "hello"}}},
		{
			"single text block",
			map[string]interface{}{"type": "text", "text": "hi"},
			[]Fragment{{Type: FragmentText, Text: "hi"}},
		},
		{
			"single tool_use block",
			map[string]interface{}{"type": "tool_use", "name": "search", "id": "t1", "input": "{"},
			[]Fragment{{Type: FragmentToolUse, Name: "search", ID: "t1", Input: "{"}},
		},
		{
			"tool_call alias",
			map[string]interface{}{"type": "tool_call", "name": "search", "id": "t1"},
			[]Fragment{{Type: FragmentToolUse, Name: "search", ID: "t1"}},
		},
		{
			"input_json_delta",
			map[string]interface{}{"type": "input_json_delta", "input": `"x"`},
			[]Fragment{{Type: FragmentInputJSONDelta, Input: `"x"`}},
		},
		{
			"input_json_delta partial_json key",
			map[string]interface{}{"type": "input_json_delta", "partial_json": `"y"`},
			[]Fragment{{Type: FragmentInputJSONDelta, Input: `"y"`}},
		},
		{
			"array passes through in order",
			[]interface{}{
				map[string]interface{}{"type": "text", "text": "a"},
				map[string]interface{}{"type": "tool_use", "name": "f"},
				map[string]interface{}{"type": "text", "text": "b"},
			},
			[]Fragment{
				{Type: FragmentText, Text: "a"},
				{Type: FragmentToolUse, Name: "f"},
				{Type: FragmentText, Text: "b"},
			},
		},
		{
			"unknown block types skipped",
			[]interface{}{
				map[string]interface{}{"type": "unknown"},
				"not a block",
				map[string]interface{}{"type": "text", "text": "kept"},
			},
			[]Fragment{{Type: FragmentText, Text: "kept"}},
		},
		{"number", 42, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeContent(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d fragments, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("fragment %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEventChannel(t *testing.T) {
	if ch := (&Event{}).Channel(); ch != ChannelText {
		t.Errorf("default channel = %s, want text", ch)
	}
	ev := &Event{Metadata: map[string]interface{}{"stream_channel": "processing"}}
	if ch := ev.Channel(); ch != ChannelProcessing {
		t.Errorf("channel = %s, want processing", ch)
	}
	var nilEv *Event
	if ch := nilEv.Channel(); ch != ChannelText {
		t.Errorf("nil event channel = %s, want text", ch)
	}
}

func TestChunkContent(t *testing.T) {
	ev := &Event{Data: &Data{Chunk: map[string]interface{}{"content": "inner"}}}
	if got := ev.ChunkContent(); got != "inner" {
		t.Errorf("wrapped chunk = %v", got)
	}
	ev = &Event{Data: &Data{Chunk: "bare"}}
	if got := ev.ChunkContent(); got != "bare" {
		t.Errorf("bare chunk = %v", got)
	}
	if got := (&Event{}).ChunkContent(); got != nil {
		t.Errorf("missing chunk = %v", got)
	}
}
