package event

import "strings"

// FragmentType identifies the kind of a normalized content fragment.
type FragmentType string

const (
	FragmentText           FragmentType = "text"
	FragmentToolUse        FragmentType = "tool_use"
	FragmentInputJSONDelta FragmentType = "input_json_delta"
)

// Fragment is one typed piece of streamed model content after normalization.
type Fragment struct {
	Type  FragmentType
	Text  string // FragmentText
	Name  string // FragmentToolUse
	ID    string // FragmentToolUse
	Input string // FragmentToolUse initial input, or FragmentInputJSONDelta partial JSON
}

// NormalizeContent converts a raw content payload into an ordered fragment
// list. Upstream engines emit content in three wire shapes: a plain string, a
// single block object, or an array of block objects. Nil and blank strings
// normalize to no fragments; unrecognized block types are skipped.
func NormalizeContent(raw interface{}) []Fragment {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []Fragment{{Type: FragmentText, Text: v}}
	case map[string]interface{}:
		if f, ok := fragmentFromBlock(v); ok {
			return []Fragment{f}
		}
		return nil
	case []interface{}:
		frags := make([]Fragment, 0, len(v))
		for _, item := range v {
			block, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			if f, ok := fragmentFromBlock(block); ok {
				frags = append(frags, f)
			}
		}
		return frags
	default:
		return nil
	}
}

func fragmentFromBlock(block map[string]interface{}) (Fragment, bool) {
	typ, _ := block["type"].(string)
	switch typ {
	case "text":
		text, _ := block["text"].(string)
		return Fragment{Type: FragmentText, Text: text}, true
	case "tool_use", "tool_call":
		// tool_call is an alias emitted by some providers
		f := Fragment{Type: FragmentToolUse}
		f.Name, _ = block["name"].(string)
		f.ID, _ = block["id"].(string)
		f.Input, _ = block["input"].(string)
		return f, true
	case "input_json_delta":
		f := Fragment{Type: FragmentInputJSONDelta}
		if s, ok := block["input"].(string); ok {
			f.Input = s
		} else if s, ok := block["partial_json"].(string); ok {
			f.Input = s
		}
		return f, true
	default:
		return Fragment{}, false
	}
}
