// Package sanitize bounds the size of arbitrary JSON-like values so retained
// trace data stays within per-event budgets regardless of how large any raw
// payload was.
package sanitize

// Config controls the sanitization bounds.
type Config struct {
	// MaxStringLen truncates strings longer than this many bytes.
	MaxStringLen int
	// MaxCollectionLen caps the number of entries kept from maps and slices.
	MaxCollectionLen int
	// MaxDepth replaces values nested deeper than this with a marker string.
	MaxDepth int
}

// DefaultConfig returns bounds sized for a sub-500KB per-event budget.
func DefaultConfig() Config {
	return Config{
		MaxStringLen:     8192,
		MaxCollectionLen: 64,
		MaxDepth:         6,
	}
}

const (
	truncationMarker = "...[truncated]"
	depthMarker      = "[max depth exceeded]"
)

// Sanitizer bounds nested values according to its Config.
type Sanitizer struct {
	cfg Config
}

// New constructs a Sanitizer, filling zero fields from DefaultConfig.
func New(cfg Config) *Sanitizer {
	def := DefaultConfig()
	if cfg.MaxStringLen <= 0 {
		cfg.MaxStringLen = def.MaxStringLen
	}
	if cfg.MaxCollectionLen <= 0 {
		cfg.MaxCollectionLen = def.MaxCollectionLen
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	return &Sanitizer{cfg: cfg}
}

// Map sanitizes a string-keyed map, returning a bounded copy. A nil input
// yields nil.
func (s *Sanitizer) Map(v map[string]interface{}) map[string]interface{} {
	if v == nil {
		return nil
	}
	out, ok := s.value(v, 0).(map[string]interface{})
	if !ok {
		return nil
	}
	return out
}

// Value sanitizes an arbitrary value, returning a bounded copy.
func (s *Sanitizer) Value(v interface{}) interface{} {
	return s.value(v, 0)
}

func (s *Sanitizer) value(v interface{}, depth int) interface{} {
	if depth >= s.cfg.MaxDepth {
		return depthMarker
	}
	switch t := v.(type) {
	case string:
		return s.str(t)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		n := 0
		for k, item := range t {
			if n >= s.cfg.MaxCollectionLen {
				out["_truncated"] = true
				break
			}
			out[s.str(k)] = s.value(item, depth+1)
			n++
		}
		return out
	case []interface{}:
		limit := len(t)
		truncated := false
		if limit > s.cfg.MaxCollectionLen {
			limit = s.cfg.MaxCollectionLen
			truncated = true
		}
		out := make([]interface{}, 0, limit)
		for _, item := range t[:limit] {
			out = append(out, s.value(item, depth+1))
		}
		if truncated {
			out = append(out, truncationMarker)
		}
		return out
	default:
		return v
	}
}

func (s *Sanitizer) str(v string) string {
	if len(v) <= s.cfg.MaxStringLen {
		return v
	}
	return v[:s.cfg.MaxStringLen] + truncationMarker
}
