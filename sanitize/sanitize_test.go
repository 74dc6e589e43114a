package sanitize

import (
	"strings"
	"testing"
)

func TestLongStringsTruncated(t *testing.T) {
	s := New(Config{MaxStringLen: 10})
	got, ok := s.Value(strings.Repeat("a", 50)).(string)
	if !ok {
		t.Fatal("expected string")
	}
	if !strings.HasPrefix(got, strings.Repeat("a", 10)) || !strings.Contains(got, "truncated") {
		t.Errorf("got %q", got)
	}
	if short := s.Value("short"); short != "short" {
		t.Errorf("short string altered: %v", short)
	}
}

func TestCollectionsCapped(t *testing.T) {
	s := New(Config{MaxCollectionLen: 2})

	slice := []interface{}{"a", "b", "c", "d"}
	out, ok := s.Value(slice).([]interface{})
	if !ok {
		t.Fatal("expected slice")
	}
	// two entries plus the truncation marker
	if len(out) != 3 {
		t.Fatalf("got %d entries: %v", len(out), out)
	}

	m := map[string]interface{}{"a": 1, "b": 2, "c": 3, "d": 4}
	outm, ok := s.Value(m).(map[string]interface{})
	if !ok {
		t.Fatal("expected map")
	}
	if outm["_truncated"] != true {
		t.Errorf("expected truncation flag: %v", outm)
	}
	// two kept entries plus the flag
	if len(outm) != 3 {
		t.Errorf("got %d entries: %v", len(outm), outm)
	}
}

func TestDepthBounded(t *testing.T) {
	s := New(Config{MaxDepth: 2})
	deep := map[string]interface{}{
		"l1": map[string]interface{}{
			"l2": map[string]interface{}{
				"l3": "unreachable",
			},
		},
	}
	out := s.Map(deep)
	l1 := out["l1"].(map[string]interface{})
	if _, ok := l1["l2"].(string); !ok {
		t.Errorf("expected depth marker at l2, got %T", l1["l2"])
	}
}

func TestNilMapPassesThrough(t *testing.T) {
	s := New(Config{})
	if out := s.Map(nil); out != nil {
		t.Errorf("expected nil, got %v", out)
	}
}

func TestNonStringScalarsUntouched(t *testing.T) {
	s := New(Config{})
	in := map[string]interface{}{"n": float64(3), "b": true, "nil": nil}
	out := s.Map(in)
	if out["n"] != float64(3) || out["b"] != true || out["nil"] != nil {
		t.Errorf("scalars altered: %v", out)
	}
}

func TestZeroConfigGetsDefaults(t *testing.T) {
	s := New(Config{})
	if s.cfg.MaxStringLen != DefaultConfig().MaxStringLen {
		t.Errorf("MaxStringLen = %d", s.cfg.MaxStringLen)
	}
	if s.cfg.MaxDepth != DefaultConfig().MaxDepth {
		t.Errorf("MaxDepth = %d", s.cfg.MaxDepth)
	}
}
