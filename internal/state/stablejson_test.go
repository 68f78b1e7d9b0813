package state

import "testing"

func TestStableJSONSortsKeys(t *testing.T) {
	a := map[string]any{"b": 1, "a": 2}
	b := map[string]any{"a": 2.0, "b": 1.0}

	if stableJSON(a) != `{"a":2,"b":1}` {
		t.Errorf("stableJSON(a) = %q", stableJSON(a))
	}
	if stableJSON(a) != stableJSON(b) {
		t.Errorf("stableJSON should be byte-identical for equivalent-up-to-key-order inputs: %q vs %q", stableJSON(a), stableJSON(b))
	}
}

func TestStableJSONPreservesArrayOrder(t *testing.T) {
	v := map[string]any{"items": []any{"z", "a", "m"}}
	want := `{"items":["z","a","m"]}`
	if got := stableJSON(v); got != want {
		t.Errorf("stableJSON() = %q, want %q", got, want)
	}
}

func TestStableJSONNullForNil(t *testing.T) {
	if got := stableJSON(nil); got != "null" {
		t.Errorf("stableJSON(nil) = %q, want null", got)
	}
	v := map[string]any{"x": nil}
	if got := stableJSON(v); got != `{"x":null}` {
		t.Errorf("stableJSON() = %q", got)
	}
}

func TestContentIDStability(t *testing.T) {
	questions := []string{"Who is the target user?"}
	createdAt := "2026-01-01T00:00:00Z"

	id1 := clarificationID(questions, createdAt)
	id2 := clarificationID(append([]string{}, questions...), createdAt)

	if id1 != id2 {
		t.Errorf("clarificationID should be deterministic for identical content: %q vs %q", id1, id2)
	}
	if id1[:len("clarification-")] != "clarification-" {
		t.Errorf("clarificationID should be prefixed: %q", id1)
	}
}
