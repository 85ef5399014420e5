package composer

import (
	"strings"
	"testing"
)

func TestParseSlots(t *testing.T) {
	raw := []byte(`[
		{"id":"photo","x":10,"y":10,"width":40,"height":40,"z_index":2,"fit":"cover"},
		{"id":"logo","x":-5,"y":120,"width":30,"height":30,"rotation":15,"fit":"contain"}
	]`)
	slots, err := ParseSlots(raw)
	if err != nil {
		t.Fatalf("ParseSlots: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].ID != "photo" || slots[0].ZIndex != 2 || slots[0].Fit != FitCover {
		t.Fatalf("unexpected first slot: %+v", slots[0])
	}
	if slots[1].X != -5 || slots[1].Y != 120 || slots[1].Rotation != 15 {
		t.Fatalf("off-canvas slot should survive parsing: %+v", slots[1])
	}
}

func TestParseSlotsEmpty(t *testing.T) {
	slots, err := ParseSlots(nil)
	if err != nil || len(slots) != 0 {
		t.Fatalf("ParseSlots(nil): slots=%v err=%v", slots, err)
	}
}

func TestParseSlotsRejectsBadDefinitions(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"missing id", `[{"x":0,"y":0,"width":10,"height":10}]`, "id is required"},
		{"duplicate id", `[{"id":"a","width":10,"height":10},{"id":"a","width":10,"height":10}]`, "duplicate id"},
		{"zero width", `[{"id":"a","width":0,"height":10}]`, "must be positive"},
		{"negative height", `[{"id":"a","width":10,"height":-1}]`, "must be positive"},
		{"bad fit", `[{"id":"a","width":10,"height":10,"fit":"stretch"}]`, "unknown fit mode"},
		{"not json", `{`, "decode slots"},
	}
	for _, tc := range cases {
		if _, err := ParseSlots([]byte(tc.raw)); err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestParseAssignments(t *testing.T) {
	raw := []byte(`[
		{"slot_id":"photo","image_path":"uploads/a.png"},
		{"slot_id":"photo","image_path":"uploads/b.png"}
	]`)
	assignments, err := ParseAssignments(raw)
	if err != nil {
		t.Fatalf("ParseAssignments: %v", err)
	}
	if len(assignments) != 2 {
		t.Fatalf("duplicate slot ids are allowed, got %d entries", len(assignments))
	}

	if _, err := ParseAssignments([]byte(`[{"slot_id":"","image_path":"x"}]`)); err == nil {
		t.Fatalf("expected error for empty slot_id")
	}
	if _, err := ParseAssignments([]byte(`[{"slot_id":"a","image_path":""}]`)); err == nil {
		t.Fatalf("expected error for empty image_path")
	}
}
