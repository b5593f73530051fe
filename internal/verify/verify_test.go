package verify

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"VR 204", "vr204"},
		{"vr-204", "vr204"},
		{"  VR_204  ", "vr204"},
		{"Fire Lab", "firelab"},
		{"", ""},
		{"   ", ""},
		{"already", "already"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, s := range []string{"VR 204", "fire-lab", "  x_y-z  ", "plain"} {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", s, twice, once)
		}
	}
}

func TestSetsCheck(t *testing.T) {
	sets := NewSets([][]string{
		{"VR 204", "vr suite"},
		{"extinguisher"},
	})

	// Every formatting variant of an accepted answer matches.
	for _, ans := range []string{"vr204", "VR 204", "vr-204", "VR_204", "  vr 204  "} {
		if !sets.Check(0, ans) {
			t.Errorf("expected %q accepted for room 0", ans)
		}
	}

	if sets.Check(0, "extinguisher") {
		t.Error("answers must not leak across rooms")
	}
	if sets.Check(0, "") {
		t.Error("empty answer must not match")
	}
	if sets.Check(-1, "vr204") || sets.Check(2, "vr204") {
		t.Error("out-of-range room must read as false, not panic")
	}
}

func TestNewSetsDropsEmptyEntries(t *testing.T) {
	sets := NewSets([][]string{{"", "  ", "ok"}})
	if sets.Check(0, "") {
		t.Error("blank accepted entries must be dropped")
	}
	if !sets.Check(0, "OK") {
		t.Error("expected 'ok' accepted")
	}
}

func TestFromRoomsOverrides(t *testing.T) {
	lists := [][]string{
		{"vr204"},
		{"extinguisher"},
	}
	lookup := func(key string) string {
		if key == "ANSWERS_L2" {
			return "foam, CO2"
		}
		return ""
	}

	sets := FromRooms(lists, lookup)

	if !sets.Check(0, "vr204") {
		t.Error("room without override must keep its answers")
	}
	if sets.Check(1, "extinguisher") {
		t.Error("override must replace the room's answers, not extend them")
	}
	if !sets.Check(1, "foam") || !sets.Check(1, "CO 2") {
		t.Error("expected override entries accepted after normalization")
	}
}

func TestFromRoomsNilLookup(t *testing.T) {
	sets := FromRooms([][]string{{"vr204"}}, nil)
	if !sets.Check(0, "vr204") {
		t.Error("nil lookup must behave like no overrides")
	}
}
