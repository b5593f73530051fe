// Package verify implements the trusted answer-checking boundary: free-text
// answers are normalized and matched against per-room accepted sets that are
// never exposed to the client.
package verify

import (
	"strconv"
	"strings"
)

// Reason codes returned alongside a negative result where the failure
// category is identifiable.
const (
	ReasonBadLevel  = "bad_level"
	ReasonException = "exception"
)

// Normalize lowercases the answer and strips spaces, underscores, and
// hyphens. Idempotent: Normalize(Normalize(x)) == Normalize(x). The rule
// must match the one applied to accepted answers at configuration time, or
// "VR 204", "vr-204" and "VR204" stop matching the same entry.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, s)
}

// Sets holds one normalized accepted-answer set per room index.
type Sets []map[string]struct{}

// NewSets precomputes accepted sets from ordered per-room answer lists,
// normalizing each entry. Empty entries are dropped.
func NewSets(lists [][]string) Sets {
	sets := make(Sets, len(lists))
	for i, list := range lists {
		set := make(map[string]struct{}, len(list))
		for _, a := range list {
			if n := Normalize(a); n != "" {
				set[n] = struct{}{}
			}
		}
		sets[i] = set
	}
	return sets
}

// Check reports whether the normalized answer is accepted for the room at
// level. An out-of-range level is false, never an error: this boundary only
// ever answers yes or no.
func (s Sets) Check(level int, answer string) bool {
	if level < 0 || level >= len(s) {
		return false
	}
	_, ok := s[level][Normalize(answer)]
	return ok
}

// LookupFunc resolves a named configuration entry, typically os.Getenv.
type LookupFunc func(key string) string

// FromRooms builds accepted sets from per-room answer lists, letting
// ANSWERS_L1..ANSWERS_Ln configuration entries (comma-separated) override
// individual rooms. The override keys are 1-based to match how the rooms are
// presented to players.
func FromRooms(lists [][]string, lookup LookupFunc) Sets {
	if lookup != nil {
		merged := make([][]string, len(lists))
		copy(merged, lists)
		for i := range merged {
			if raw := lookup(overrideKey(i)); raw != "" {
				merged[i] = strings.Split(raw, ",")
			}
		}
		lists = merged
	}
	return NewSets(lists)
}

func overrideKey(index int) string {
	return "ANSWERS_L" + strconv.Itoa(index+1)
}
