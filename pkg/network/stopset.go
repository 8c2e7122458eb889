package network

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// StopSet is a set of stop names.
// The zero value (nil) is an empty, read-only set.
type StopSet map[string]struct{}

// NewStopSet returns a set holding the given names.
func NewStopSet(names ...string) StopSet {
	s := make(StopSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s StopSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Add inserts name into the set.
func (s StopSet) Add(name string) { s[name] = struct{}{} }

// Len returns the number of stops in the set.
func (s StopSet) Len() int { return len(s) }

// Sorted returns the stop names in ascending order.
func (s StopSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Intersects reports whether s and other share at least one stop.
func (s StopSet) Intersects(other StopSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for n := range small {
		if large.Has(n) {
			return true
		}
	}
	return false
}

// Union returns a new set holding the stops of s and other.
func (s StopSet) Union(other StopSet) StopSet {
	out := make(StopSet, len(s)+len(other))
	for n := range s {
		out.Add(n)
	}
	for n := range other {
		out.Add(n)
	}
	return out
}

// Key returns a canonical string for the set contents: each sorted name
// prefixed with its byte length, as in "5:Davis7:Central". Two sets produce
// the same key exactly when they have the same members, whatever bytes the
// names contain. The empty set's key is "".
func (s StopSet) Key() string {
	var b strings.Builder
	for _, n := range s.Sorted() {
		b.WriteString(strconv.Itoa(len(n)))
		b.WriteByte(':')
		b.WriteString(n)
	}
	return b.String()
}

// Available returns the stops of stops that are not in unavailable.
// It never modifies its arguments; the result is a fresh set.
func Available(stops, unavailable StopSet) StopSet {
	out := make(StopSet, len(stops))
	for n := range stops {
		if !unavailable.Has(n) {
			out.Add(n)
		}
	}
	return out
}
