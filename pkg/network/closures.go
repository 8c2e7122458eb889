package network

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Closure modes accepted by [ParseMode].
const (
	ModeNormal  = "normal"
	ModeCovid19 = "covid19"
)

// covid19Initials are the word initials that close a stop in covid19 mode.
const covid19Initials = "COVID"

// Policy derives the set of unavailable stops for a catalog.
type Policy interface {
	// Name identifies the policy in logs and cache keys.
	Name() string
	// Closed returns the stops the policy marks unavailable.
	Closed(c *Catalog) StopSet
}

// Modes lists the closure modes in display order.
func Modes() []string { return []string{ModeNormal, ModeCovid19} }

// ParseMode returns the policy for a named closure mode.
// The empty string selects [ModeNormal].
func ParseMode(mode string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeNormal:
		return NoClosures{}, nil
	case ModeCovid19:
		return InitialsPolicy{Mode: ModeCovid19, Initials: covid19Initials}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q (available: %s)", mode, strings.Join(Modes(), ", "))
	}
}

// NoClosures keeps every stop open.
type NoClosures struct{}

func (NoClosures) Name() string            { return ModeNormal }
func (NoClosures) Closed(*Catalog) StopSet { return StopSet{} }

// InitialsPolicy closes every stop whose name has a word starting with one
// of Initials. Matching is case-sensitive, on the first rune of each
// whitespace-separated word.
type InitialsPolicy struct {
	Mode     string
	Initials string
}

func (p InitialsPolicy) Name() string { return p.Mode }

func (p InitialsPolicy) Closed(c *Catalog) StopSet {
	out := StopSet{}
	for name := range c.stops {
		if p.matches(name) {
			out.Add(name)
		}
	}
	return out
}

func (p InitialsPolicy) matches(name string) bool {
	for _, word := range strings.FieldsFunc(name, unicode.IsSpace) {
		r, _ := utf8.DecodeRuneInString(word)
		if strings.ContainsRune(p.Initials, r) {
			return true
		}
	}
	return false
}

// ListPolicy closes a fixed list of stops. Names absent from the catalog
// are ignored.
type ListPolicy struct {
	Stops []string
}

func (ListPolicy) Name() string { return "list" }

func (p ListPolicy) Closed(c *Catalog) StopSet {
	out := StopSet{}
	for _, name := range p.Stops {
		if c.Contains(name) {
			out.Add(name)
		}
	}
	return out
}

// Combine returns a policy closing every stop closed by any of policies.
func Combine(policies ...Policy) Policy {
	return combined(policies)
}

type combined []Policy

func (c combined) Name() string {
	names := make([]string, 0, len(c))
	for _, p := range c {
		names = append(names, p.Name())
	}
	return strings.Join(names, "+")
}

func (c combined) Closed(cat *Catalog) StopSet {
	out := StopSet{}
	for _, p := range c {
		out = out.Union(p.Closed(cat))
	}
	return out
}
