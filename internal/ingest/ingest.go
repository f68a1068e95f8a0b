// Package ingest turns the serial GNSS stream into complete text lines. A
// Source hands the control loop whatever full lines arrived since the last
// poll; the Filter keeps the most recent line matching the sentence prefixes
// of interest, so the loop can log one position per minute no matter how
// fast the receiver talks.
package ingest

import "strings"

// Source yields the complete lines received since the previous Poll. The
// returned batch is finite and the lines are consumed — there is no way to
// poll them again.
type Source interface {
	Poll() []string
	Close() error
}

// Filter retains the most recent offered line that starts with one of the
// configured prefixes. Earlier matches are overwritten, not queued.
type Filter struct {
	prefixes []string
	latest   string
}

// NewFilter creates a Filter for the given sentence prefixes.
func NewFilter(prefixes ...string) *Filter {
	return &Filter{prefixes: prefixes}
}

// Offer inspects one line and reports whether it matched.
func (f *Filter) Offer(line string) bool {
	for _, p := range f.prefixes {
		if strings.HasPrefix(line, p) {
			f.latest = line
			return true
		}
	}
	return false
}

// Take returns the retained line, if any, and clears it.
func (f *Filter) Take() (string, bool) {
	if f.latest == "" {
		return "", false
	}
	line := f.latest
	f.latest = ""
	return line, true
}
