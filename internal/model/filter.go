package model

import "fmt"

// Filter selects which notes a list view shows. It is applied client-side
// to the full fetched set and never sent to the server.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// DefaultFilter is the filter a new session starts with.
const DefaultFilter = FilterAll

// String returns the string representation of the filter.
func (f Filter) String() string {
	return string(f)
}

// IsValid checks whether the filter is a known value.
func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterPending, FilterCompleted:
		return true
	}
	return false
}

// Matches reports whether a note passes the filter.
func (f Filter) Matches(n *Note) bool {
	if f == FilterAll {
		return true
	}
	return string(n.Status) == string(f)
}

// Apply returns the notes passing the filter in their original order.
// The input slice is never modified.
func (f Filter) Apply(notes []*Note) []*Note {
	out := make([]*Note, 0, len(notes))
	for _, n := range notes {
		if f.Matches(n) {
			out = append(out, n)
		}
	}
	return out
}

// ParseFilter converts user input into a Filter. An empty string yields the default.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return DefaultFilter, nil
	}
	f := Filter(s)
	if !f.IsValid() {
		return "", fmt.Errorf("invalid filter %q: want all, pending or completed", s)
	}
	return f, nil
}
