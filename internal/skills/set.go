package skills

import "sort"

// Set is an unordered collection of skill names.
type Set map[string]struct{}

// NewSet builds a set from names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts a name.
func (s Set) Add(name string) {
	s[name] = struct{}{}
}

// Contains reports whether name is present.
func (s Set) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Intersect returns the names present in both sets.
func (s Set) Intersect(other Set) Set {
	out := make(Set)
	for name := range s {
		if other.Contains(name) {
			out.Add(name)
		}
	}
	return out
}

// Difference returns the names in s that are absent from other.
func (s Set) Difference(other Set) Set {
	out := make(Set)
	for name := range s {
		if !other.Contains(name) {
			out.Add(name)
		}
	}
	return out
}

// Sorted returns the names in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
