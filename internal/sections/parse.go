package sections

import (
	"fmt"
	"sort"
	"strings"
)

// Section is one contiguous block of résumé text. For named sections Text
// starts with the header line; for the Header section it is the leading text.
type Section struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Text string `json:"text"`
}

// HeaderLine returns the first line of a named section, or "" for Header.
func (s Section) HeaderLine() string {
	if s.Name == Header {
		return ""
	}
	line, _, _ := strings.Cut(s.Text, "\n")
	return line
}

// Body returns the text after the header line.
func (s Section) Body() string {
	if s.Name == Header {
		return s.Text
	}
	_, body, _ := strings.Cut(s.Text, "\n")
	return body
}

// WithBody returns a copy whose body is replaced by body. The header line and
// the trailing whitespace that separated the section from the next are kept.
func (s Section) WithBody(body string) Section {
	trimmed := strings.TrimRight(s.Text, " \t\r\n")
	trailing := s.Text[len(trimmed):]

	body = strings.TrimSpace(body)
	if s.Name == Header {
		s.Text = body + trailing
		return s
	}
	s.Text = s.HeaderLine() + "\n" + body + trailing
	return s
}

// Map is an ordered mapping of section key to section, in document order.
// The zero value is an empty map ready to use.
type Map struct {
	keys     []string
	sections map[string]Section
}

// Keys returns the section keys in order.
func (m *Map) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of sections.
func (m *Map) Len() int {
	return len(m.keys)
}

// Get returns the section stored under key.
func (m *Map) Get(key string) (Section, bool) {
	s, ok := m.sections[key]
	return s, ok
}

// Sections returns the sections in order.
func (m *Map) Sections() []Section {
	out := make([]Section, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.sections[k])
	}
	return out
}

// Set stores a section under its key. An existing key keeps its position; a
// new key is appended at the end.
func (m *Map) Set(s Section) {
	if m.sections == nil {
		m.sections = make(map[string]Section)
	}
	if _, ok := m.sections[s.Key]; !ok {
		m.keys = append(m.keys, s.Key)
	}
	m.sections[s.Key] = s
}

// First returns the first section with the given name.
func (m *Map) First(name string) (Section, bool) {
	for _, k := range m.keys {
		if s := m.sections[k]; s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

type hit struct {
	start int
	name  string
}

// Parse segments text into sections. Text before the first header becomes the
// Header section; when no header matches, the whole text is the Header
// section. A repeated header name gets its occurrence number as a key suffix
// (EXPERIENCE_2).
//
// Each segment excludes the line break that precedes the next header, so
// Reconstruct(Parse(t)) == t for every t.
func Parse(text string) *Map {
	var hits []hit
	for _, h := range registry {
		for _, loc := range h.pattern.FindAllStringIndex(text, -1) {
			hits = append(hits, hit{start: loc[0], name: h.name})
		}
	}

	m := &Map{}
	if len(hits) == 0 {
		m.Set(Section{Key: Header, Name: Header, Text: text})
		return m
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].start < hits[j].start })

	if hits[0].start > 0 {
		// A header match always begins a line, so the byte before it is '\n'.
		m.Set(Section{Key: Header, Name: Header, Text: text[:hits[0].start-1]})
	}

	seen := make(map[string]int)
	for i, h := range hits {
		end := len(text)
		if i+1 < len(hits) {
			end = hits[i+1].start - 1
		}

		seen[h.name]++
		key := h.name
		if n := seen[h.name]; n > 1 {
			key = fmt.Sprintf("%s_%d", h.name, n)
		}
		m.Set(Section{Key: key, Name: h.name, Text: text[h.start:end]})
	}

	return m
}

// Reconstruct joins the sections in order with newlines.
func Reconstruct(m *Map) string {
	parts := make([]string, 0, m.Len())
	for _, s := range m.Sections() {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, "\n")
}
