// Package sections splits résumé text into named, ordered sections and
// reassembles them without loss.
package sections

import (
	"regexp"
	"strings"
)

// Section names recognised by the parser. Header holds text that precedes the
// first recognised header line.
const (
	Header         = "HEADER"
	Summary        = "SUMMARY"
	Experience     = "EXPERIENCE"
	Skills         = "SKILLS"
	Education      = "EDUCATION"
	Projects       = "PROJECTS"
	Certifications = "CERTIFICATIONS"
)

type headerPattern struct {
	name    string
	pattern *regexp.Regexp
}

// registry lists the header synonyms per section. A line is a header only when
// the whole line, ignoring surrounding blanks, is one of the synonyms. Beyond
// exact synonym lines, a trailing colon ("Skills:") and any run of blanks
// between words ("WORK   EXPERIENCE") are also accepted.
var registry = []headerPattern{
	newHeaderPattern(Summary, "SUMMARY", "PROFESSIONAL SUMMARY", "OBJECTIVE", "PROFILE", "ABOUT ME"),
	newHeaderPattern(Experience, "EXPERIENCE", "WORK EXPERIENCE", "PROFESSIONAL EXPERIENCE", "EMPLOYMENT HISTORY", "WORK HISTORY"),
	newHeaderPattern(Skills, "SKILLS", "TECHNICAL SKILLS", "CORE COMPETENCIES", "KEY SKILLS", "TECHNOLOGIES", "TECH STACK"),
	newHeaderPattern(Education, "EDUCATION", "ACADEMIC BACKGROUND", "QUALIFICATIONS"),
	newHeaderPattern(Projects, "PROJECTS", "PERSONAL PROJECTS", "KEY PROJECTS", "NOTABLE PROJECTS"),
	newHeaderPattern(Certifications, "CERTIFICATIONS", "CERTIFICATES", "LICENSES"),
}

func newHeaderPattern(name string, synonyms ...string) headerPattern {
	quoted := make([]string, len(synonyms))
	for i, s := range synonyms {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(s), " ", `[ \t]+`)
	}
	// [ \t\r] instead of \s so a match never spans a line break.
	expr := `(?im)^[ \t]*(?:` + strings.Join(quoted, "|") + `)[ \t]*:?[ \t\r]*$`
	return headerPattern{name: name, pattern: regexp.MustCompile(expr)}
}

var tailorable = map[string]bool{
	Experience: true,
	Summary:    true,
	Projects:   true,
	Skills:     true,
}

// IsTailorable reports whether sections with this name may be edited. All
// other sections pass through unchanged.
func IsTailorable(name string) bool {
	return tailorable[name]
}

// HeaderName reports the section a single line introduces, if any.
func HeaderName(line string) (string, bool) {
	for _, h := range registry {
		if h.pattern.MatchString(line) {
			return h.name, true
		}
	}
	return "", false
}

// Names returns the recognised section names in registry order.
func Names() []string {
	out := make([]string, len(registry))
	for i, h := range registry {
		out[i] = h.name
	}
	return out
}
