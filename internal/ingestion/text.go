// Package ingestion reads résumé and job description documents into clean text.
package ingestion

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/ats-tailor/internal/sections"
)

// bulletGlyphs open a bullet whether or not a blank follows.
var bulletGlyphs = []string{"•", "·", "▪", "‣", "◦", "●", "■", "➢", "►"}

// dashBullets open a bullet only when a blank follows, so "-5%" or "*nix"
// stay as written.
var dashBullets = []string{"-", "*", "–", "—"}

var invisible = strings.NewReplacer(
	"\ufeff", "", // byte order mark
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\u00ad", "", // soft hyphen
)

// CleanText normalizes a résumé or job description before section parsing.
// Line endings become LF and invisible characters are dropped. Section header
// lines are kept as written apart from surrounding blanks; every other line has
// its blank runs collapsed, and bullet glyphs are rewritten to the "- " form
// the rule-based tailoring reads. Consecutive blank lines collapse to one.
func CleanText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = invisible.Replace(content)

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	prevBlank := true
	for _, line := range lines {
		cleaned := cleanLine(line)
		if cleaned == "" {
			if !prevBlank {
				out = append(out, "")
			}
			prevBlank = true
			continue
		}
		out = append(out, cleaned)
		prevBlank = false
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	if _, ok := sections.HeaderName(trimmed); ok {
		return trimmed
	}
	if body, ok := bulletBody(trimmed); ok {
		if body == "" {
			return ""
		}
		return "- " + collapseBlanks(body)
	}
	return collapseBlanks(trimmed)
}

// bulletBody returns the text after a leading bullet marker.
func bulletBody(line string) (string, bool) {
	for _, g := range bulletGlyphs {
		if rest, ok := strings.CutPrefix(line, g); ok {
			return strings.TrimSpace(rest), true
		}
	}
	for _, d := range dashBullets {
		rest, ok := strings.CutPrefix(line, d)
		if !ok || rest == "" {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(rest); unicode.IsSpace(r) {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

func collapseBlanks(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
