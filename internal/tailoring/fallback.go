package tailoring

import (
	"strings"

	"github.com/jonathan/ats-tailor/internal/skills"
)

// minBulletLength is the shortest trimmed line considered as injection context.
const minBulletLength = 10

const trailingPunct = ".,;:"

// Gap details of SkillGap entries.
const (
	gapNoRelatedBullet = "No related experience bullets found. Consider adding this skill if you genuinely have it."
	gapNoExperience    = "No experience section found in resume."
)

// findRelatedLine returns the index of the first line, from start on, that
// shares a context keyword with skill.
func findRelatedLine(catalog *skills.Catalog, skill string, lines []string, start int) (int, bool) {
	keywords := catalog.ContextKeywords(skill)
	if len(keywords) == 0 {
		return 0, false
	}

	for i := start; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < minBulletLength {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return i, true
			}
		}
	}
	return 0, false
}

// injectSkill rewrites the first related line of a named section in place;
// the header line is never considered. It returns the new text plus the
// trimmed line before and after the rewrite.
func injectSkill(catalog *skills.Catalog, skill, text string) (updated, before, after string, ok bool) {
	lines := strings.Split(text, "\n")
	idx, found := findRelatedLine(catalog, skill, lines, 1)
	if !found {
		return text, "", "", false
	}

	line := lines[idx]
	before = strings.TrimSpace(line)
	after = rephrase(before, skill)

	pos := strings.Index(line, before)
	lines[idx] = line[:pos] + after + line[pos+len(before):]
	return strings.Join(lines, "\n"), before, after, true
}

// rephrase appends the skill to a bullet with the fixed rule-based phrasing.
func rephrase(bullet, skill string) string {
	return strings.TrimRight(bullet, trailingPunct) + ", leveraging " + skill
}

// appendSkills adds skills as a comma-joined suffix to the last line of a
// skills section. A section with only a header gets a new line instead.
func appendSkills(text string, added []string) string {
	if len(added) == 0 {
		return text
	}
	joined := strings.Join(added, ", ")

	trimmed := strings.TrimRight(text, " \t\r\n")
	trailing := text[len(trimmed):]
	if trailing == "" {
		trailing = "\n"
	}

	idx := strings.LastIndex(trimmed, "\n")
	if idx < 0 {
		// header only
		return trimmed + "\n" + joined + trailing
	}
	last := strings.TrimRight(trimmed[idx+1:], trailingPunct)
	return trimmed[:idx+1] + last + ", " + joined + trailing
}
