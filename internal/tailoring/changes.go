package tailoring

import (
	"fmt"
	"strings"
)

// Skill values of change entries that do not name a single skill.
const (
	SkillAIOptimized = "ai-optimized"
	SkillAIFailed    = "ai-failed"
	SkillMultiple    = "multiple"
)

// ChangeEntry is one audit record of an edit or of an edit that was not made.
type ChangeEntry struct {
	SectionName string `json:"section_name"`
	BeforeText  string `json:"before_text"`
	AfterText   string `json:"after_text"`
	Reason      string `json:"reason"`
	Injected    bool   `json:"injected"`
	Skill       string `json:"skill"`
}

// ChangeSummaryBuilder accumulates change entries in append order. Entries are
// never reordered or removed.
type ChangeSummaryBuilder struct {
	entries []ChangeEntry
}

// Add appends an entry.
func (b *ChangeSummaryBuilder) Add(e ChangeEntry) {
	b.entries = append(b.entries, e)
}

// AIOptimized records one rationale bullet of a successful AI rewrite.
func (b *ChangeSummaryBuilder) AIOptimized(section, bullet string) {
	b.Add(ChangeEntry{SectionName: displayName(section), Reason: bullet, Injected: true, Skill: SkillAIOptimized})
}

// AISkillAddressed records a skill the model reports as addressed.
func (b *ChangeSummaryBuilder) AISkillAddressed(section string, shot int, skill string) {
	b.Add(ChangeEntry{
		SectionName: displayName(section),
		Reason:      fmt.Sprintf("Skill addressed by Shot %d AI: %s", shot, skill),
		Injected:    true,
		Skill:       skill,
	})
}

// AIFailed records one failure reason after both shots were exhausted.
func (b *ChangeSummaryBuilder) AIFailed(section, reason string) {
	b.Add(ChangeEntry{SectionName: displayName(section) + " (AI Failed)", Reason: reason, Skill: SkillAIFailed})
}

// RuleInjected records a rule-based keyword injection into an experience line.
func (b *ChangeSummaryBuilder) RuleInjected(skill, before, after string) {
	b.Add(ChangeEntry{
		SectionName: "Experience",
		BeforeText:  before,
		AfterText:   after,
		Reason:      fmt.Sprintf("Added '%s' (required by JD): related context found; rule-based injection", skill),
		Injected:    true,
		Skill:       skill,
	})
}

// SkillGap records a missing skill that was not injected.
func (b *ChangeSummaryBuilder) SkillGap(skill, detail string) {
	b.Add(ChangeEntry{
		SectionName: "Skills Gap",
		Reason:      fmt.Sprintf("Skill gap, not injected: '%s'. %s", skill, detail),
		Skill:       skill,
	})
}

// SkillsAppended records the single append to (or creation of) the skills section.
func (b *ChangeSummaryBuilder) SkillsAppended(before, after string, skills []string, created bool) {
	reason := "Appended injected keywords to Skills section: "
	if created {
		reason = "Added new Skills section: "
	}
	b.Add(ChangeEntry{
		SectionName: "Skills",
		BeforeText:  strings.TrimSpace(before),
		AfterText:   strings.TrimSpace(after),
		Reason:      reason + strings.Join(skills, ", "),
		Injected:    true,
		Skill:       SkillMultiple,
	})
}

// Len returns the number of entries.
func (b *ChangeSummaryBuilder) Len() int {
	return len(b.entries)
}

// Entries returns a copy of the entries in append order. It is never nil.
func (b *ChangeSummaryBuilder) Entries() []ChangeEntry {
	return append(make([]ChangeEntry, 0, len(b.entries)), b.entries...)
}

// displayName turns a section name into its label, e.g. EXPERIENCE -> Experience.
func displayName(section string) string {
	if section == "" {
		return ""
	}
	lower := strings.ToLower(section)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
