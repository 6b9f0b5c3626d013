// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/ats-tailor/internal/ats"
	"github.com/jonathan/ats-tailor/internal/sections"
	"github.com/jonathan/ats-tailor/internal/tailoring"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most width runes, ending in "..." when cut.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// PrintAnalysis outputs the score breakdown and the matched and missing skills.
func (p *Printer) PrintAnalysis(analysis *ats.Analysis) {
	if analysis == nil {
		return
	}

	b := analysis.Breakdown
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:     %5.1f\n", b.Overall))
	sb.WriteString(fmt.Sprintf("Skills:      %5.1f  (x%.2f)\n", b.SkillMatch, ats.WeightSkill))
	sb.WriteString(fmt.Sprintf("Keywords:    %5.1f  (x%.2f)\n", b.KeywordMatch, ats.WeightKeyword))
	sb.WriteString(fmt.Sprintf("Experience:  %5.1f  (x%.2f)\n", b.ExperienceMatch, ats.WeightExperience))
	sb.WriteString("\n")
	writeList(&sb, "Matched", analysis.MatchedSkills)
	writeList(&sb, "Missing", analysis.MissingSkills)

	p.printBox("ATS SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintHybrid outputs the keyword/semantic hybrid score.
func (p *Printer) PrintHybrid(score *ats.HybridScore) {
	if score == nil {
		return
	}
	content := fmt.Sprintf("Overall:   %6.2f\nKeywords:  %6.2f  (x%.1f)\nSemantic:  %6.2f  (x%.1f)",
		score.Overall, score.KeywordScore, ats.HybridWeightKeyword, score.SemanticScore, ats.HybridWeightSemantic)
	p.printBox("HYBRID SCORE", content)
}

// PrintSections outputs the parsed section keys with their header lines.
func (p *Printer) PrintSections(doc *sections.Map) {
	if doc == nil || doc.Len() == 0 {
		return
	}

	var sb strings.Builder
	for _, s := range doc.Sections() {
		marker := " "
		if sections.IsTailorable(s.Name) {
			marker = "*"
		}
		header := strings.TrimSpace(s.HeaderLine())
		if header == "" {
			header = "(leading text)"
		}
		lines := 0
		if body := strings.TrimSpace(s.Body()); body != "" {
			lines = strings.Count(body, "\n") + 1
		}
		sb.WriteString(fmt.Sprintf("%s %-14s %-26s %3d lines\n", marker, s.Key, truncate(header, 26), lines))
	}
	sb.WriteString("\n* tailorable")

	p.printBox(fmt.Sprintf("SECTIONS (%d)", doc.Len()), sb.String())
}

// PrintChangeSummary outputs the change entries, injected edits first marked with "+".
func (p *Printer) PrintChangeSummary(result *tailoring.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ATS score: %.1f → %.1f (%+.1f)\n",
		result.ATSScoreBefore, result.ATSScoreAfter, result.ATSScoreAfter-result.ATSScoreBefore))
	sb.WriteString(fmt.Sprintf("Changes:   %d\n", len(result.ChangeSummary)))

	for _, entry := range result.ChangeSummary {
		marker := "-"
		if entry.Injected {
			marker = "+"
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s [%s] %s\n", marker, entry.SectionName, entry.Skill))
		sb.WriteString(fmt.Sprintf("    %s", entry.Reason))
		if entry.AfterText != "" {
			sb.WriteString(fmt.Sprintf("\n    → %s", entry.AfterText))
		}
	}

	p.printBox("CHANGE SUMMARY", sb.String())
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		sb.WriteString(fmt.Sprintf("%s: none\n", label))
		return
	}
	sb.WriteString(fmt.Sprintf("%s (%d):\n", label, len(items)))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}
