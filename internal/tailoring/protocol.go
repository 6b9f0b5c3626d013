package tailoring

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/jonathan/ats-tailor/internal/llm"
)

// Response markers of the two-shot prompt contract.
const (
	markerNoSafeChanges = "NO_SAFE_CHANGES_POSSIBLE"
	markerFailure       = "FAILURE_REASON"
	markerChangeSummary = "Change Summary:"
	markerChangesMade   = "Changes Made:"
	markerSkills        = "Skills Addressed:"
)

// defaultFailureReason is reported when a failed shot 2 gives no reason bullets.
const defaultFailureReason = "No safe changes possible (no further detail provided)"

// OutcomeKind discriminates the decoded AI response.
type OutcomeKind int

const (
	// OutcomeNoop means the response proposed no change: the sentinel, an
	// unparseable reply, or a body identical to the input.
	OutcomeNoop OutcomeKind = iota
	// OutcomeSuccess carries a changed section body.
	OutcomeSuccess
	// OutcomeFailure carries the reasons the model gave for not changing anything.
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "noop"
	}
}

// Outcome is a raw AI response decoded once into a typed variant.
type Outcome struct {
	Kind    OutcomeKind
	Text    string
	Bullets []string
	Skills  []string
	Reasons []string
}

var (
	optimizedSectionPattern = regexp.MustCompile(`(?s)Optimized Section:\s*"""\s*(.*?)\s*"""`)
	sanitizer               = bluemonday.StrictPolicy()
)

// DecodeShot1 decodes a first-shot response. Anything other than a changed
// body is a no-op, whatever the response claims.
func DecodeShot1(raw, original string) Outcome {
	raw = llm.StripCodeFence(raw)
	if strings.HasPrefix(raw, markerNoSafeChanges) {
		return Outcome{Kind: OutcomeNoop}
	}

	text, rest, ok := optimizedBody(raw, original)
	if !ok {
		return Outcome{Kind: OutcomeNoop}
	}

	return Outcome{
		Kind:    OutcomeSuccess,
		Text:    text,
		Bullets: bulletsAfter(rest, markerChangeSummary),
	}
}

// DecodeShot2 decodes a second-shot response. A disguised no-op is a failure.
func DecodeShot2(raw, original string) Outcome {
	raw = llm.StripCodeFence(raw)
	if !strings.HasPrefix(raw, markerFailure) {
		if text, rest, ok := optimizedBody(raw, original); ok {
			return Outcome{
				Kind:    OutcomeSuccess,
				Text:    text,
				Bullets: bulletsAfter(rest, markerChangesMade),
				Skills:  bulletsAfter(rest, markerSkills),
			}
		}
	}

	reasons := bulletsAfter(raw, markerFailure+":")
	if len(reasons) == 0 {
		reasons = []string{defaultFailureReason}
	}
	return Outcome{Kind: OutcomeFailure, Reasons: reasons}
}

// optimizedBody extracts and sanitizes the optimized section body. It reports
// false when no body is present or the body matches the original after
// trimming. rest is the response text after the body.
func optimizedBody(raw, original string) (text, rest string, ok bool) {
	loc := optimizedSectionPattern.FindStringSubmatchIndex(raw)
	if loc == nil {
		return "", "", false
	}

	body := strings.TrimSpace(raw[loc[2]:loc[3]])
	want := strings.TrimSpace(original)
	if body == "" || body == want {
		return "", "", false
	}

	clean := sanitize(body)
	if clean == "" || clean == want {
		return "", "", false
	}
	return clean, raw[loc[1]:], true
}

// bulletsAfter returns the "-" bullet lines that directly follow marker.
// Blank lines before the first bullet are skipped; the first other line ends
// the list.
func bulletsAfter(text, marker string) []string {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return nil
	}

	var bullets []string
	for _, line := range strings.Split(text[idx+len(marker):], "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(bullets) == 0 {
				continue
			}
			break
		}
		if !strings.HasPrefix(trimmed, "-") {
			break
		}
		if b := sanitize(strings.TrimLeft(trimmed, "- ")); b != "" {
			bullets = append(bullets, b)
		}
	}
	return bullets
}

// sanitize strips markup from model output and restores plain-text entities.
func sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(s)))
}
