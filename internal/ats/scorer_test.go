package ats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// wordTagger treats every lowercase whitespace-separated word as a keyword.
type wordTagger struct{}

func (wordTagger) Keywords(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		out[strings.Trim(w, ",.")] = struct{}{}
	}
	return out
}

func TestScore_SeniorScenario(t *testing.T) {
	scorer := NewScorer(nil, wordTagger{})

	b := scorer.Score("5+ years Python, Docker required", "Senior Python Developer, Docker expert")

	assert.Equal(t, 100.0, b.SkillMatch)
	assert.Equal(t, 100.0, b.ExperienceMatch)
}

func TestScore_Weighting(t *testing.T) {
	scorer := NewScorer(nil, wordTagger{})

	// job keywords: python, docker, kubernetes, required (4); résumé shares python, docker
	b := scorer.Score("Python Docker Kubernetes required", "Python Docker")

	assert.InDelta(t, 66.7, b.SkillMatch, 0.001)
	assert.Equal(t, 50.0, b.KeywordMatch)
	assert.Equal(t, 100.0, b.ExperienceMatch)
	assert.InDelta(t, 67.5, b.Overall, 0.001) // 0.6*66.67 + 0.25*50 + 0.15*100 = 67.5
}

func TestScore_EmptyInputs(t *testing.T) {
	scorer := NewScorer(nil, wordTagger{})

	b := scorer.Score("", "")

	assert.Equal(t, 100.0, b.SkillMatch)
	assert.Equal(t, 0.0, b.KeywordMatch)
	assert.Equal(t, 100.0, b.ExperienceMatch)
	assert.Equal(t, 75.0, b.Overall)
}

func TestScore_NilTagger(t *testing.T) {
	b := NewScorer(nil, nil).Score("Python and Go", "Go")

	assert.Equal(t, 0.0, b.KeywordMatch)
	assert.Equal(t, 50.0, b.SkillMatch)
}

func TestScore_AlwaysInRange(t *testing.T) {
	scorer := NewScorer(nil, wordTagger{})
	inputs := []string{
		"",
		" ",
		"10+ years of C++ and Rust, staff level",
		"Senior architect, Kubernetes, AWS, Terraform",
		strings.Repeat("Python ", 500),
		"99999999999999999999 years",
	}

	for _, job := range inputs {
		for _, resume := range inputs {
			b := scorer.Score(job, resume)
			for _, v := range []float64{b.Overall, b.SkillMatch, b.KeywordMatch, b.ExperienceMatch} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 100.0)
			}
		}
	}
}

func TestAnalyze_SkillLists(t *testing.T) {
	a := NewScorer(nil, nil).Analyze("Go, Kubernetes, Docker and Redis", "Go and Docker in production")

	assert.Equal(t, []string{"Docker", "Go", "Kubernetes", "Redis"}, a.JobSkills)
	assert.Equal(t, []string{"Docker", "Go"}, a.MatchedSkills)
	assert.Equal(t, []string{"Kubernetes", "Redis"}, a.MissingSkills)
	assert.Equal(t, 50.0, a.Breakdown.SkillMatch)
}
