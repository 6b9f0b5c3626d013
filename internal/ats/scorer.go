// Package ats computes the deterministic ATS match score between a job description and a résumé.
package ats

import (
	"math"

	"github.com/jonathan/ats-tailor/internal/skills"
)

// Weights of the overall score components.
const (
	WeightSkill      = 0.60
	WeightKeyword    = 0.25
	WeightExperience = 0.15
)

// KeywordTagger extracts normalized contextual keyword tokens (nouns, entities)
// from text.
type KeywordTagger interface {
	Keywords(text string) map[string]struct{}
}

// Breakdown is the scored result of one job/résumé comparison. All fields are in [0,100].
type Breakdown struct {
	Overall         float64 `json:"overall"`
	SkillMatch      float64 `json:"skill_match"`
	KeywordMatch    float64 `json:"keyword_match"`
	ExperienceMatch float64 `json:"experience_match"`
}

// Analysis is a Breakdown plus the skill sets it was computed from.
type Analysis struct {
	Breakdown     Breakdown `json:"breakdown"`
	JobSkills     []string  `json:"job_skills"`
	MatchedSkills []string  `json:"matched_skills"`
	MissingSkills []string  `json:"missing_skills"`
}

// Scorer computes ATS scores. It holds only read-only collaborators and is
// safe for concurrent use when its tagger is.
type Scorer struct {
	catalog *skills.Catalog
	tagger  KeywordTagger
}

// NewScorer creates a Scorer. A nil catalog uses the embedded default; a nil
// tagger makes keyword_match always 0.
func NewScorer(catalog *skills.Catalog, tagger KeywordTagger) *Scorer {
	if catalog == nil {
		catalog = skills.Default()
	}
	return &Scorer{catalog: catalog, tagger: tagger}
}

// Score returns the weighted breakdown. It never fails: empty or degenerate
// inputs fall back to the documented component defaults.
func (s *Scorer) Score(jobText, resumeText string) Breakdown {
	return s.Analyze(jobText, resumeText).Breakdown
}

// Analyze scores the pair and reports which job skills the résumé matches.
func (s *Scorer) Analyze(jobText, resumeText string) Analysis {
	jobSkills := skills.Flatten(s.catalog.Extract(jobText))
	resumeSkills := skills.Flatten(s.catalog.Extract(resumeText))
	matched := jobSkills.Intersect(resumeSkills)

	skillScore := 100.0
	if len(jobSkills) > 0 {
		skillScore = 100 * float64(len(matched)) / float64(len(jobSkills))
	}

	keywordScore := s.keywordScore(jobText, resumeText)
	experienceScore := ExperienceScore(jobText, resumeText)

	overall := WeightSkill*skillScore + WeightKeyword*keywordScore + WeightExperience*experienceScore

	return Analysis{
		Breakdown: Breakdown{
			Overall:         clamp(round1(overall)),
			SkillMatch:      clamp(round1(skillScore)),
			KeywordMatch:    clamp(round1(keywordScore)),
			ExperienceMatch: clamp(round1(experienceScore)),
		},
		JobSkills:     jobSkills.Sorted(),
		MatchedSkills: matched.Sorted(),
		MissingSkills: jobSkills.Difference(resumeSkills).Sorted(),
	}
}

// keywordScore defaults to 0 when the job yields no keywords, unlike the skill
// component which defaults to 100 when the job names no catalog skill.
func (s *Scorer) keywordScore(jobText, resumeText string) float64 {
	if s.tagger == nil {
		return 0
	}

	jobKeywords := s.tagger.Keywords(jobText)
	if len(jobKeywords) == 0 {
		return 0
	}
	resumeKeywords := s.tagger.Keywords(resumeText)

	hits := 0
	for kw := range jobKeywords {
		if _, ok := resumeKeywords[kw]; ok {
			hits++
		}
	}
	return 100 * float64(hits) / float64(len(jobKeywords))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
