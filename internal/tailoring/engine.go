// Package tailoring edits a résumé towards a job description: a two-shot AI
// rewrite per tailorable section, a deterministic rule-based fallback, and an
// ordered audit trail of every change.
package tailoring

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/ats-tailor/internal/ats"
	"github.com/jonathan/ats-tailor/internal/llm"
	"github.com/jonathan/ats-tailor/internal/sections"
	"github.com/jonathan/ats-tailor/internal/skills"
)

// Defaults of Options.
const (
	DefaultTimeout             = 30 * time.Second
	DefaultShot1Temperature    = 0.2
	DefaultShot2Temperature    = 0.4
	DefaultJobDescriptionLimit = 1500
)

// newSkillsKey is the key of a skills section created by the fallback.
const newSkillsKey = "SKILLS_NEW"

// Scorer rescores the tailored text.
type Scorer interface {
	Score(jobText, resumeText string) ats.Breakdown
}

// Options configures an Engine. A nil Generator disables the AI pass.
type Options struct {
	Generator           llm.Generator
	Scorer              Scorer
	Catalog             *skills.Catalog
	Logger              *zap.Logger
	Timeout             time.Duration
	Shot1Temperature    float32
	Shot2Temperature    float32
	JobDescriptionLimit int
}

// Input is one résumé/job pair plus the skill analysis computed before tailoring.
type Input struct {
	ResumeText    string
	JobText       string
	MatchedSkills []string
	MissingSkills []string // injected verbatim; blanks and exact duplicates are dropped
	ScoreBefore   float64
}

// Result is the outcome of one tailoring run.
type Result struct {
	TailoredText   string        `json:"tailored_text"`
	ChangeSummary  []ChangeEntry `json:"change_summary"`
	ATSScoreBefore float64       `json:"ats_score_before"`
	ATSScoreAfter  float64       `json:"ats_score_after"`
}

// Engine tailors résumés. It holds no per-run state and is safe for
// concurrent use when its generator and scorer are.
type Engine struct {
	optimizer *Optimizer
	scorer    Scorer
	catalog   *skills.Catalog
	logger    *zap.Logger
}

// New creates an Engine. Without a Scorer the catalog-only ATS scorer is used,
// which reports keyword_match as 0.
func New(opts Options) *Engine {
	if opts.Catalog == nil {
		opts.Catalog = skills.Default()
	}
	if opts.Scorer == nil {
		opts.Scorer = ats.NewScorer(opts.Catalog, nil)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Shot1Temperature == 0 {
		opts.Shot1Temperature = DefaultShot1Temperature
	}
	if opts.Shot2Temperature == 0 {
		opts.Shot2Temperature = DefaultShot2Temperature
	}
	if opts.JobDescriptionLimit <= 0 {
		opts.JobDescriptionLimit = DefaultJobDescriptionLimit
	}

	e := &Engine{scorer: opts.Scorer, catalog: opts.Catalog, logger: opts.Logger}
	if opts.Generator != nil {
		e.optimizer = &Optimizer{
			generator:        opts.Generator,
			timeout:          opts.Timeout,
			shot1Temperature: opts.Shot1Temperature,
			shot2Temperature: opts.Shot2Temperature,
			jobLimit:         opts.JobDescriptionLimit,
			logger:           opts.Logger,
		}
	}
	return e
}

// AIEnabled reports whether the engine has a generation backend.
func (e *Engine) AIEnabled() bool {
	return e.optimizer != nil
}

// Tailor runs the full pipeline for one pair. AI failures only degrade the
// result; the returned error is always a *PipelineError from the final
// reconstruction or rescoring.
func (e *Engine) Tailor(ctx context.Context, in Input) (*Result, error) {
	doc := sections.Parse(in.ResumeText)
	missing := cleanSkills(in.MissingSkills)
	var changes ChangeSummaryBuilder

	e.logger.Debug("parsed résumé",
		zap.Strings("sections", doc.Keys()),
		zap.Int("missing_skills", len(missing)),
		zap.Bool("ai_enabled", e.AIEnabled()))

	aiHandled := e.aiPass(ctx, doc, in, missing, &changes)

	var injected []string
	if !aiHandled[sections.Experience] {
		injected = e.rulePass(doc, missing, &changes)
	}
	e.appendSkillsPass(doc, injected, &changes)

	tailored, after, err := e.finish(in.JobText, doc)
	if err != nil {
		e.logger.Error("tailoring failed", zap.Error(err))
		return nil, err
	}

	e.logger.Info("tailoring complete",
		zap.Float64("score_before", in.ScoreBefore),
		zap.Float64("score_after", after),
		zap.Int("changes", changes.Len()))

	return &Result{
		TailoredText:   tailored,
		ChangeSummary:  changes.Entries(),
		ATSScoreBefore: in.ScoreBefore,
		ATSScoreAfter:  after,
	}, nil
}

// aiPass runs the optimizer on every non-empty tailorable section except
// SKILLS and returns the names of the sections it rewrote.
func (e *Engine) aiPass(ctx context.Context, doc *sections.Map, in Input, missing []string, changes *ChangeSummaryBuilder) map[string]bool {
	handled := make(map[string]bool)

	for _, key := range doc.Keys() {
		sec, _ := doc.Get(key)
		if !sections.IsTailorable(sec.Name) || sec.Name == sections.Skills {
			continue
		}
		if strings.TrimSpace(sec.Body()) == "" {
			continue
		}

		res := e.optimizer.Optimize(ctx, SectionRequest{
			Key:            key,
			Body:           sec.Body(),
			JobDescription: in.JobText,
			MatchedSkills:  in.MatchedSkills,
			MissingSkills:  missing,
		})

		switch res.Outcome.Kind {
		case OutcomeSuccess:
			doc.Set(sec.WithBody(res.Outcome.Text))
			handled[sec.Name] = true
			for _, bullet := range res.Outcome.Bullets {
				changes.AIOptimized(sec.Name, bullet)
			}
			for _, skill := range res.Outcome.Skills {
				changes.AISkillAddressed(sec.Name, res.Shot, skill)
			}
		case OutcomeFailure:
			for _, reason := range res.Outcome.Reasons {
				changes.AIFailed(sec.Name, reason)
			}
		}
	}

	return handled
}

// rulePass injects missing skills into related EXPERIENCE lines and records a
// gap for every skill without one. It returns the injected skills in order.
func (e *Engine) rulePass(doc *sections.Map, missing []string, changes *ChangeSummaryBuilder) []string {
	exp, ok := doc.First(sections.Experience)
	if !ok {
		for _, skill := range missing {
			changes.SkillGap(skill, gapNoExperience)
		}
		return nil
	}

	var injected []string
	for _, skill := range missing {
		updated, before, after, found := injectSkill(e.catalog, skill, exp.Text)
		if !found {
			changes.SkillGap(skill, gapNoRelatedBullet)
			continue
		}
		exp.Text = updated
		injected = append(injected, skill)
		changes.RuleInjected(skill, before, after)
	}

	doc.Set(exp)
	return injected
}

// appendSkillsPass adds rule-injected skills to the first SKILLS section, or
// creates one, and records a single change entry.
func (e *Engine) appendSkillsPass(doc *sections.Map, injected []string, changes *ChangeSummaryBuilder) {
	if len(injected) == 0 {
		return
	}

	if sec, ok := doc.First(sections.Skills); ok {
		before := sec.Text
		sec.Text = appendSkills(sec.Text, injected)
		doc.Set(sec)
		changes.SkillsAppended(before, sec.Text, injected, false)
		return
	}

	block := sections.Skills + "\n" + strings.Join(injected, ", ") + "\n"
	doc.Set(sections.Section{Key: newSkillsKey, Name: sections.Skills, Text: block})
	changes.SkillsAppended("", block, injected, true)
}

// finish reconstructs the tailored text and rescores it. Any fault here is
// the terminal failure of the run.
func (e *Engine) finish(jobText string, doc *sections.Map) (text string, score float64, err error) {
	stage := "reconstruct"
	defer func() {
		if r := recover(); r != nil {
			err = &PipelineError{Stage: stage, Reason: fmt.Sprint(r)}
		}
	}()

	text = sections.Reconstruct(doc)

	stage = "rescore"
	b := e.scorer.Score(jobText, text)
	if math.IsNaN(b.Overall) || b.Overall < 0 || b.Overall > 100 {
		return "", 0, &PipelineError{Stage: stage, Reason: fmt.Sprintf("score %v out of range", b.Overall)}
	}
	return text, b.Overall, nil
}

// cleanSkills trims skill names and drops blanks and exact duplicates,
// keeping caller order. Names are never rewritten.
func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
