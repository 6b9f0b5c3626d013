package tailoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/ats-tailor/internal/llm"
	"github.com/jonathan/ats-tailor/internal/logger"
	"github.com/jonathan/ats-tailor/internal/prompts"
)

const promptFile = "tailoring.json"

// SectionRequest is the input of one section optimisation.
type SectionRequest struct {
	Key            string
	Body           string
	JobDescription string
	MatchedSkills  []string
	MissingSkills  []string
}

// SectionResult is the end state of one section optimisation.
type SectionResult struct {
	State   State
	Trail   []State
	Shot    int
	Outcome Outcome
	// Err is set when the backend was unavailable; it wraps ErrBackendUnavailable.
	Err error
}

// Optimizer drives the two-shot AI rewrite of a single section.
type Optimizer struct {
	generator        llm.Generator
	timeout          time.Duration
	shot1Temperature float32
	shot2Temperature float32
	jobLimit         int
	logger           *zap.Logger
}

// Optimize runs the state machine for one section. It never returns an
// error: backend failures end in StateRuleFallback with Err set.
func (o *Optimizer) Optimize(ctx context.Context, req SectionRequest) SectionResult {
	res := SectionResult{State: StateNotAttempted, Trail: []State{StateNotAttempted}}
	if o == nil || o.generator == nil {
		res.transition(StateRuleFallback)
		return res
	}

	log := o.logger.With(zap.String("section", req.Key))
	var outcome Outcome

	res.transition(StateShot1Pending)
	for !res.State.terminal() {
		switch res.State {
		case StateShot1Pending:
			raw, err := o.call(ctx, "shot1", req, o.shot1Temperature)
			if err != nil {
				res.Err = err
				res.transition(StateRuleFallback)
				break
			}
			outcome = DecodeShot1(raw, req.Body)
			if outcome.Kind == OutcomeSuccess {
				res.transition(StateShot1Success)
			} else {
				res.transition(StateShot1Noop)
			}

		case StateShot1Success:
			res.Outcome, res.Shot = outcome, 1
			res.transition(StateDone)

		case StateShot1Noop:
			res.transition(StateShot2Pending)

		case StateShot2Pending:
			raw, err := o.call(ctx, "shot2", req, o.shot2Temperature)
			if err != nil {
				res.Err = err
				res.transition(StateRuleFallback)
				break
			}
			outcome = DecodeShot2(raw, req.Body)
			if outcome.Kind == OutcomeSuccess {
				res.transition(StateShot2Success)
			} else {
				res.transition(StateShot2Failure)
			}

		case StateShot2Success:
			res.Outcome, res.Shot = outcome, 2
			res.transition(StateDone)

		case StateShot2Failure:
			res.Outcome = outcome
			res.transition(StateRuleFallback)

		default:
			res.Err = fmt.Errorf("unexpected optimizer state %s", res.State)
			res.transition(StateRuleFallback)
		}
		log.Debug("section state", zap.String("state", string(res.State)))
	}

	if res.Err != nil {
		log.Warn("AI backend unavailable, using rule-based fallback", zap.Error(res.Err))
	}
	return res
}

func (r *SectionResult) transition(next State) {
	r.State = next
	r.Trail = append(r.Trail, next)
}

// call issues one bounded generation request. Errors and panics from the
// backend are converted to an ErrBackendUnavailable error.
func (o *Optimizer) call(ctx context.Context, shot string, req SectionRequest, temperature float32) (raw string, err error) {
	system, err := prompts.Get(promptFile, shot+"-system")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	user, err := prompts.Render(promptFile, shot+"-user", o.promptData(req))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			raw, err = "", fmt.Errorf("%w: generator panic: %v", ErrBackendUnavailable, r)
		}
	}()

	o.logger.Debug("calling AI backend",
		zap.String("section", req.Key),
		zap.String("shot", shot),
		zap.Float32("temperature", temperature))

	raw, err = o.generator.Generate(callCtx, system, user, temperature)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: timed out after %s: %v", ErrBackendUnavailable, o.timeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	o.logger.Debug("AI backend response",
		zap.String("section", req.Key),
		zap.String("shot", shot),
		zap.String("raw", logger.TruncateForLog(raw, 200)))
	return raw, nil
}

func (o *Optimizer) promptData(req SectionRequest) map[string]string {
	return map[string]string{
		"Section":        strings.TrimSpace(req.Body),
		"JobDescription": truncateRunes(strings.TrimSpace(req.JobDescription), o.jobLimit),
		"MatchedSkills":  joinOrNone(req.MatchedSkills),
		"MissingSkills":  joinOrNone(req.MissingSkills),
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
