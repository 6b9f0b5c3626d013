package tailoring

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-tailor/internal/ats"
	"github.com/jonathan/ats-tailor/internal/llm"
	"github.com/jonathan/ats-tailor/internal/skills"
)

const testResume = `Jane Doe
jane@example.com

SUMMARY
Backend engineer building APIs.

EXPERIENCE
- Deployed containerized services using Docker
- Wrote docs

SKILLS
Go, Docker.
`

const testJob = "Platform engineer: Kubernetes, Docker and Go. 5+ years required."

func testInput() Input {
	return Input{
		ResumeText:    testResume,
		JobText:       testJob,
		MatchedSkills: []string{"Docker", "Go"},
		MissingSkills: []string{"Kubernetes"},
		ScoreBefore:   61.5,
	}
}

func countSkill(entries []ChangeEntry, skill string) int {
	n := 0
	for _, e := range entries {
		if e.Skill == skill {
			n++
		}
	}
	return n
}

func TestTailor_RuleBasedWithoutAI(t *testing.T) {
	engine := New(Options{})
	require.False(t, engine.AIEnabled())

	res, err := engine.Tailor(context.Background(), testInput())
	require.NoError(t, err)

	assert.Contains(t, res.TailoredText, "- Deployed containerized services using Docker, leveraging Kubernetes\n")
	assert.Contains(t, res.TailoredText, "SKILLS\nGo, Docker, Kubernetes\n")
	assert.Equal(t, 61.5, res.ATSScoreBefore)

	require.Len(t, res.ChangeSummary, 2)
	assert.Equal(t, ChangeEntry{
		SectionName: "Experience",
		BeforeText:  "- Deployed containerized services using Docker",
		AfterText:   "- Deployed containerized services using Docker, leveraging Kubernetes",
		Reason:      "Added 'Kubernetes' (required by JD): related context found; rule-based injection",
		Injected:    true,
		Skill:       "Kubernetes",
	}, res.ChangeSummary[0])
	assert.Equal(t, SkillMultiple, res.ChangeSummary[1].Skill)
	assert.Equal(t, 1, countSkill(res.ChangeSummary, "Kubernetes"))
	assert.Zero(t, countSkill(res.ChangeSummary, SkillAIOptimized))
}

func TestTailor_ScoreAfterIsRescored(t *testing.T) {
	engine := New(Options{})
	res, err := engine.Tailor(context.Background(), testInput())
	require.NoError(t, err)

	expected := ats.NewScorer(nil, nil).Score(testJob, res.TailoredText).Overall
	assert.Equal(t, expected, res.ATSScoreAfter)
}

func TestTailor_SkillGapEntries(t *testing.T) {
	in := testInput()
	in.MissingSkills = []string{"Kubernetes", "Terraform", "  "}

	res, err := New(Options{}).Tailor(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, res.ChangeSummary, 3)
	assert.Equal(t, "Kubernetes", res.ChangeSummary[0].Skill)
	assert.Equal(t, "Skills Gap", res.ChangeSummary[1].SectionName)
	assert.Equal(t, "Terraform", res.ChangeSummary[1].Skill)
	assert.Contains(t, res.ChangeSummary[1].Reason, "No related experience bullets found")
	assert.Equal(t, "Appended injected keywords to Skills section: Kubernetes", res.ChangeSummary[2].Reason)
	assert.NotContains(t, res.TailoredText, "Terraform")
}

func TestTailor_InjectsCallerSkillNamesVerbatim(t *testing.T) {
	in := testInput()
	in.ResumeText = "EXPERIENCE\n- Deployed containerized services to a k8s cluster\n- Wrote Node services in golang\n\nSKILLS\nDocker\n"
	in.MissingSkills = []string{"k8s", "golang", "node", "k8s", " "}

	res, err := New(Options{}).Tailor(context.Background(), in)
	require.NoError(t, err)

	assert.Contains(t, res.TailoredText, "- Deployed containerized services to a k8s cluster, leveraging k8s\n")
	assert.Contains(t, res.TailoredText, "- Wrote Node services in golang, leveraging golang, leveraging node\n")
	assert.Contains(t, res.TailoredText, "SKILLS\nDocker, k8s, golang, node\n")

	allowed := map[string]bool{"k8s": true, "golang": true, "node": true}
	for _, line := range strings.Split(res.TailoredText, "\n") {
		parts := strings.Split(line, ", leveraging ")
		for _, skill := range parts[1:] {
			assert.True(t, allowed[skill], "unexpected injected skill %q", skill)
		}
	}
	for _, skill := range []string{"Kubernetes", "Go", "Node.js"} {
		assert.Zero(t, countSkill(res.ChangeSummary, skill))
	}
	assert.Equal(t, 1, countSkill(res.ChangeSummary, "k8s"))
}

func TestTailor_NoExperienceSection(t *testing.T) {
	in := testInput()
	in.ResumeText = "Jane Doe\n\nSKILLS\nGo"

	res, err := New(Options{}).Tailor(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, res.ChangeSummary, 1)
	assert.False(t, res.ChangeSummary[0].Injected)
	assert.Contains(t, res.ChangeSummary[0].Reason, "No experience section found in resume.")
	assert.Equal(t, in.ResumeText, res.TailoredText)
}

func TestTailor_CreatesSkillsSection(t *testing.T) {
	in := testInput()
	in.ResumeText = "EXPERIENCE\n- Deployed containerized services using Docker"

	res, err := New(Options{}).Tailor(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "EXPERIENCE\n- Deployed containerized services using Docker, leveraging Kubernetes\nSKILLS\nKubernetes\n", res.TailoredText)
	last := res.ChangeSummary[len(res.ChangeSummary)-1]
	assert.Equal(t, "Added new Skills section: Kubernetes", last.Reason)
}

func TestTailor_NoChangesRoundTrips(t *testing.T) {
	in := testInput()
	in.MissingSkills = nil

	res, err := New(Options{}).Tailor(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, testResume, res.TailoredText)
	assert.NotNil(t, res.ChangeSummary)
	assert.Empty(t, res.ChangeSummary)
}

func TestTailor_BlankSectionsSkipAI(t *testing.T) {
	in := testInput()
	in.ResumeText = "SUMMARY\n\nEXPERIENCE\n- Deployed containerized services using Docker\n"

	mock := llm.NewMockGenerator(
		llm.MockResponse{Text: "Optimized Section:\n\"\"\"\n- Deployed containerized Docker services\n\"\"\"\n\nChange Summary:\n- Reordered for keywords"},
	)
	res, err := New(Options{Generator: mock}).Tailor(context.Background(), in)
	require.NoError(t, err)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].UserPrompt, "- Deployed containerized services using Docker")
	assert.True(t, strings.HasPrefix(res.TailoredText, "SUMMARY\n\nEXPERIENCE\n- Deployed containerized Docker services"))
}

func TestTailor_Shot1EchoIssuesShot2(t *testing.T) {
	in := testInput()
	in.ResumeText = "EXPERIENCE\n- Deployed containerized services using Docker\n"

	mock := llm.NewMockGenerator(
		llm.MockResponse{Text: "Optimized Section:\n\"\"\"\n- Deployed containerized services using Docker\n\"\"\"\n\nChange Summary:\n- Improved"},
		llm.MockResponse{Text: "Optimized Section:\n\"\"\"\n- Deployed containerized services using Docker and Kubernetes\n\"\"\"\n\nChanges Made:\n- Added Kubernetes to deployment bullet\n\nSkills Addressed:\n- Kubernetes"},
	)
	res, err := New(Options{Generator: mock}).Tailor(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, mock.Calls(), 2)
	assert.Equal(t, "EXPERIENCE\n- Deployed containerized services using Docker and Kubernetes\n", res.TailoredText)
	assert.Equal(t, []ChangeEntry{
		{SectionName: "Experience", Reason: "Added Kubernetes to deployment bullet", Injected: true, Skill: SkillAIOptimized},
		{SectionName: "Experience", Reason: "Skill addressed by Shot 2 AI: Kubernetes", Injected: true, Skill: "Kubernetes"},
	}, res.ChangeSummary)
}

func TestTailor_AISuccessSkipsRulePass(t *testing.T) {
	mock := llm.NewMockGenerator(
		// SUMMARY, then EXPERIENCE; SKILLS is never sent
		llm.MockResponse{Text: "NO_SAFE_CHANGES_POSSIBLE"},
		llm.MockResponse{Text: "FAILURE_REASON:\n- Summary already aligned"},
		llm.MockResponse{Text: "Optimized Section:\n\"\"\"\n- Deployed containerized Docker services\n- Wrote docs\n\"\"\"\nChange Summary:\n- Reordered for keywords"},
	)
	res, err := New(Options{Generator: mock}).Tailor(context.Background(), testInput())
	require.NoError(t, err)

	assert.Len(t, mock.Calls(), 3)
	assert.Contains(t, res.TailoredText, "EXPERIENCE\n- Deployed containerized Docker services\n- Wrote docs\n\nSKILLS\nGo, Docker.\n")
	require.Len(t, res.ChangeSummary, 2)
	assert.Equal(t, "Summary (AI Failed)", res.ChangeSummary[0].SectionName)
	assert.Equal(t, "Summary already aligned", res.ChangeSummary[0].Reason)
	assert.Equal(t, SkillAIOptimized, res.ChangeSummary[1].Skill)
	assert.NotContains(t, res.TailoredText, "leveraging")
}

func TestTailor_AIFailureFallsBackToRules(t *testing.T) {
	mock := llm.NewMockGenerator(
		llm.MockResponse{Text: "NO_SAFE_CHANGES_POSSIBLE"},
		llm.MockResponse{Text: "FAILURE_REASON:\n- Nothing to add"},
		llm.MockResponse{Text: "NO_SAFE_CHANGES_POSSIBLE"},
		llm.MockResponse{Text: "FAILURE_REASON:\n- Kubernetes not implied\n- Docker already present"},
	)
	res, err := New(Options{Generator: mock}).Tailor(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, 3, countSkill(res.ChangeSummary, SkillAIFailed))
	assert.Equal(t, "Experience (AI Failed)", res.ChangeSummary[1].SectionName)
	assert.Equal(t, "Kubernetes", res.ChangeSummary[3].Skill)
	assert.True(t, res.ChangeSummary[3].Injected)
	assert.Contains(t, res.TailoredText, "leveraging Kubernetes")
}

func TestTailor_BackendOutageDegrades(t *testing.T) {
	mock := llm.NewMockGenerator(
		llm.MockResponse{Err: errors.New("401 unauthorized")},
		llm.MockResponse{Err: errors.New("401 unauthorized")},
	)
	res, err := New(Options{Generator: mock}).Tailor(context.Background(), testInput())
	require.NoError(t, err)

	assert.Len(t, mock.Calls(), 2)
	assert.Zero(t, countSkill(res.ChangeSummary, SkillAIFailed))
	assert.Zero(t, countSkill(res.ChangeSummary, SkillAIOptimized))
	assert.Contains(t, res.TailoredText, "leveraging Kubernetes")
}

func TestTailor_RuleFallbackOnlyAddsMissingSkills(t *testing.T) {
	catalog := skills.Default()
	inputs := []Input{
		testInput(),
		{ResumeText: testResume, JobText: testJob, MissingSkills: []string{"Redis", "AWS", "Kafka", "Helm"}},
		{ResumeText: "EXPERIENCE\n- Built cloud event pipelines with a message queue\n", MissingSkills: []string{"AWS", "Kafka"}},
	}

	for _, in := range inputs {
		res, err := New(Options{}).Tailor(context.Background(), in)
		require.NoError(t, err)

		before := skills.Flatten(catalog.Extract(in.ResumeText))
		after := skills.Flatten(catalog.Extract(res.TailoredText))
		allowed := skills.NewSet(in.MissingSkills...)
		for skill := range after.Difference(before) {
			assert.True(t, allowed.Contains(skill), "unexpected skill %q introduced", skill)
		}
	}
}

func TestTailor_Deterministic(t *testing.T) {
	engine := New(Options{})
	first, err := engine.Tailor(context.Background(), testInput())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := engine.Tailor(context.Background(), testInput())
			assert.NoError(t, err)
			assert.Equal(t, first, res)
		}()
	}
	wg.Wait()
}

type scorerFunc func(job, resume string) ats.Breakdown

func (f scorerFunc) Score(job, resume string) ats.Breakdown { return f(job, resume) }

func TestTailor_RescoreFaultIsTerminal(t *testing.T) {
	engine := New(Options{Scorer: scorerFunc(func(string, string) ats.Breakdown {
		panic("tagger crashed")
	})})

	res, err := engine.Tailor(context.Background(), testInput())

	assert.Nil(t, res)
	var pe *PipelineError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "rescore", pe.Stage)
	assert.Equal(t, "tagger crashed", pe.Reason)
	assert.Equal(t, "tailoring failed during rescore: tagger crashed", err.Error())
}

func TestTailor_OutOfRangeScoreIsTerminal(t *testing.T) {
	engine := New(Options{Scorer: scorerFunc(func(string, string) ats.Breakdown {
		return ats.Breakdown{Overall: math.NaN()}
	})})

	_, err := engine.Tailor(context.Background(), testInput())

	var pe *PipelineError
	require.True(t, errors.As(err, &pe))
	assert.True(t, strings.Contains(pe.Reason, "out of range"))
}
