package schemas

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type change struct {
	SectionName string `json:"section_name"`
	BeforeText  string `json:"before_text"`
	AfterText   string `json:"after_text"`
	Reason      string `json:"reason"`
	Injected    bool   `json:"injected"`
	Skill       string `json:"skill"`
}

type result struct {
	TailoredText   string   `json:"tailored_text"`
	ChangeSummary  []change `json:"change_summary"`
	ATSScoreBefore float64  `json:"ats_score_before"`
	ATSScoreAfter  float64  `json:"ats_score_after"`
}

func validResult() result {
	return result{
		TailoredText: "EXPERIENCE\n- Deployed services, leveraging Kubernetes",
		ChangeSummary: []change{{
			SectionName: "Experience",
			BeforeText:  "- Deployed services",
			AfterText:   "- Deployed services, leveraging Kubernetes",
			Reason:      "Added 'Kubernetes' (required by JD): related context found; rule-based injection",
			Injected:    true,
			Skill:       "Kubernetes",
		}},
		ATSScoreBefore: 55.5,
		ATSScoreAfter:  72,
	}
}

func TestTailoringResultSchema_ValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(TailoringResultSchema()), &v))
	assert.Equal(t, "TailoringResult", v["title"])
}

func TestValidateResult_Valid(t *testing.T) {
	assert.NoError(t, ValidateResult(validResult()))

	empty := result{ChangeSummary: []change{}}
	assert.NoError(t, ValidateResult(empty))
}

func TestValidateResult_ScoreOutOfRange(t *testing.T) {
	r := validResult()
	r.ATSScoreAfter = 140

	err := ValidateResult(r)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "ats_score_after", validationErr.Errors[0].Field)
}

func TestValidateResult_NullChangeSummary(t *testing.T) {
	r := validResult()
	r.ChangeSummary = nil

	err := ValidateResult(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "change_summary")
}

func TestValidateResult_EmptyReason(t *testing.T) {
	r := validResult()
	r.ChangeSummary[0].Reason = ""

	var validationErr *ValidationError
	require.True(t, errors.As(ValidateResult(r), &validationErr))
	assert.Contains(t, validationErr.Errors[0].Field, "reason")
}

func TestValidateResultFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result.json")
	data, err := json.Marshal(validResult())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	assert.NoError(t, ValidateResultFile(path))

	err = ValidateResultFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "x"}`))

	err := ValidateJSONString(schema, `{"name": 5}`)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "name", validationErr.Errors[0].Field)

	err = ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}
