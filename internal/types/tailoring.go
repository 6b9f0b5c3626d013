// Package types provides type definitions for structured data used throughout the ats-tailor system.
package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validator.Validate caches struct metadata and is safe for concurrent use.
var validate = validator.New()

// TailorInput is one résumé/job pair submitted for tailoring.
type TailorInput struct {
	ID         string `json:"id,omitempty" validate:"omitempty,max=128"`
	ResumeText string `json:"resume_text" validate:"required"`
	JobText    string `json:"job_text" validate:"required"`
}

// Validate checks that both texts are present and not blank.
func (in *TailorInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return formatValidationError(err)
	}
	if strings.TrimSpace(in.ResumeText) == "" {
		return fmt.Errorf("resume_text: must not be blank")
	}
	if strings.TrimSpace(in.JobText) == "" {
		return fmt.Errorf("job_text: must not be blank")
	}
	return nil
}

// BatchEntry points at the files of one pair in a batch manifest.
type BatchEntry struct {
	ID         string `json:"id" validate:"required,max=128"`
	ResumePath string `json:"resume_path" validate:"required"`
	JobPath    string `json:"job_path" validate:"required"`
}

// BatchManifest lists the pairs of a batch run.
type BatchManifest struct {
	Entries []BatchEntry `json:"entries" validate:"required,min=1,dive"`
}

// Validate checks every entry and rejects duplicate IDs, since IDs name output files.
func (m *BatchManifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		return formatValidationError(err)
	}
	seen := make(map[string]bool, len(m.Entries))
	for _, e := range m.Entries {
		if seen[e.ID] {
			return fmt.Errorf("entries: duplicate id %q", e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

// formatValidationError flattens validator errors into "field: rule" messages.
func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed '%s' check", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid input: %s", strings.Join(msgs, "; "))
}
