package ats

import (
	"regexp"
	"strconv"
	"strings"
)

// seniorThresholdYears is the requirement at which the résumé must show seniority.
const seniorThresholdYears = 5

// yearsPattern matches "5 years", "5+ years", "3-5 years" and "3 to 5 years".
var yearsPattern = regexp.MustCompile(`(\d+)\+?\s*[-to]*\s*(\d*)\s*(?:years?|yrs?)\b`)

// seniorityMarkers are matched as lowercase substrings of the résumé.
var seniorityMarkers = []string{"senior", "lead", "staff", "architect"}

// RequiredYears returns the largest year count mentioned in a job description,
// or 0 when none is found.
func RequiredYears(jobText string) int {
	maxYears := 0
	for _, m := range yearsPattern.FindAllStringSubmatch(strings.ToLower(jobText), -1) {
		for _, group := range m[1:] {
			if group == "" {
				continue
			}
			n, err := strconv.Atoi(group)
			if err != nil {
				continue
			}
			if n > maxYears {
				maxYears = n
			}
		}
	}
	return maxYears
}

// ExperienceScore applies the seniority heuristic: 100 when the job states no
// year requirement or asks for fewer than five years; otherwise 100 if the
// résumé carries a seniority marker and 50 if it does not.
func ExperienceScore(jobText, resumeText string) float64 {
	required := RequiredYears(jobText)
	if required == 0 || required < seniorThresholdYears {
		return 100
	}

	lower := strings.ToLower(resumeText)
	for _, marker := range seniorityMarkers {
		if strings.Contains(lower, marker) {
			return 100
		}
	}
	return 50
}
