// internal/app/system/eligibility/scorer.go
package eligibility

import (
	"math"
	"strings"

	"github.com/dalemusser/careerhub/internal/domain/models"
)

// Tier is the qualification band a score falls into.
type Tier string

const (
	TierQualifiedForInterview Tier = "Qualified for Interview"
	TierPartiallyQualified    Tier = "Partially Qualified"
	TierNotQualified          Tier = "Not Qualified"
)

// Score weights.
const (
	pointsGPA       = 40
	pointsSkills    = 30
	pointsPerCert   = 5
	maxCertPoints   = 15
	pointsPerYear   = 5
	maxYearPoints   = 15
	interviewCutoff = 75
	partialCutoff   = 50
)

// Evaluation is a company-facing view of one applicant against one job.
type Evaluation struct {
	Score int  `json:"score"`
	Tier  Tier `json:"tier"`
}

// Qualifies is the binary gate a student must pass to apply for a job.
func Qualifies(job models.Job, student models.User) bool {
	if student.GPA.Or(0) < job.MinGPA.Or(models.DefaultJobMinGPA) {
		return false
	}
	if student.ExperienceYears.Or(0) < job.MinExperience.Or(0) {
		return false
	}
	return SkillsMatch(job.RequiredSkills, student.Skills)
}

// Score computes the 0..100 weighted score of an applicant.
// It is recomputed on demand and never stored.
func Score(job models.Job, applicant models.User) int {
	total := 0.0

	if applicant.GPA.Or(0) >= job.MinGPA.Or(models.DefaultJobMinGPA) {
		total += pointsGPA
	}
	if SkillsMatch(job.RequiredSkills, applicant.Skills) {
		total += pointsSkills
	}

	total += math.Min(float64(len(applicant.Certificates)*pointsPerCert), maxCertPoints)

	exp := applicant.ExperienceYears.Or(0)
	if exp >= job.MinExperience.Or(0) {
		total += math.Min(exp*pointsPerYear, maxYearPoints)
	}

	return int(total)
}

// TierFor maps a score to its band.
func TierFor(score int) Tier {
	switch {
	case score >= interviewCutoff:
		return TierQualifiedForInterview
	case score >= partialCutoff:
		return TierPartiallyQualified
	default:
		return TierNotQualified
	}
}

// Evaluate scores an applicant and assigns the tier.
func Evaluate(job models.Job, applicant models.User) Evaluation {
	s := Score(job, applicant)
	return Evaluation{Score: s, Tier: TierFor(s)}
}

// SkillsMatch reports whether any required skill appears, case-insensitively,
// as a substring of the free-text skills. No required skills always matches.
func SkillsMatch(required []string, skills string) bool {
	lower := strings.ToLower(skills)
	hasRequired := false
	for _, s := range required {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		hasRequired = true
		if strings.Contains(lower, s) {
			return true
		}
	}
	return !hasRequired
}

// ParseRequiredSkills splits a comma-separated list into trimmed,
// lower-cased skills with empty entries removed.
func ParseRequiredSkills(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
