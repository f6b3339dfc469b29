package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/yigit/placement/internal/app/models"
)

// Eligibility reasons
const (
	ReasonCGPABelowMinimum  = "CGPA below minimum"
	ReasonBranchNotEligible = "Branch not eligible"
	ReasonYearNotEligible   = "Year not eligible"
)

// EvaluateEligibility checks a student profile against drive criteria.
// Empty criteria dimensions impose no restriction.
func EvaluateEligibility(profile models.StudentProfile, criteria models.EligibilityCriteria) models.EligibilityResult {
	reasons := make([]string, 0, 3)

	if criteria.MinCGPA != nil && SanitizeCGPA(profile.CGPA) < *criteria.MinCGPA {
		reasons = append(reasons, ReasonCGPABelowMinimum)
	}

	if len(criteria.Branches) > 0 && !containsBranch(criteria.Branches, profile.Branch) {
		reasons = append(reasons, ReasonBranchNotEligible)
	}

	if len(criteria.Years) > 0 && !containsYear(criteria.Years, profile.Year) {
		reasons = append(reasons, ReasonYearNotEligible)
	}

	return models.EligibilityResult{
		Eligible: len(reasons) == 0,
		Reasons:  reasons,
	}
}

// SanitizeCGPA maps malformed values (NaN, infinities, negatives) to 0.
func SanitizeCGPA(cgpa float64) float64 {
	if math.IsNaN(cgpa) || math.IsInf(cgpa, 0) || cgpa < 0 {
		return 0
	}
	return cgpa
}

// ParseCGPA parses a CGPA from free text. Unparsable input yields 0.
func ParseCGPA(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return SanitizeCGPA(v)
}

func containsBranch(branches []models.Branch, branch models.Branch) bool {
	target := branch.Normalize()
	for _, b := range branches {
		if b.Normalize() == target {
			return true
		}
	}
	return false
}

func containsYear(years []models.Year, year models.Year) bool {
	for _, y := range years {
		if y == year {
			return true
		}
	}
	return false
}
