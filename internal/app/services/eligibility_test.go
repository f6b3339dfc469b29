package services

import (
	"math"
	"reflect"
	"testing"

	"github.com/yigit/placement/internal/app/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestEvaluateEligibility(t *testing.T) {
	tests := []struct {
		name     string
		profile  models.StudentProfile
		criteria models.EligibilityCriteria
		eligible bool
		reasons  []string
	}{
		{
			name:     "cgpa below minimum",
			profile:  models.StudentProfile{CGPA: 7.2, Branch: "CSE", Year: 4},
			criteria: models.EligibilityCriteria{MinCGPA: floatPtr(7.5)},
			reasons:  []string{ReasonCGPABelowMinimum},
		},
		{
			name:     "cgpa equal to minimum",
			profile:  models.StudentProfile{CGPA: 7.5, Branch: "CSE", Year: 4},
			criteria: models.EligibilityCriteria{MinCGPA: floatPtr(7.5)},
			eligible: true,
		},
		{
			name:     "empty criteria",
			profile:  models.StudentProfile{CGPA: 0, Branch: "ME", Year: 1},
			eligible: true,
		},
		{
			name:     "branch matched case insensitively",
			profile:  models.StudentProfile{CGPA: 8, Branch: "cse ", Year: 3},
			criteria: models.EligibilityCriteria{Branches: []models.Branch{"CSE", "ECE"}},
			eligible: true,
		},
		{
			name:    "every dimension fails in order",
			profile: models.StudentProfile{CGPA: 6, Branch: "ME", Year: 2},
			criteria: models.EligibilityCriteria{
				MinCGPA:  floatPtr(7),
				Branches: []models.Branch{"CSE"},
				Years:    []models.Year{4},
			},
			reasons: []string{ReasonCGPABelowMinimum, ReasonBranchNotEligible, ReasonYearNotEligible},
		},
		{
			name:     "nan cgpa treated as zero",
			profile:  models.StudentProfile{CGPA: math.NaN(), Branch: "CSE", Year: 4},
			criteria: models.EligibilityCriteria{MinCGPA: floatPtr(0.5)},
			reasons:  []string{ReasonCGPABelowMinimum},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateEligibility(tt.profile, tt.criteria)
			if got.Eligible != tt.eligible {
				t.Fatalf("eligible = %v, want %v", got.Eligible, tt.eligible)
			}
			if tt.reasons == nil {
				if len(got.Reasons) != 0 {
					t.Fatalf("unexpected reasons %v", got.Reasons)
				}
				return
			}
			if !reflect.DeepEqual(got.Reasons, tt.reasons) {
				t.Fatalf("reasons = %v, want %v", got.Reasons, tt.reasons)
			}
		})
	}
}

func TestParseCGPA(t *testing.T) {
	cases := map[string]float64{
		"8.25":  8.25,
		" 7 ":   7,
		"":      0,
		"abc":   0,
		"-1":    0,
		"NaN":   0,
		"+Inf":  0,
		"9.999": 9.999,
	}
	for raw, want := range cases {
		if got := ParseCGPA(raw); got != want {
			t.Errorf("ParseCGPA(%q) = %v, want %v", raw, got, want)
		}
	}
}
