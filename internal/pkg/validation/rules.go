package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Roll numbers are alphanumeric, e.g. 21CSE1042
	RollNumberPattern = `^[A-Za-z0-9]{4,20}$`

	// Academic year label, e.g. 2024-25
	AcademicYearPattern = `^\d{4}-\d{2}$`

	// Phone numbers allow an optional leading + and 7-15 digits
	PhonePattern = `^\+?[0-9]{7,15}$`

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	RollNumber   *regexp.Regexp
	AcademicYear *regexp.Regexp
	Phone        *regexp.Regexp
}{
	RollNumber:   regexp.MustCompile(RollNumberPattern),
	AcademicYear: regexp.MustCompile(AcademicYearPattern),
	Phone:        regexp.MustCompile(PhonePattern),
}

// RegisterRules adds the custom binding tags used by the request DTOs.
func RegisterRules(v *validator.Validate) error {
	rules := map[string]*regexp.Regexp{
		"rollnumber":   CompiledPatterns.RollNumber,
		"academicyear": CompiledPatterns.AcademicYear,
		"phone":        CompiledPatterns.Phone,
	}
	for tag, pattern := range rules {
		re := pattern
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || re.MatchString(s)
		}); err != nil {
			return err
		}
	}
	return nil
}

// String validation
type StringValidation struct {
	Value  string
	MinLen int
	MaxLen int
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{Value: value}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return false
	}

	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}

	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}

	return true
}
