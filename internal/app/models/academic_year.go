package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var academicYearPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// AcademicYear is a twelve-month reporting period labelled "2024-25".
type AcademicYear struct {
	StartYear int
}

// ParseAcademicYear parses a "YYYY-YY" label. The suffix must be the following year.
func ParseAcademicYear(label string) (AcademicYear, error) {
	m := academicYearPattern.FindStringSubmatch(label)
	if m == nil {
		return AcademicYear{}, fmt.Errorf("academic year %q must look like 2024-25", label)
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if (start+1)%100 != end {
		return AcademicYear{}, fmt.Errorf("academic year %q must span consecutive years", label)
	}
	return AcademicYear{StartYear: start}, nil
}

// AcademicYearOf returns the academic year containing t for the given start month.
func AcademicYearOf(t time.Time, startMonth time.Month) AcademicYear {
	t = t.UTC()
	if t.Month() < startMonth {
		return AcademicYear{StartYear: t.Year() - 1}
	}
	return AcademicYear{StartYear: t.Year()}
}

// String renders the "YYYY-YY" label.
func (a AcademicYear) String() string {
	return fmt.Sprintf("%04d-%02d", a.StartYear, (a.StartYear+1)%100)
}

// Start is the first instant of the academic year in UTC.
func (a AcademicYear) Start(startMonth time.Month) time.Time {
	return time.Date(a.StartYear, startMonth, 1, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the academic year.
func (a AcademicYear) Contains(t time.Time, startMonth time.Month) bool {
	start := a.Start(startMonth)
	end := start.AddDate(1, 0, 0)
	t = t.UTC()
	return !t.Before(start) && t.Before(end)
}
