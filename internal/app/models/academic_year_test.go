package models

import (
	"testing"
	"time"
)

func TestParseAcademicYear(t *testing.T) {
	valid := map[string]int{
		"2024-25": 2024,
		"1999-00": 1999,
	}
	for label, start := range valid {
		got, err := ParseAcademicYear(label)
		if err != nil {
			t.Errorf("ParseAcademicYear(%q): %v", label, err)
			continue
		}
		if got.StartYear != start || got.String() != label {
			t.Errorf("ParseAcademicYear(%q) = %+v (%s)", label, got, got)
		}
	}

	for _, label := range []string{"", "2024", "2024-2025", "2024-24", "2024/25", "abcd-ef"} {
		if _, err := ParseAcademicYear(label); err == nil {
			t.Errorf("ParseAcademicYear(%q) should fail", label)
		}
	}
}

func TestAcademicYearOf(t *testing.T) {
	cases := []struct {
		at    time.Time
		start time.Month
		want  string
	}{
		{time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), time.July, "2024-25"},
		{time.Date(2024, time.June, 30, 23, 59, 0, 0, time.UTC), time.July, "2023-24"},
		{time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), time.July, "2024-25"},
		{time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), time.January, "2025-26"},
	}
	for _, c := range cases {
		if got := AcademicYearOf(c.at, c.start).String(); got != c.want {
			t.Errorf("AcademicYearOf(%v, %v) = %s, want %s", c.at, c.start, got, c.want)
		}
	}
}

func TestAcademicYearContains(t *testing.T) {
	ay := AcademicYear{StartYear: 2024}
	if !ay.Contains(time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), time.July) {
		t.Error("start instant should be contained")
	}
	if ay.Contains(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), time.July) {
		t.Error("next year start should not be contained")
	}
}

func TestDriveStatusAt(t *testing.T) {
	deadline := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)
	opens := deadline.Add(-48 * time.Hour)
	d := &PlacementDrive{Deadline: deadline, OpensAt: &opens}

	if got := d.StatusAt(opens.Add(-time.Minute)); got != DriveStatusUpcoming {
		t.Errorf("before opening = %s, want upcoming", got)
	}
	if got := d.StatusAt(opens); got != DriveStatusActive {
		t.Errorf("at opening = %s, want active", got)
	}
	if got := d.StatusAt(deadline); got != DriveStatusClosed {
		t.Errorf("at deadline = %s, want closed", got)
	}
	d.ClosedManually = true
	if got := d.StatusAt(opens); got != DriveStatusClosed {
		t.Errorf("manually closed = %s, want closed", got)
	}
}
