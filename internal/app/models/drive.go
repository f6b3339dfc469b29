package models

import "time"

// DriveType distinguishes full-time placement drives from internship drives.
type DriveType string

const (
	DriveTypePlacement  DriveType = "placement"
	DriveTypeInternship DriveType = "internship"
)

// Valid reports whether t is a known drive type.
func (t DriveType) Valid() bool {
	switch t {
	case DriveTypePlacement, DriveTypeInternship:
		return true
	default:
		return false
	}
}

// DriveCategory tags drives for reporting. Hackathon drives get their own sheet.
type DriveCategory string

const (
	DriveCategoryRegular   DriveCategory = "regular"
	DriveCategoryHackathon DriveCategory = "hackathon"
)

// Valid reports whether c is a known category.
func (c DriveCategory) Valid() bool {
	return c == DriveCategoryRegular || c == DriveCategoryHackathon
}

// DriveStatus is derived from the deadline, the opening time and manual close.
type DriveStatus string

const (
	DriveStatusUpcoming DriveStatus = "upcoming"
	DriveStatusActive   DriveStatus = "active"
	DriveStatusClosed   DriveStatus = "closed"
)

// EligibilityCriteria restricts who may apply. Nil or empty fields impose no restriction.
type EligibilityCriteria struct {
	MinCGPA  *float64 `json:"minCGPA,omitempty"`
	Branches []Branch `json:"branches,omitempty"`
	Years    []Year   `json:"years,omitempty"`
}

// PlacementDrive is a company's placement or internship opportunity.
type PlacementDrive struct {
	ID                  string              `json:"id" db:"id"`
	CompanyName         string              `json:"companyName" db:"company_name"`
	Position            string              `json:"position" db:"position"`
	Type                DriveType           `json:"type" db:"type"`
	Category            DriveCategory       `json:"category" db:"category"`
	Package             string              `json:"package" db:"package"`
	OpensAt             *time.Time          `json:"opensAt,omitempty" db:"opens_at"`
	Deadline            time.Time           `json:"deadline" db:"deadline"`
	ClosedManually      bool                `json:"closedManually" db:"closed_manually"`
	EligibilityCriteria EligibilityCriteria `json:"eligibilityCriteria" db:"eligibility_criteria"`
	JobDescription      string              `json:"jobDescription" db:"job_description"`
	RegistrationLink    string              `json:"registrationLink" db:"registration_link"`
	CompanyInfoLink     string              `json:"companyInfoLink" db:"company_info_link"`
	SeriesNumber        int                 `json:"seriesNumber" db:"series_number"`
	CreatedAt           time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time           `json:"updatedAt" db:"updated_at"`
}

// StatusAt derives the drive status at the given instant.
func (d *PlacementDrive) StatusAt(now time.Time) DriveStatus {
	if d.ClosedManually || !now.Before(d.Deadline) {
		return DriveStatusClosed
	}
	if d.OpensAt != nil && now.Before(*d.OpensAt) {
		return DriveStatusUpcoming
	}
	return DriveStatusActive
}

// DisplayName is the label used in drive-wise statistics.
func (d *PlacementDrive) DisplayName() string {
	if d.Position == "" {
		return d.CompanyName
	}
	return d.CompanyName + " - " + d.Position
}
