package dto

import (
	"time"

	"github.com/yigit/placement/internal/app/models"
)

// EligibilityCriteriaRequest is the criteria block of a drive request
type EligibilityCriteriaRequest struct {
	MinCGPA  *float64 `json:"minCGPA" binding:"omitempty,gte=0,lte=10" example:"7.5"`
	Branches []string `json:"branches" example:"CSE,ECE"`
	Years    []int    `json:"years" binding:"omitempty,dive,gte=1,lte=5" example:"4"`
}

// ToModel converts the request into domain criteria
func (r EligibilityCriteriaRequest) ToModel() models.EligibilityCriteria {
	criteria := models.EligibilityCriteria{MinCGPA: r.MinCGPA}
	for _, b := range r.Branches {
		if nb := models.Branch(b).Normalize(); nb != "" {
			criteria.Branches = append(criteria.Branches, nb)
		}
	}
	for _, y := range r.Years {
		criteria.Years = append(criteria.Years, models.Year(y))
	}
	return criteria
}

// CreateDriveRequest is the body of POST /drives
type CreateDriveRequest struct {
	CompanyName         string                     `json:"companyName" binding:"required,max=200" example:"Acme Corp"`
	Position            string                     `json:"position" binding:"required,max=200" example:"Software Engineer"`
	Type                string                     `json:"type" binding:"required,oneof=placement internship" example:"placement"`
	Category            string                     `json:"category" binding:"omitempty,oneof=regular hackathon" example:"regular"`
	Package             string                     `json:"package" example:"12 LPA"`
	OpensAt             *time.Time                 `json:"opensAt" example:"2024-08-01T00:00:00Z"`
	Deadline            time.Time                  `json:"deadline" binding:"required" example:"2024-09-01T00:00:00Z"`
	EligibilityCriteria EligibilityCriteriaRequest `json:"eligibilityCriteria"`
	JobDescription      string                     `json:"jobDescription"`
	RegistrationLink    string                     `json:"registrationLink" binding:"omitempty,url"`
	CompanyInfoLink     string                     `json:"companyInfoLink" binding:"omitempty,url"`
	SeriesNumber        int                        `json:"seriesNumber" binding:"gte=0" example:"3"`
}

// UpdateDriveRequest is the body of PUT /drives/{id}
type UpdateDriveRequest struct {
	CreateDriveRequest
	// ForceDeadlineChange allows moving the deadline after students have registered
	ForceDeadlineChange bool `json:"forceDeadlineChange"`
}

// DriveResponse is a drive with its status at response time
type DriveResponse struct {
	*models.PlacementDrive
	Status models.DriveStatus `json:"status" example:"active"`
}

// NewDriveResponse pairs a drive with its derived status
func NewDriveResponse(drive *models.PlacementDrive, status models.DriveStatus) DriveResponse {
	return DriveResponse{PlacementDrive: drive, Status: status}
}

// EligibleDriveResponse pairs a drive with the eligibility verdict for the caller
type EligibleDriveResponse struct {
	DriveResponse
	Eligibility models.EligibilityResult `json:"eligibility"`
}

// EligibleDrivesQuery is the query of GET /drives/eligible
type EligibleDrivesQuery struct {
	Branch string `form:"branch" binding:"required"`
	Year   int    `form:"year" binding:"required,gte=1,lte=5"`
	CGPA   string `form:"cgpa"`
	// OnlyEligible hides drives the student cannot apply to
	OnlyEligible bool `form:"onlyEligible"`
}
