package dto

import (
	"github.com/yigit/placement/internal/app/models"
)

// ApplyRequest is the profile snapshot a student submits to a drive
type ApplyRequest struct {
	Name       string  `json:"name" binding:"required,min=2,max=100" example:"Asha Rao"`
	RollNumber string  `json:"rollNumber" binding:"required,rollnumber" example:"21CSE1042"`
	Branch     string  `json:"branch" binding:"required" example:"CSE"`
	Year       int     `json:"year" binding:"required,gte=1,lte=5" example:"4"`
	CGPA       float64 `json:"cgpa" binding:"gte=0,lte=10" example:"8.4"`
	Email      string  `json:"email" binding:"required,email" example:"asha@college.edu"`
	Phone      string  `json:"phone" binding:"required,phone" example:"+919876543210"`
	LinkedIn   *string `json:"linkedin" binding:"omitempty,url"`
	GitHub     *string `json:"github" binding:"omitempty,url"`
}

// ToProfile builds the profile for studentID
func (r ApplyRequest) ToProfile(studentID string) models.StudentProfile {
	return models.StudentProfile{
		StudentID:  studentID,
		Name:       r.Name,
		RollNumber: r.RollNumber,
		Branch:     models.Branch(r.Branch).Normalize(),
		Year:       models.Year(r.Year),
		CGPA:       r.CGPA,
		Email:      r.Email,
		Phone:      r.Phone,
		LinkedIn:   r.LinkedIn,
		GitHub:     r.GitHub,
	}
}

// AttachOfferRequest is the JSON body of POST /registrations/{id}/offer
type AttachOfferRequest struct {
	OfferLetter       string `json:"offerLetter" form:"offerLetter" binding:"omitempty,url"`
	EmailConfirmation string `json:"emailConfirmation" form:"emailConfirmation" binding:"omitempty,url"`
	LOI               string `json:"loi" form:"loi" binding:"omitempty,url"`
	InternshipOffer   string `json:"internshipOffer" form:"internshipOffer" binding:"omitempty,url"`
	MultipleOffers    *int   `json:"multipleOffers" form:"multipleOffers" binding:"omitempty,gte=1"`
}

// Documents returns the document slots carried by the request
func (r AttachOfferRequest) Documents() models.OfferDocuments {
	return models.OfferDocuments{
		OfferLetter:       r.OfferLetter,
		EmailConfirmation: r.EmailConfirmation,
		LOI:               r.LOI,
		InternshipOffer:   r.InternshipOffer,
	}
}

// RegistrationListQuery is the query of GET /registrations
type RegistrationListQuery struct {
	DriveID   string `form:"driveId"`
	StudentID string `form:"studentId"`
}

// RegistrationResponse is a registration with its effective status at response time
type RegistrationResponse struct {
	*models.StudentRegistration
	EffectiveStatus models.RegistrationStatus `json:"effectiveStatus" example:"submitted"`
}

// RegistrationListResponse is one page of registrations
type RegistrationListResponse struct {
	Registrations  []RegistrationResponse `json:"registrations"`
	PaginationInfo PaginationInfo         `json:"paginationInfo"`
}

// NewRegistrationResponse pairs a registration with its effective status
func NewRegistrationResponse(reg *models.StudentRegistration, status models.RegistrationStatus) RegistrationResponse {
	return RegistrationResponse{StudentRegistration: reg, EffectiveStatus: status}
}
