package models

import "time"

// RegistrationStatus is the stored or effective state of a registration.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationSubmitted RegistrationStatus = "submitted"
	// RegistrationExpired is only ever derived at read time.
	RegistrationExpired RegistrationStatus = "expired"
)

// OfferDocuments holds the URLs of uploaded offer evidence. Empty means not uploaded.
type OfferDocuments struct {
	OfferLetter       string `json:"offerLetter,omitempty"`
	EmailConfirmation string `json:"emailConfirmation,omitempty"`
	LOI               string `json:"loi,omitempty"`
	InternshipOffer   string `json:"internshipOffer,omitempty"`
}

// IsEmpty reports whether no document slot is set.
func (d OfferDocuments) IsEmpty() bool {
	return d == OfferDocuments{}
}

// StudentProfile is the snapshot a student submits when applying.
type StudentProfile struct {
	StudentID  string  `json:"studentId"`
	Name       string  `json:"name"`
	RollNumber string  `json:"rollNumber"`
	Branch     Branch  `json:"branch"`
	Year       Year    `json:"year"`
	CGPA       float64 `json:"cgpa"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	LinkedIn   *string `json:"linkedin,omitempty"`
	GitHub     *string `json:"github,omitempty"`
}

// StudentRegistration is one student's application to one drive.
type StudentRegistration struct {
	ID              string             `json:"id" db:"id"`
	DriveID         string             `json:"driveId" db:"drive_id"`
	StudentID       string             `json:"studentId" db:"student_id"`
	StudentName     string             `json:"studentName" db:"student_name"`
	RollNumber      string             `json:"rollNumber" db:"roll_number"`
	Branch          Branch             `json:"branch" db:"branch"`
	Year            Year               `json:"year" db:"year"`
	CGPA            float64            `json:"cgpa" db:"cgpa"`
	Email           string             `json:"email" db:"email"`
	Phone           string             `json:"phone" db:"phone"`
	LinkedIn        *string            `json:"linkedin,omitempty" db:"linkedin"`
	GitHub          *string            `json:"github,omitempty" db:"github"`
	AcademicYear    string             `json:"academicYear" db:"academic_year"`
	SubmittedAt     time.Time          `json:"submittedAt" db:"submitted_at"`
	Status          RegistrationStatus `json:"status" db:"status"`
	HasOffer        bool               `json:"hasOffer" db:"has_offer"`
	OfferDocuments  *OfferDocuments    `json:"offerDocuments,omitempty" db:"offer_documents"`
	MultipleOffers  *int               `json:"multipleOffers,omitempty" db:"multiple_offers"`
	OfferAttachedAt *time.Time         `json:"offerAttachedAt,omitempty" db:"offer_attached_at"`
	UpdatedAt       time.Time          `json:"updatedAt" db:"updated_at"`
}

// Clone returns a deep copy so callers can mutate without touching a shared snapshot.
func (r *StudentRegistration) Clone() *StudentRegistration {
	if r == nil {
		return nil
	}
	c := *r
	if r.LinkedIn != nil {
		v := *r.LinkedIn
		c.LinkedIn = &v
	}
	if r.GitHub != nil {
		v := *r.GitHub
		c.GitHub = &v
	}
	if r.OfferDocuments != nil {
		v := *r.OfferDocuments
		c.OfferDocuments = &v
	}
	if r.MultipleOffers != nil {
		v := *r.MultipleOffers
		c.MultipleOffers = &v
	}
	if r.OfferAttachedAt != nil {
		v := *r.OfferAttachedAt
		c.OfferAttachedAt = &v
	}
	return &c
}

// EligibilityResult is the outcome of evaluating a profile against drive criteria.
type EligibilityResult struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons"`
}
