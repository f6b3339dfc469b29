package services

import (
	"time"

	"github.com/yigit/placement/internal/app/models"
)

// ComputeEffectiveStatus derives the status a registration shows at now.
// Submitted is sticky; a pending registration expires at the drive deadline.
// Without a drive the stored status is returned unchanged.
func ComputeEffectiveStatus(reg *models.StudentRegistration, drive *models.PlacementDrive, now time.Time) models.RegistrationStatus {
	if reg.Status == models.RegistrationSubmitted {
		return models.RegistrationSubmitted
	}
	if drive == nil {
		return reg.Status
	}
	if !now.Before(drive.Deadline) {
		return models.RegistrationExpired
	}
	return models.RegistrationPending
}

// newPendingRegistration builds the record created on apply.
func newPendingRegistration(id string, driveID string, profile models.StudentProfile, now time.Time, startMonth time.Month) *models.StudentRegistration {
	return &models.StudentRegistration{
		ID:           id,
		DriveID:      driveID,
		StudentID:    profile.StudentID,
		StudentName:  profile.Name,
		RollNumber:   profile.RollNumber,
		Branch:       profile.Branch.Normalize(),
		Year:         profile.Year,
		CGPA:         SanitizeCGPA(profile.CGPA),
		Email:        profile.Email,
		Phone:        profile.Phone,
		LinkedIn:     profile.LinkedIn,
		GitHub:       profile.GitHub,
		AcademicYear: models.AcademicYearOf(now, startMonth).String(),
		SubmittedAt:  now.UTC(),
		Status:       models.RegistrationPending,
		UpdatedAt:    now.UTC(),
	}
}

// confirmRegistration advances pending to submitted. Other states are left alone.
func confirmRegistration(reg *models.StudentRegistration, now time.Time) *models.StudentRegistration {
	next := reg.Clone()
	if next.Status == models.RegistrationPending {
		next.Status = models.RegistrationSubmitted
		next.UpdatedAt = now.UTC()
	}
	return next
}

// applyOffer marks the registration as carrying an offer and merges documents.
// A non-empty incoming slot overwrites; an empty one never clears.
func applyOffer(reg *models.StudentRegistration, docs models.OfferDocuments, multipleOffers *int, now time.Time) *models.StudentRegistration {
	next := reg.Clone()
	next.HasOffer = true

	merged := models.OfferDocuments{}
	if next.OfferDocuments != nil {
		merged = *next.OfferDocuments
	}
	mergeSlot(&merged.OfferLetter, docs.OfferLetter)
	mergeSlot(&merged.EmailConfirmation, docs.EmailConfirmation)
	mergeSlot(&merged.LOI, docs.LOI)
	mergeSlot(&merged.InternshipOffer, docs.InternshipOffer)
	if !merged.IsEmpty() {
		next.OfferDocuments = &merged
	}

	if multipleOffers != nil {
		v := *multipleOffers
		next.MultipleOffers = &v
	}

	ts := now.UTC()
	next.OfferAttachedAt = &ts
	next.UpdatedAt = ts
	return next
}

func mergeSlot(dst *string, incoming string) {
	if incoming != "" {
		*dst = incoming
	}
}
