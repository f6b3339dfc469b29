package services

import (
	"testing"
	"time"

	"github.com/yigit/placement/internal/app/models"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func TestComputeEffectiveStatus(t *testing.T) {
	drive := &models.PlacementDrive{ID: "d1", Deadline: mustTime(t, "2024-01-01T00:00:00Z")}
	after := mustTime(t, "2024-01-02T00:00:00Z")
	before := mustTime(t, "2023-12-31T00:00:00Z")

	pending := &models.StudentRegistration{DriveID: "d1", Status: models.RegistrationPending}
	submitted := &models.StudentRegistration{DriveID: "d1", Status: models.RegistrationSubmitted}

	if got := ComputeEffectiveStatus(pending, drive, after); got != models.RegistrationExpired {
		t.Errorf("pending after deadline = %q, want expired", got)
	}
	if got := ComputeEffectiveStatus(submitted, drive, after); got != models.RegistrationSubmitted {
		t.Errorf("submitted after deadline = %q, want submitted", got)
	}
	if got := ComputeEffectiveStatus(pending, drive, before); got != models.RegistrationPending {
		t.Errorf("pending before deadline = %q, want pending", got)
	}
	if got := ComputeEffectiveStatus(pending, drive, drive.Deadline); got != models.RegistrationExpired {
		t.Errorf("pending at deadline = %q, want expired", got)
	}
	if got := ComputeEffectiveStatus(pending, nil, after); got != models.RegistrationPending {
		t.Errorf("pending without drive = %q, want stored status", got)
	}
}

func TestConfirmRegistrationDoesNotMutateInput(t *testing.T) {
	now := mustTime(t, "2024-08-01T10:00:00Z")
	reg := &models.StudentRegistration{ID: "r1", Status: models.RegistrationPending}

	got := confirmRegistration(reg, now)
	if got.Status != models.RegistrationSubmitted {
		t.Fatalf("status = %q, want submitted", got.Status)
	}
	if reg.Status != models.RegistrationPending {
		t.Fatalf("input mutated to %q", reg.Status)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Fatalf("updatedAt = %v, want %v", got.UpdatedAt, now)
	}
}

func TestApplyOfferMergesDocuments(t *testing.T) {
	now := mustTime(t, "2024-09-01T00:00:00Z")
	reg := &models.StudentRegistration{
		ID:     "r1",
		Status: models.RegistrationSubmitted,
		OfferDocuments: &models.OfferDocuments{
			OfferLetter: "https://files/offer-v1.pdf",
			LOI:         "https://files/loi.pdf",
		},
	}

	two := 2
	got := applyOffer(reg, models.OfferDocuments{
		OfferLetter:       "https://files/offer-v2.pdf",
		EmailConfirmation: "https://files/mail.png",
	}, &two, now)

	if !got.HasOffer {
		t.Fatal("hasOffer not set")
	}
	want := models.OfferDocuments{
		OfferLetter:       "https://files/offer-v2.pdf",
		EmailConfirmation: "https://files/mail.png",
		LOI:               "https://files/loi.pdf",
	}
	if *got.OfferDocuments != want {
		t.Fatalf("documents = %+v, want %+v", *got.OfferDocuments, want)
	}
	if got.MultipleOffers == nil || *got.MultipleOffers != 2 {
		t.Fatalf("multipleOffers = %v, want 2", got.MultipleOffers)
	}
	if got.OfferAttachedAt == nil || !got.OfferAttachedAt.Equal(now) {
		t.Fatalf("offerAttachedAt = %v", got.OfferAttachedAt)
	}
	if reg.HasOffer || reg.OfferDocuments.OfferLetter != "https://files/offer-v1.pdf" {
		t.Fatal("input registration mutated")
	}
}

func TestApplyOfferWithoutDocuments(t *testing.T) {
	reg := &models.StudentRegistration{ID: "r1"}
	got := applyOffer(reg, models.OfferDocuments{}, nil, time.Now())
	if !got.HasOffer {
		t.Fatal("hasOffer not set")
	}
	if got.OfferDocuments != nil {
		t.Fatalf("documents = %+v, want nil", got.OfferDocuments)
	}
}

func TestNewPendingRegistrationAcademicYear(t *testing.T) {
	profile := models.StudentProfile{StudentID: "s1", Branch: " ece", Year: 3, CGPA: -2}

	june := newPendingRegistration("r1", "d1", profile, mustTime(t, "2025-06-30T23:00:00Z"), time.July)
	if june.AcademicYear != "2024-25" {
		t.Errorf("june academic year = %q, want 2024-25", june.AcademicYear)
	}
	july := newPendingRegistration("r2", "d1", profile, mustTime(t, "2025-07-01T00:00:00Z"), time.July)
	if july.AcademicYear != "2025-26" {
		t.Errorf("july academic year = %q, want 2025-26", july.AcademicYear)
	}
	if june.Branch != "ECE" || june.CGPA != 0 || june.Status != models.RegistrationPending {
		t.Errorf("unexpected registration %+v", june)
	}
}
