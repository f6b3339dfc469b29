package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/repositories"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/filestorage"
	"github.com/yigit/placement/internal/pkg/helpers"
)

// RegistrationView is a registration together with its effective status at read time
type RegistrationView struct {
	Registration    *models.StudentRegistration
	EffectiveStatus models.RegistrationStatus
}

// OfferUploads maps offer document slots to uploaded files. Nil entries are skipped.
type OfferUploads struct {
	OfferLetter       *multipart.FileHeader
	EmailConfirmation *multipart.FileHeader
	LOI               *multipart.FileHeader
	InternshipOffer   *multipart.FileHeader
}

// RegistrationService defines the interface for the registration lifecycle
type RegistrationService interface {
	Submit(ctx context.Context, driveID string, profile models.StudentProfile) (*RegistrationView, error)
	GetRegistration(ctx context.Context, id string) (*RegistrationView, error)
	ListRegistrations(ctx context.Context, filter repositories.RegistrationFilter) ([]RegistrationView, error)
	AttachOffer(ctx context.Context, id string, docs models.OfferDocuments, multipleOffers *int) (*RegistrationView, error)
	UploadOfferDocuments(ctx context.Context, id string, uploads OfferUploads, docs models.OfferDocuments, multipleOffers *int) (*RegistrationView, error)
}

// registrationServiceImpl implements RegistrationService
type registrationServiceImpl struct {
	drives        repositories.DriveStore
	registrations repositories.RegistrationStore
	files         filestorage.FileStorage
	startMonth    time.Month
	clock         func() time.Time
	driveLocks    *DriveLocks
	pairs         *keyedMutex
	offers        *keyedMutex
	logger        zerolog.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(
	drives repositories.DriveStore,
	registrations repositories.RegistrationStore,
	files filestorage.FileStorage,
	driveLocks *DriveLocks,
	startMonth time.Month,
	clock func() time.Time,
	logger zerolog.Logger,
) RegistrationService {
	return &registrationServiceImpl{
		drives:        drives,
		registrations: registrations,
		files:         files,
		startMonth:    startMonth,
		clock:         helpers.ClockOrNow(clock),
		driveLocks:    driveLocksOrNew(driveLocks),
		pairs:         newKeyedMutex(),
		offers:        newKeyedMutex(),
		logger:        logger.With().Str("service", "registrations").Logger(),
	}
}

// Submit applies a student to a drive. The registration is created pending and then
// confirmed; if confirmation fails it stays pending and expires at the deadline.
func (s *registrationServiceImpl) Submit(ctx context.Context, driveID string, profile models.StudentProfile) (*RegistrationView, error) {
	unlockDrive := s.driveLocks.read(driveID)
	defer unlockDrive()
	unlock := s.pairs.Lock(profile.StudentID + ":" + driveID)
	defer unlock()

	drive, err := s.drives.GetByID(ctx, driveID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving drive: %w", err)
	}

	now := s.clock().UTC()
	if status := drive.StatusAt(now); status != models.DriveStatusActive {
		return nil, apperrors.NewCustomError(apperrors.ErrDriveClosed, "drive is not accepting registrations").
			WithDetails(map[string]interface{}{"status": status})
	}

	if result := EvaluateEligibility(profile, drive.EligibilityCriteria); !result.Eligible {
		return nil, apperrors.NewCustomError(apperrors.ErrNotEligible, "student is not eligible for this drive").
			WithDetails(map[string]interface{}{"reasons": result.Reasons})
	}

	_, err = s.registrations.FindByStudentAndDrive(ctx, profile.StudentID, driveID)
	switch {
	case err == nil:
		return nil, apperrors.ErrDuplicateRegistration
	case !errors.Is(err, apperrors.ErrRegistrationNotFound):
		return nil, fmt.Errorf("error checking existing registration: %w", err)
	}

	reg := newPendingRegistration(uuid.New().String(), driveID, profile, now, s.startMonth)
	if err := s.registrations.Create(ctx, reg); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateRegistration) {
			return nil, apperrors.ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("error creating registration: %w", err)
	}

	confirmed := confirmRegistration(reg, s.clock())
	if err := s.registrations.Update(ctx, confirmed); err != nil {
		s.logger.Warn().Err(err).Str("registrationId", reg.ID).Msg("Confirmation failed, registration left pending")
		return &RegistrationView{Registration: reg, EffectiveStatus: ComputeEffectiveStatus(reg, drive, now)}, nil
	}

	s.logger.Info().
		Str("registrationId", confirmed.ID).
		Str("studentId", confirmed.StudentID).
		Str("driveId", driveID).
		Msg("Registration submitted")
	return &RegistrationView{Registration: confirmed, EffectiveStatus: models.RegistrationSubmitted}, nil
}

// GetRegistration retrieves a registration by ID with its effective status
func (s *registrationServiceImpl) GetRegistration(ctx context.Context, id string) (*RegistrationView, error) {
	reg, err := s.registrations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving registration: %w", err)
	}
	drive, err := s.lookupDrive(ctx, reg.DriveID)
	if err != nil {
		return nil, err
	}
	return &RegistrationView{Registration: reg, EffectiveStatus: ComputeEffectiveStatus(reg, drive, s.clock())}, nil
}

// ListRegistrations retrieves registrations matching filter in insertion order
func (s *registrationServiceImpl) ListRegistrations(ctx context.Context, filter repositories.RegistrationFilter) ([]RegistrationView, error) {
	regs, err := s.registrations.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error retrieving registrations: %w", err)
	}
	drives, err := s.drives.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving drives: %w", err)
	}
	byID := indexDrives(drives)

	now := s.clock()
	views := make([]RegistrationView, 0, len(regs))
	for _, reg := range regs {
		views = append(views, RegistrationView{
			Registration:    reg,
			EffectiveStatus: ComputeEffectiveStatus(reg, byID[reg.DriveID], now),
		})
	}
	return views, nil
}

// AttachOffer marks a registration as carrying an offer and merges its documents
func (s *registrationServiceImpl) AttachOffer(ctx context.Context, id string, docs models.OfferDocuments, multipleOffers *int) (*RegistrationView, error) {
	if multipleOffers != nil && *multipleOffers < 1 {
		return nil, apperrors.NewValidationError("multipleOffers must be at least 1")
	}

	unlock := s.offers.Lock(id)
	defer unlock()

	reg, err := s.registrations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving registration: %w", err)
	}

	updated := applyOffer(reg, docs, multipleOffers, s.clock())
	if err := s.registrations.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("error attaching offer: %w", err)
	}

	drive, err := s.lookupDrive(ctx, updated.DriveID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("registrationId", id).Str("studentId", updated.StudentID).Msg("Offer attached")
	return &RegistrationView{Registration: updated, EffectiveStatus: ComputeEffectiveStatus(updated, drive, s.clock())}, nil
}

// UploadOfferDocuments stores uploaded offer files and attaches their URLs.
// URLs already present in docs are kept unless a file for the same slot is uploaded.
func (s *registrationServiceImpl) UploadOfferDocuments(ctx context.Context, id string, uploads OfferUploads, docs models.OfferDocuments, multipleOffers *int) (*RegistrationView, error) {
	if _, err := s.registrations.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("error retrieving registration: %w", err)
	}
	if s.files == nil {
		return nil, apperrors.NewBadRequestError("file uploads are not configured")
	}

	dir := "offers/" + id
	slots := []struct {
		file *multipart.FileHeader
		dst  *string
	}{
		{uploads.OfferLetter, &docs.OfferLetter},
		{uploads.EmailConfirmation, &docs.EmailConfirmation},
		{uploads.LOI, &docs.LOI},
		{uploads.InternshipOffer, &docs.InternshipOffer},
	}

	saved := make([]string, 0, len(slots))
	for _, slot := range slots {
		if slot.file == nil {
			continue
		}
		url, err := s.files.SaveFileWithPath(slot.file, dir)
		if err != nil {
			s.removeFiles(saved)
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("could not store %s: %v", slot.file.Filename, err))
		}
		saved = append(saved, url)
		*slot.dst = url
	}

	view, err := s.AttachOffer(ctx, id, docs, multipleOffers)
	if err != nil {
		s.removeFiles(saved)
		return nil, err
	}
	return view, nil
}

func (s *registrationServiceImpl) removeFiles(urls []string) {
	for _, u := range urls {
		if err := s.files.DeleteFile(u); err != nil {
			s.logger.Warn().Err(err).Str("file", u).Msg("Failed to remove orphaned upload")
		}
	}
}

// lookupDrive returns nil without error when the drive no longer exists
func (s *registrationServiceImpl) lookupDrive(ctx context.Context, id string) (*models.PlacementDrive, error) {
	drive, err := s.drives.GetByID(ctx, id)
	if errors.Is(err, apperrors.ErrDriveNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving drive: %w", err)
	}
	return drive, nil
}

func indexDrives(drives []*models.PlacementDrive) map[string]*models.PlacementDrive {
	byID := make(map[string]*models.PlacementDrive, len(drives))
	for _, d := range drives {
		byID[d.ID] = d
	}
	return byID
}
