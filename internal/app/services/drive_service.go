package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/app/repositories"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/helpers"
	"github.com/yigit/placement/internal/pkg/validation"
)

// DriveView is a drive together with its status at read time
type DriveView struct {
	Drive  *models.PlacementDrive
	Status models.DriveStatus
}

// EligibleDrive is a drive evaluated against one student profile
type EligibleDrive struct {
	DriveView
	Eligibility models.EligibilityResult
}

// DriveService defines the interface for placement drive operations
type DriveService interface {
	CreateDrive(ctx context.Context, req *dto.CreateDriveRequest) (*DriveView, error)
	GetDrive(ctx context.Context, id string) (*DriveView, error)
	ListDrives(ctx context.Context) ([]DriveView, error)
	ListEligibleDrives(ctx context.Context, profile models.StudentProfile, onlyEligible bool) ([]EligibleDrive, error)
	UpdateDrive(ctx context.Context, id string, req *dto.UpdateDriveRequest) (*DriveView, error)
	CloseDrive(ctx context.Context, id string) (*DriveView, error)
	DeleteDrive(ctx context.Context, id string) error
}

// driveServiceImpl implements DriveService
type driveServiceImpl struct {
	drives        repositories.DriveStore
	registrations repositories.RegistrationStore
	locks         *DriveLocks
	clock         func() time.Time
	logger        zerolog.Logger
}

// NewDriveService creates a new DriveService
func NewDriveService(
	drives repositories.DriveStore,
	registrations repositories.RegistrationStore,
	locks *DriveLocks,
	clock func() time.Time,
	logger zerolog.Logger,
) DriveService {
	return &driveServiceImpl{
		drives:        drives,
		registrations: registrations,
		locks:         driveLocksOrNew(locks),
		clock:         helpers.ClockOrNow(clock),
		logger:        logger.With().Str("service", "drives").Logger(),
	}
}

func (s *driveServiceImpl) view(drive *models.PlacementDrive, now time.Time) DriveView {
	return DriveView{Drive: drive, Status: drive.StatusAt(now)}
}

// validateDrive checks drive data before it is written
func validateDrive(drive *models.PlacementDrive) error {
	nameRule := func(v string) bool {
		return validation.NewStringValidation(v).
			WithMinLength(validation.NameMinLength).
			WithMaxLength(validation.NameMaxLength * 2).
			Validate()
	}
	if !nameRule(drive.CompanyName) {
		return apperrors.NewValidationError("company name must be 2-200 characters")
	}
	if !nameRule(drive.Position) {
		return apperrors.NewValidationError("position must be 2-200 characters")
	}
	if !drive.Type.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown drive type %q", drive.Type))
	}
	if !drive.Category.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown drive category %q", drive.Category))
	}
	if drive.Deadline.IsZero() {
		return apperrors.NewValidationError("deadline is required")
	}
	if drive.OpensAt != nil && !drive.OpensAt.Before(drive.Deadline) {
		return apperrors.NewValidationError("opensAt must be before the deadline")
	}
	if c := drive.EligibilityCriteria.MinCGPA; c != nil && (*c < 0 || *c > 10) {
		return apperrors.NewValidationError("minCGPA must be between 0 and 10")
	}
	for _, y := range drive.EligibilityCriteria.Years {
		if !y.Valid() {
			return apperrors.NewValidationError(fmt.Sprintf("year %d is out of range", y))
		}
	}
	return nil
}

func applyDriveRequest(drive *models.PlacementDrive, req *dto.CreateDriveRequest) {
	drive.CompanyName = req.CompanyName
	drive.Position = req.Position
	drive.Type = models.DriveType(req.Type)
	drive.Category = models.DriveCategory(req.Category)
	if drive.Category == "" {
		drive.Category = models.DriveCategoryRegular
	}
	drive.Package = req.Package
	drive.OpensAt = utcPtr(req.OpensAt)
	drive.Deadline = req.Deadline.UTC()
	drive.EligibilityCriteria = req.EligibilityCriteria.ToModel()
	drive.JobDescription = req.JobDescription
	drive.RegistrationLink = req.RegistrationLink
	drive.CompanyInfoLink = req.CompanyInfoLink
	drive.SeriesNumber = req.SeriesNumber
}

// CreateDrive creates a new placement drive
func (s *driveServiceImpl) CreateDrive(ctx context.Context, req *dto.CreateDriveRequest) (*DriveView, error) {
	now := s.clock().UTC()
	drive := &models.PlacementDrive{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyDriveRequest(drive, req)

	if err := validateDrive(drive); err != nil {
		return nil, err
	}

	if err := s.drives.Create(ctx, drive); err != nil {
		return nil, fmt.Errorf("error creating drive: %w", err)
	}

	s.logger.Info().Str("driveId", drive.ID).Str("company", drive.CompanyName).Msg("Drive created")
	v := s.view(drive, now)
	return &v, nil
}

// GetDrive retrieves a drive by ID
func (s *driveServiceImpl) GetDrive(ctx context.Context, id string) (*DriveView, error) {
	drive, err := s.drives.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving drive: %w", err)
	}
	v := s.view(drive, s.clock())
	return &v, nil
}

// ListDrives retrieves all drives in creation order
func (s *driveServiceImpl) ListDrives(ctx context.Context) ([]DriveView, error) {
	drives, err := s.drives.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving drives: %w", err)
	}

	now := s.clock()
	views := make([]DriveView, 0, len(drives))
	for _, drive := range drives {
		views = append(views, s.view(drive, now))
	}
	return views, nil
}

// ListEligibleDrives evaluates every open drive against profile
func (s *driveServiceImpl) ListEligibleDrives(ctx context.Context, profile models.StudentProfile, onlyEligible bool) ([]EligibleDrive, error) {
	views, err := s.ListDrives(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]EligibleDrive, 0, len(views))
	for _, v := range views {
		if v.Status == models.DriveStatusClosed {
			continue
		}
		result := EvaluateEligibility(profile, v.Drive.EligibilityCriteria)
		if onlyEligible && !result.Eligible {
			continue
		}
		out = append(out, EligibleDrive{DriveView: v, Eligibility: result})
	}
	return out, nil
}

// UpdateDrive updates an existing drive. The deadline is locked once students have
// registered unless the request forces the change.
func (s *driveServiceImpl) UpdateDrive(ctx context.Context, id string, req *dto.UpdateDriveRequest) (*DriveView, error) {
	unlock := s.locks.write(id)
	defer unlock()

	existing, err := s.drives.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving drive: %w", err)
	}

	updated := *existing
	applyDriveRequest(&updated, &req.CreateDriveRequest)
	if err := validateDrive(&updated); err != nil {
		return nil, err
	}

	if !updated.Deadline.Equal(existing.Deadline) {
		count, err := s.registrations.CountByDrive(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("error counting registrations: %w", err)
		}
		if count > 0 && !req.ForceDeadlineChange {
			return nil, apperrors.NewCustomError(apperrors.ErrDeadlineLocked, "deadline is locked").
				WithDetails(map[string]interface{}{"registrations": count})
		}
		if count > 0 {
			s.logger.Warn().Str("driveId", id).Int("registrations", count).
				Time("from", existing.Deadline).Time("to", updated.Deadline).
				Msg("Deadline changed by admin override")
		}
	}

	now := s.clock().UTC()
	updated.UpdatedAt = now
	if err := s.drives.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("error updating drive: %w", err)
	}

	v := s.view(&updated, now)
	return &v, nil
}

// CloseDrive closes a drive for registrations ahead of its deadline
func (s *driveServiceImpl) CloseDrive(ctx context.Context, id string) (*DriveView, error) {
	unlock := s.locks.write(id)
	defer unlock()

	drive, err := s.drives.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving drive: %w", err)
	}

	now := s.clock().UTC()
	if !drive.ClosedManually {
		drive.ClosedManually = true
		drive.UpdatedAt = now
		if err := s.drives.Update(ctx, drive); err != nil {
			return nil, fmt.Errorf("error closing drive: %w", err)
		}
		s.logger.Info().Str("driveId", id).Msg("Drive closed manually")
	}

	v := s.view(drive, now)
	return &v, nil
}

// DeleteDrive deletes a drive that no registration references
func (s *driveServiceImpl) DeleteDrive(ctx context.Context, id string) error {
	unlock := s.locks.write(id)
	defer unlock()

	if _, err := s.drives.GetByID(ctx, id); err != nil {
		return fmt.Errorf("error retrieving drive: %w", err)
	}

	count, err := s.registrations.CountByDrive(ctx, id)
	if err != nil {
		return fmt.Errorf("error counting registrations: %w", err)
	}
	if count > 0 {
		return apperrors.NewCustomError(apperrors.ErrDriveHasRegistrations, "drive has registrations").
			WithDetails(map[string]interface{}{"registrations": count})
	}

	if err := s.drives.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting drive: %w", err)
	}
	s.logger.Info().Str("driveId", id).Msg("Drive deleted")
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
