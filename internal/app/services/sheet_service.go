package services

import (
	"bytes"
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/repositories"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/export"
	"github.com/yigit/placement/internal/pkg/helpers"
)

// SheetFile is a rendered sheet ready for download
type SheetFile struct {
	Name        string
	ContentType string
	Content     []byte
	Rows        int
}

// SheetService defines the interface for consolidated sheets
type SheetService interface {
	// GenerateSheet returns the sheet and any lenient-parse warnings
	GenerateSheet(ctx context.Context, q SheetQuery) (*models.Sheet, []error, error)
	ExportSheet(ctx context.Context, q SheetQuery, format export.Format) (*SheetFile, []error, error)
}

// sheetServiceImpl implements SheetService
type sheetServiceImpl struct {
	drives        repositories.DriveStore
	registrations repositories.RegistrationStore
	clock         func() time.Time
	logger        zerolog.Logger
}

// NewSheetService creates a new SheetService
func NewSheetService(
	drives repositories.DriveStore,
	registrations repositories.RegistrationStore,
	clock func() time.Time,
	logger zerolog.Logger,
) SheetService {
	return &sheetServiceImpl{
		drives:        drives,
		registrations: registrations,
		clock:         helpers.ClockOrNow(clock),
		logger:        logger.With().Str("service", "sheets").Logger(),
	}
}

// GenerateSheet filters and projects registrations. An empty result is ErrNoMatchingStudents.
func (s *sheetServiceImpl) GenerateSheet(ctx context.Context, q SheetQuery) (*models.Sheet, []error, error) {
	filter, warnings, err := ParseSheetFilter(q)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		s.logger.Warn().Err(w).Msg("Sheet filter ignored")
	}

	data, err := loadCollections(ctx, s.drives, s.registrations)
	if err != nil {
		return nil, nil, err
	}

	sheet := GenerateSheet(filter, data.registrations, data.drives, s.clock())
	if len(sheet.Students) == 0 {
		return nil, warnings, apperrors.NewCustomError(apperrors.ErrNoMatchingStudents, "no students match filters")
	}
	return &sheet, warnings, nil
}

// ExportSheet renders the sheet in format
func (s *sheetServiceImpl) ExportSheet(ctx context.Context, q SheetQuery, format export.Format) (*SheetFile, []error, error) {
	sheet, warnings, err := s.GenerateSheet(ctx, q)
	if err != nil {
		return nil, warnings, err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, sheet); err != nil {
		s.logger.Error().Err(err).Str("format", string(format)).Msg("Sheet export failed")
		return nil, warnings, apperrors.NewCustomError(apperrors.ErrSheetGeneration, "could not generate sheet")
	}

	s.logger.Info().
		Str("type", string(sheet.Type)).
		Str("academicYear", sheet.AcademicYear).
		Int("rows", len(sheet.Students)).
		Str("format", string(format)).
		Msg("Sheet exported")

	return &SheetFile{
		Name:        export.FileName(sheet, format),
		ContentType: export.ContentType(format),
		Content:     buf.Bytes(),
		Rows:        len(sheet.Students),
	}, warnings, nil
}
