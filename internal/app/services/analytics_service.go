package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/repositories"
	"github.com/yigit/placement/internal/pkg/helpers"
)

// AnalyticsService defines the interface for placement statistics
type AnalyticsService interface {
	GetStats(ctx context.Context, filter models.AnalyticsFilter) (*models.AnalyticsSnapshot, error)
	// GetPlacementTrend defaults to the current academic year when year is nil
	GetPlacementTrend(ctx context.Context, year *models.AcademicYear) ([]models.TrendPoint, error)
	GetOfferStatement(ctx context.Context) (*models.OfferSummary, error)
}

// AnalyticsSettings holds the cohort and calendar used by the aggregations
type AnalyticsSettings struct {
	Cohort      models.Cohort
	StartMonth  time.Month
	TrendMonths int
}

// analyticsServiceImpl implements AnalyticsService
type analyticsServiceImpl struct {
	drives        repositories.DriveStore
	registrations repositories.RegistrationStore
	settings      AnalyticsSettings
	clock         func() time.Time
	logger        zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(
	drives repositories.DriveStore,
	registrations repositories.RegistrationStore,
	settings AnalyticsSettings,
	clock func() time.Time,
	logger zerolog.Logger,
) AnalyticsService {
	if settings.StartMonth < time.January || settings.StartMonth > time.December {
		settings.StartMonth = time.July
	}
	if settings.TrendMonths <= 0 {
		settings.TrendMonths = 7
	}
	return &analyticsServiceImpl{
		drives:        drives,
		registrations: registrations,
		settings:      settings,
		clock:         helpers.ClockOrNow(clock),
		logger:        logger.With().Str("service", "analytics").Logger(),
	}
}

// GetStats builds the dashboard snapshot for the filtered registrations
func (s *analyticsServiceImpl) GetStats(ctx context.Context, filter models.AnalyticsFilter) (*models.AnalyticsSnapshot, error) {
	data, err := loadCollections(ctx, s.drives, s.registrations)
	if err != nil {
		return nil, err
	}
	snapshot := BuildSnapshot(data.registrations, data.drives, s.settings.Cohort, filter)
	s.logger.Debug().
		Int("registrations", len(data.registrations)).
		Int("placed", snapshot.PlacedStudents).
		Msg("Analytics snapshot built")
	return &snapshot, nil
}

// GetPlacementTrend returns the monthly registration and offer series
func (s *analyticsServiceImpl) GetPlacementTrend(ctx context.Context, year *models.AcademicYear) ([]models.TrendPoint, error) {
	data, err := loadCollections(ctx, s.drives, s.registrations)
	if err != nil {
		return nil, err
	}
	ay := models.AcademicYearOf(s.clock(), s.settings.StartMonth)
	if year != nil {
		ay = *year
	}
	return BuildPlacementTrend(data.registrations, ay, s.settings.StartMonth, s.settings.TrendMonths), nil
}

// GetOfferStatement classifies every student by offer count
func (s *analyticsServiceImpl) GetOfferStatement(ctx context.Context) (*models.OfferSummary, error) {
	data, err := loadCollections(ctx, s.drives, s.registrations)
	if err != nil {
		return nil, err
	}
	summary := ClassifyOffers(data.registrations)
	return &summary, nil
}
