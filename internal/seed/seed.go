package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/placement/internal/app/models"
	appRepos "github.com/yigit/placement/internal/app/repositories"
)

// CreateDemoDrives adds sample drives when the store is empty. Used in development mode only.
func CreateDemoDrives(ctx context.Context, drives appRepos.DriveStore, now time.Time, lgr zerolog.Logger) error {
	existing, err := drives.List(ctx)
	if err != nil {
		return fmt.Errorf("list drives: %w", err)
	}
	if len(existing) > 0 {
		lgr.Debug().Int("drives", len(existing)).Msg("Drives present, skipping demo data")
		return nil
	}

	lgr.Info().Msg("Creating demo drives...")
	minCGPA := 7.0
	now = now.UTC()
	samples := []*appModels.PlacementDrive{
		{
			CompanyName: "Acme Corp",
			Position:    "Software Engineer",
			Type:        appModels.DriveTypePlacement,
			Category:    appModels.DriveCategoryRegular,
			Package:     "12 LPA",
			Deadline:    now.AddDate(0, 0, 14),
			EligibilityCriteria: appModels.EligibilityCriteria{
				MinCGPA:  &minCGPA,
				Branches: []appModels.Branch{"CSE", "ECE"},
				Years:    []appModels.Year{4},
			},
		},
		{
			CompanyName: "Globex",
			Position:    "Data Intern",
			Type:        appModels.DriveTypeInternship,
			Category:    appModels.DriveCategoryRegular,
			Package:     "40k/month",
			Deadline:    now.AddDate(0, 0, 7),
			EligibilityCriteria: appModels.EligibilityCriteria{
				Years: []appModels.Year{2, 3},
			},
		},
		{
			CompanyName: "Initech",
			Position:    "Hackathon",
			Type:        appModels.DriveTypeInternship,
			Category:    appModels.DriveCategoryHackathon,
			Deadline:    now.AddDate(0, 1, 0),
		},
	}

	var finalErr error
	for _, d := range samples {
		d.ID = uuid.New().String()
		d.CreatedAt = now
		d.UpdatedAt = now
		if err := drives.Create(ctx, d); err != nil {
			lgr.Error().Err(err).Str("company", d.CompanyName).Msg("Error creating demo drive")
			finalErr = err
			continue
		}
	}
	return finalErr
}
