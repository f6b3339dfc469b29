package services

import (
	"context"
	"fmt"

	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/repositories"
)

// collections is a point-in-time copy of both stores used by the read-only folds
type collections struct {
	registrations []*models.StudentRegistration
	drives        map[string]*models.PlacementDrive
}

func loadCollections(ctx context.Context, drives repositories.DriveStore, registrations repositories.RegistrationStore) (*collections, error) {
	regs, err := registrations.List(ctx, repositories.RegistrationFilter{})
	if err != nil {
		return nil, fmt.Errorf("error retrieving registrations: %w", err)
	}
	list, err := drives.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving drives: %w", err)
	}
	return &collections{registrations: regs, drives: indexDrives(list)}, nil
}
