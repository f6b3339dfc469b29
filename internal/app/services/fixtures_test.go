package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/repositories"
	"github.com/yigit/placement/internal/pkg/kvstore"
)

type testStores struct {
	drives        *repositories.LocalDriveStore
	registrations *repositories.LocalRegistrationStore
}

func newTestStores() *testStores {
	kv := kvstore.NewMemoryStore()
	return &testStores{
		drives:        repositories.NewLocalDriveStore(kv),
		registrations: repositories.NewLocalRegistrationStore(kv),
	}
}

func (s *testStores) addDrive(t *testing.T, drive *models.PlacementDrive) *models.PlacementDrive {
	t.Helper()
	if err := s.drives.Create(context.Background(), drive); err != nil {
		t.Fatalf("create drive %s: %v", drive.ID, err)
	}
	return drive
}

func (s *testStores) addRegistration(t *testing.T, reg *models.StudentRegistration) *models.StudentRegistration {
	t.Helper()
	if err := s.registrations.Create(context.Background(), reg); err != nil {
		t.Fatalf("create registration %s: %v", reg.ID, err)
	}
	return reg
}

func fixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
