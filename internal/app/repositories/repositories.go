package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/pkg/kvstore"
)

// DriveStore persists placement drives.
type DriveStore interface {
	Create(ctx context.Context, drive *models.PlacementDrive) error
	GetByID(ctx context.Context, id string) (*models.PlacementDrive, error)
	// List returns every drive in creation order.
	List(ctx context.Context) ([]*models.PlacementDrive, error)
	Update(ctx context.Context, drive *models.PlacementDrive) error
	Delete(ctx context.Context, id string) error
}

// RegistrationFilter narrows List. Empty fields match everything.
type RegistrationFilter struct {
	DriveID   string
	StudentID string
}

func (f RegistrationFilter) matches(reg *models.StudentRegistration) bool {
	if f.DriveID != "" && reg.DriveID != f.DriveID {
		return false
	}
	return f.StudentID == "" || reg.StudentID == f.StudentID
}

// RegistrationStore persists student registrations.
// Create must reject a second registration for the same student and drive
// with apperrors.ErrDuplicateRegistration.
type RegistrationStore interface {
	Create(ctx context.Context, reg *models.StudentRegistration) error
	GetByID(ctx context.Context, id string) (*models.StudentRegistration, error)
	FindByStudentAndDrive(ctx context.Context, studentID, driveID string) (*models.StudentRegistration, error)
	// List returns matching registrations in insertion order.
	List(ctx context.Context, filter RegistrationFilter) ([]*models.StudentRegistration, error)
	Update(ctx context.Context, reg *models.StudentRegistration) error
	CountByDrive(ctx context.Context, driveID string) (int, error)
}

// Repositories holds the store instances the services are built from
type Repositories struct {
	Drives        DriveStore
	Registrations RegistrationStore
}

// NewRepositories wires the stores. With a database pool the Postgres stores are
// primary and the key-value stores act as local fallback; without one only the
// local stores are used.
func NewRepositories(db *pgxpool.Pool, kv kvstore.Store, timeout time.Duration, lgr zerolog.Logger) *Repositories {
	localDrives := NewLocalDriveStore(kv)
	localRegs := NewLocalRegistrationStore(kv)

	if db == nil {
		lgr.Warn().Msg("No database pool, running on the local store only")
		return &Repositories{
			Drives:        localDrives,
			Registrations: localRegs,
		}
	}

	return &Repositories{
		Drives:        NewFallbackDriveStore(NewDriveRepository(db, timeout), localDrives, lgr),
		Registrations: NewFallbackRegistrationStore(NewRegistrationRepository(db, timeout), localRegs, lgr),
	}
}
