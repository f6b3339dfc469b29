package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/dberrors"
	"github.com/yigit/placement/internal/pkg/logger"
)

var driveColumns = []string{
	"id", "company_name", "position", "type", "category", "package",
	"opens_at", "deadline", "closed_manually", "eligibility_criteria",
	"job_description", "registration_link", "company_info_link", "series_number",
	"created_at", "updated_at",
}

// DriveRepository is the Postgres DriveStore
type DriveRepository struct {
	db      *pgxpool.Pool
	sb      squirrel.StatementBuilderType
	timeout time.Duration
}

// NewDriveRepository creates a new DriveRepository
func NewDriveRepository(db *pgxpool.Pool, timeout time.Duration) *DriveRepository {
	return &DriveRepository{
		db:      db,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		timeout: timeout,
	}
}

// Create inserts a new drive
func (r *DriveRepository) Create(ctx context.Context, drive *models.PlacementDrive) error {
	criteria, err := json.Marshal(drive.EligibilityCriteria)
	if err != nil {
		return fmt.Errorf("failed to encode eligibility criteria: %w", err)
	}

	query, args, err := r.sb.Insert("placement_drives").
		Columns(driveColumns...).
		Values(
			drive.ID, drive.CompanyName, drive.Position, string(drive.Type), string(drive.Category), drive.Package,
			drive.OpensAt, drive.Deadline, drive.ClosedManually, criteria,
			drive.JobDescription, drive.RegistrationLink, drive.CompanyInfoLink, drive.SeriesNumber,
			drive.CreatedAt, drive.UpdatedAt,
		).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create drive query: %w", err)
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		logger.Error().Err(err).Str("driveId", drive.ID).Msg("Error creating drive")
		return mapDBError("create drive", err, apperrors.ErrDriveNotFound)
	}
	return nil
}

// GetByID retrieves a drive by ID
func (r *DriveRepository) GetByID(ctx context.Context, id string) (*models.PlacementDrive, error) {
	query, args, err := r.sb.Select(driveColumns...).
		From("placement_drives").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get drive query: %w", err)
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	drive, err := scanDrive(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapDBError("get drive", err, apperrors.ErrDriveNotFound)
	}
	return drive, nil
}

// List retrieves all drives in creation order
func (r *DriveRepository) List(ctx context.Context) ([]*models.PlacementDrive, error) {
	query, args, err := r.sb.Select(driveColumns...).
		From("placement_drives").
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list drives query: %w", err)
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapDBError("list drives", err, apperrors.ErrDriveNotFound)
	}
	defer rows.Close()

	drives := make([]*models.PlacementDrive, 0)
	for rows.Next() {
		drive, err := scanDrive(rows)
		if err != nil {
			return nil, mapDBError("scan drive", err, apperrors.ErrDriveNotFound)
		}
		drives = append(drives, drive)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError("list drives", err, apperrors.ErrDriveNotFound)
	}
	return drives, nil
}

// Update overwrites the mutable fields of a drive
func (r *DriveRepository) Update(ctx context.Context, drive *models.PlacementDrive) error {
	criteria, err := json.Marshal(drive.EligibilityCriteria)
	if err != nil {
		return fmt.Errorf("failed to encode eligibility criteria: %w", err)
	}

	query, args, err := r.sb.Update("placement_drives").
		SetMap(map[string]interface{}{
			"company_name":         drive.CompanyName,
			"position":             drive.Position,
			"type":                 string(drive.Type),
			"category":             string(drive.Category),
			"package":              drive.Package,
			"opens_at":             drive.OpensAt,
			"deadline":             drive.Deadline,
			"closed_manually":      drive.ClosedManually,
			"eligibility_criteria": criteria,
			"job_description":      drive.JobDescription,
			"registration_link":    drive.RegistrationLink,
			"company_info_link":    drive.CompanyInfoLink,
			"series_number":        drive.SeriesNumber,
			"updated_at":           drive.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": drive.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update drive query: %w", err)
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapDBError("update drive", err, apperrors.ErrDriveNotFound)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDriveNotFound
	}
	return nil
}

// Delete removes a drive. Referenced drives are rejected by the foreign key.
func (r *DriveRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM placement_drives WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyError(err, dberrors.RegistrationDriveFK) {
			return apperrors.ErrDriveHasRegistrations
		}
		return mapDBError("delete drive", err, apperrors.ErrDriveNotFound)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDriveNotFound
	}
	return nil
}

func scanDrive(row rowScanner) (*models.PlacementDrive, error) {
	var (
		drive               models.PlacementDrive
		driveType, category string
		criteria            []byte
	)
	if err := row.Scan(
		&drive.ID, &drive.CompanyName, &drive.Position, &driveType, &category, &drive.Package,
		&drive.OpensAt, &drive.Deadline, &drive.ClosedManually, &criteria,
		&drive.JobDescription, &drive.RegistrationLink, &drive.CompanyInfoLink, &drive.SeriesNumber,
		&drive.CreatedAt, &drive.UpdatedAt,
	); err != nil {
		return nil, err
	}
	drive.Type = models.DriveType(driveType)
	drive.Category = models.DriveCategory(category)
	if len(criteria) > 0 {
		if err := json.Unmarshal(criteria, &drive.EligibilityCriteria); err != nil {
			return nil, fmt.Errorf("%w: eligibility criteria: %v", errCorruptRow, err)
		}
	}
	return &drive, nil
}
