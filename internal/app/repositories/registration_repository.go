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

var registrationColumns = []string{
	"id", "drive_id", "student_id", "student_name", "roll_number", "branch", "year", "cgpa",
	"email", "phone", "linkedin", "github", "academic_year", "submitted_at", "status",
	"has_offer", "offer_documents", "multiple_offers", "offer_attached_at", "updated_at",
}

// RegistrationRepository is the Postgres RegistrationStore
type RegistrationRepository struct {
	db      *pgxpool.Pool
	sb      squirrel.StatementBuilderType
	timeout time.Duration
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(db *pgxpool.Pool, timeout time.Duration) *RegistrationRepository {
	return &RegistrationRepository{
		db:      db,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		timeout: timeout,
	}
}

// Create inserts a registration. The (student_id, drive_id) unique key rejects duplicates.
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.StudentRegistration) error {
	docs, err := encodeOfferDocuments(reg.OfferDocuments)
	if err != nil {
		return err
	}

	query, args, err := r.sb.Insert("registrations").
		Columns(registrationColumns...).
		Values(
			reg.ID, reg.DriveID, reg.StudentID, reg.StudentName, reg.RollNumber, string(reg.Branch), int(reg.Year), reg.CGPA,
			reg.Email, reg.Phone, reg.LinkedIn, reg.GitHub, reg.AcademicYear, reg.SubmittedAt, string(reg.Status),
			reg.HasOffer, docs, reg.MultipleOffers, reg.OfferAttachedAt, reg.UpdatedAt,
		).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create registration query: %w", err)
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if dberrors.IsForeignKeyError(err, dberrors.RegistrationDriveFK) {
			return apperrors.ErrDriveNotFound
		}
		logger.Debug().Err(err).Str("studentId", reg.StudentID).Str("driveId", reg.DriveID).Msg("Create registration failed")
		return mapDBError("create registration", err, apperrors.ErrRegistrationNotFound)
	}
	return nil
}

// GetByID retrieves a registration by ID
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*models.StudentRegistration, error) {
	return r.getOne(ctx, "get registration", squirrel.Eq{"id": id})
}

// FindByStudentAndDrive retrieves the registration for a student-drive pair
func (r *RegistrationRepository) FindByStudentAndDrive(ctx context.Context, studentID, driveID string) (*models.StudentRegistration, error) {
	return r.getOne(ctx, "find registration", squirrel.Eq{"student_id": studentID, "drive_id": driveID})
}

func (r *RegistrationRepository) getOne(ctx context.Context, op string, where squirrel.Eq) (*models.StudentRegistration, error) {
	query, args, err := r.sb.Select(registrationColumns...).
		From("registrations").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	reg, err := scanRegistration(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapDBError(op, err, apperrors.ErrRegistrationNotFound)
	}
	return reg, nil
}

// List retrieves registrations matching filter in insertion order
func (r *RegistrationRepository) List(ctx context.Context, filter RegistrationFilter) ([]*models.StudentRegistration, error) {
	where := squirrel.And{}
	if filter.DriveID != "" {
		where = append(where, squirrel.Eq{"drive_id": filter.DriveID})
	}
	if filter.StudentID != "" {
		where = append(where, squirrel.Eq{"student_id": filter.StudentID})
	}

	query, args, err := r.sb.Select(registrationColumns...).
		From("registrations").
		Where(where).
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list registrations query: %w", err)
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapDBError("list registrations", err, apperrors.ErrRegistrationNotFound)
	}
	defer rows.Close()

	regs := make([]*models.StudentRegistration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, mapDBError("scan registration", err, apperrors.ErrRegistrationNotFound)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError("list registrations", err, apperrors.ErrRegistrationNotFound)
	}
	return regs, nil
}

// Update writes the lifecycle and offer fields of a registration
func (r *RegistrationRepository) Update(ctx context.Context, reg *models.StudentRegistration) error {
	docs, err := encodeOfferDocuments(reg.OfferDocuments)
	if err != nil {
		return err
	}

	query, args, err := r.sb.Update("registrations").
		SetMap(map[string]interface{}{
			"status":            string(reg.Status),
			"has_offer":         reg.HasOffer,
			"offer_documents":   docs,
			"multiple_offers":   reg.MultipleOffers,
			"offer_attached_at": reg.OfferAttachedAt,
			"updated_at":        reg.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": reg.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update registration query: %w", err)
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapDBError("update registration", err, apperrors.ErrRegistrationNotFound)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRegistrationNotFound
	}
	return nil
}

// CountByDrive returns the number of registrations referencing a drive
func (r *RegistrationRepository) CountByDrive(ctx context.Context, driveID string) (int, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM registrations WHERE drive_id = $1`, driveID).Scan(&count)
	if err != nil {
		return 0, mapDBError("count registrations", err, apperrors.ErrRegistrationNotFound)
	}
	return count, nil
}

func encodeOfferDocuments(docs *models.OfferDocuments) ([]byte, error) {
	if docs == nil {
		return nil, nil
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode offer documents: %w", err)
	}
	return b, nil
}

func scanRegistration(row rowScanner) (*models.StudentRegistration, error) {
	var (
		reg            models.StudentRegistration
		branch, status string
		year           int
		docs           []byte
	)
	if err := row.Scan(
		&reg.ID, &reg.DriveID, &reg.StudentID, &reg.StudentName, &reg.RollNumber, &branch, &year, &reg.CGPA,
		&reg.Email, &reg.Phone, &reg.LinkedIn, &reg.GitHub, &reg.AcademicYear, &reg.SubmittedAt, &status,
		&reg.HasOffer, &docs, &reg.MultipleOffers, &reg.OfferAttachedAt, &reg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	reg.Branch = models.Branch(branch)
	reg.Year = models.Year(year)
	reg.Status = models.RegistrationStatus(status)
	if len(docs) > 0 {
		var d models.OfferDocuments
		if err := json.Unmarshal(docs, &d); err != nil {
			return nil, fmt.Errorf("%w: offer documents: %v", errCorruptRow, err)
		}
		reg.OfferDocuments = &d
	}
	return &reg, nil
}
