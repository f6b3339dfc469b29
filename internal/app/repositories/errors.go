package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/dberrors"
)

// errCorruptRow marks a stored value that could not be decoded.
var errCorruptRow = errors.New("corrupt row")

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// withTimeout bounds a remote call so it never hangs.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// mapDBError turns a pgx error into the application error the services understand.
func mapDBError(op string, err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case dberrors.IsNoRows(err):
		return notFound
	case errors.Is(err, errCorruptRow):
		return fmt.Errorf("%s: %w", op, err)
	case dberrors.IsDuplicateConstraintError(err, dberrors.RegistrationStudentDriveUnique):
		return apperrors.ErrDuplicateRegistration
	case dberrors.IsUnavailable(err):
		return apperrors.NewRemoteUnavailableError(op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
