package dberrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestConstraintErrors(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: RegistrationStudentDriveUnique})
	fk := &pgconn.PgError{Code: "23503", ConstraintName: RegistrationDriveFK}

	if !IsDuplicateConstraintError(dup, RegistrationStudentDriveUnique) {
		t.Error("wrapped unique violation not detected")
	}
	if IsDuplicateConstraintError(dup, "other_key") {
		t.Error("unique violation matched the wrong constraint")
	}
	if !IsForeignKeyError(fk, RegistrationDriveFK) || IsForeignKeyError(dup, RegistrationDriveFK) {
		t.Error("foreign key detection mismatch")
	}
}

func TestIsUnavailable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"no rows", pgx.ErrNoRows, false},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), true},
		{"connection exception", &pgconn.PgError{Code: "08006"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"dial failure", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), true},
	}
	for _, tc := range cases {
		if got := IsUnavailable(tc.err); got != tc.want {
			t.Errorf("%s: IsUnavailable = %v, want %v", tc.name, got, tc.want)
		}
	}
}
