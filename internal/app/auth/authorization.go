package auth

import (
	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/pkg/apperrors"
)

// Caller is the authenticated principal of a request
type Caller struct {
	ID   string
	Role models.RoleType
}

// IsAdmin reports whether the caller has the admin role
func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// AuthorizeRegistrationAccess allows admins and the registration's own student
func AuthorizeRegistrationAccess(caller Caller, reg *models.StudentRegistration) error {
	if caller.IsAdmin() || (caller.Role == models.RoleStudent && reg.StudentID == caller.ID) {
		return nil
	}
	return apperrors.NewForbiddenError("registration belongs to another student")
}

// AuthorizeStudentScope returns the student id a list query may cover.
// Students are pinned to themselves; admins may ask for any student or none.
func AuthorizeStudentScope(caller Caller, requested string) (string, error) {
	if caller.IsAdmin() {
		return requested, nil
	}
	if requested != "" && requested != caller.ID {
		return "", apperrors.NewForbiddenError("students can only list their own registrations")
	}
	return caller.ID, nil
}
