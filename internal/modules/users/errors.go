package users

import (
	"errors"

	"github.com/skairipa08/FundEd/internal/shared/apperr"
)

// ErrNoSession means the request carries no usable session. It never reaches
// the client directly; RequireAuth turns absence into ErrNotAuthenticated.
var ErrNoSession = errors.New("no valid session")

var (
	ErrNotAuthenticated = apperr.UnauthorizedErr("Not authenticated")
	ErrForbidden        = apperr.ForbiddenErr("Insufficient permissions")
	ErrAccountDisabled  = apperr.ForbiddenErr("Account has been deleted")

	ErrUserNotFound    = apperr.NotFoundErr("User not found")
	ErrProfileNotFound = apperr.NotFoundErr("Student profile not found")
	ErrProfileExists   = apperr.InvalidErr("Student profile already exists", nil)

	ErrInvalidAction = apperr.InvalidErr("action must be 'approve' or 'reject'", nil)
	ErrInvalidRole   = apperr.InvalidErr("Invalid role. Must be one of: donor, student, admin, institution", nil)
	ErrDemoteSelf    = apperr.InvalidErr("Cannot remove your own admin role", nil)
	ErrDeleteSelf    = apperr.InvalidErr("Cannot delete your own account", nil)
)
