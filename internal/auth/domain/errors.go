package domain

import (
	"github.com/dapnet/dbgateway/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrInvalidCredentials indicates an unknown user or a wrong password. Both cases share
	// one error to prevent user enumeration.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrMissingCredentials indicates the request carried no usable credentials.
	ErrMissingCredentials = errors.Wrap(errors.ErrUnauthorized, "missing credentials")

	// ErrUserDisabled indicates the credentials are valid but the account is disabled.
	ErrUserDisabled = errors.Wrap(errors.ErrForbidden, "user is disabled")

	// ErrPermissionDenied indicates the principal lacks the required permission.
	ErrPermissionDenied = errors.Wrap(errors.ErrForbidden, "permission denied")

	// ErrUserNotFound indicates no credential record exists for a username.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrRoleNotFound indicates no role document exists for a role name.
	ErrRoleNotFound = errors.Wrap(errors.ErrNotFound, "role not found")
)
