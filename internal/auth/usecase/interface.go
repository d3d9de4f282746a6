// Package usecase defines business logic interfaces for authentication and authorization operations.
package usecase

import (
	"context"

	authDomain "github.com/dapnet/dbgateway/internal/auth/domain"
)

// CredentialRepository defines read access to user credential records.
type CredentialRepository interface {
	// GetByUsername retrieves a credential record. Returns ErrUserNotFound if not found.
	GetByUsername(ctx context.Context, username string) (*authDomain.UserCredential, error)
}

// RoleRepository defines read access to role documents.
type RoleRepository interface {
	// Get retrieves a role by name. Returns ErrRoleNotFound if not found.
	Get(ctx context.Context, name string) (*authDomain.Role, error)
}

// CredentialUseCase verifies credentials and resolves the caller's permissions.
type CredentialUseCase interface {
	// Authenticate verifies a username and password against the stored credential record
	// and returns a Principal carrying the union of the permissions of the user's roles.
	//
	// Returns ErrInvalidCredentials for unknown users and wrong passwords alike, and
	// ErrUserDisabled when the password matches a disabled account. Store failures are
	// propagated (ErrBackendUnavailable when the store cannot be reached).
	Authenticate(ctx context.Context, username, password string) (*authDomain.Principal, error)
}

// Authorizer evaluates permission requirements against a principal.
type Authorizer interface {
	// Authorize returns nil if the principal satisfies the requirement, ErrPermissionDenied
	// (wrapping ErrForbidden) if it does not, and ErrUnauthorized for a nil principal.
	Authorize(ctx context.Context, principal *authDomain.Principal, requirement authDomain.Requirement) error
}
