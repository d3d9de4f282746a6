// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"errors"
	"slices"

	"golang.org/x/sync/errgroup"

	authDomain "github.com/dapnet/dbgateway/internal/auth/domain"
	authService "github.com/dapnet/dbgateway/internal/auth/service"
)

// maxConcurrentRoleFetches bounds the number of parallel role lookups per authentication.
const maxConcurrentRoleFetches = 8

// credentialUseCase implements CredentialUseCase on top of the credential and role repositories.
type credentialUseCase struct {
	credentialRepo  CredentialRepository
	roleRepo        RoleRepository
	passwordService authService.PasswordService
}

// Authenticate verifies the credentials and builds the caller's Principal.
//
// This method:
// 1. Normalizes the username (trimmed, lowercased)
// 2. Fetches the credential record
// 3. Verifies the password against the stored hash
// 4. Rejects disabled accounts
// 5. Resolves the permission set from the user's role documents
//
// Security Notes:
//   - Returns ErrInvalidCredentials for both unknown users and wrong passwords
//     to prevent user enumeration attacks
//   - The disabled state is only checked after the password matched
//   - The plain password is never stored on the returned Principal
func (c *credentialUseCase) Authenticate(
	ctx context.Context,
	username, password string,
) (*authDomain.Principal, error) {
	username = authDomain.NormalizeIdentity(username)
	if username == "" || password == "" {
		return nil, authDomain.ErrInvalidCredentials
	}

	credential, err := c.credentialRepo.GetByUsername(ctx, username)
	if err != nil {
		// If user not found, return generic error to prevent enumeration
		if errors.Is(err, authDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !c.passwordService.ComparePassword(password, credential.PasswordHash) {
		return nil, authDomain.ErrInvalidCredentials
	}

	if !credential.Enabled {
		return nil, authDomain.ErrUserDisabled
	}

	roles := uniqueRoles(credential.Roles)
	permissions, err := c.resolvePermissions(ctx, roles)
	if err != nil {
		return nil, err
	}

	return authDomain.NewPrincipal(username, roles, permissions), nil
}

// resolvePermissions fetches every role document concurrently and returns the union of
// their permissions. Missing role documents contribute nothing.
func (c *credentialUseCase) resolvePermissions(
	ctx context.Context,
	roles []string,
) ([]authDomain.Permission, error) {
	results := make([][]authDomain.Permission, len(roles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRoleFetches)

	for i, name := range roles {
		g.Go(func() error {
			role, err := c.roleRepo.Get(gctx, name)
			if err != nil {
				if errors.Is(err, authDomain.ErrRoleNotFound) {
					return nil
				}
				return err
			}
			results[i] = role.Permissions
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var permissions []authDomain.Permission
	for _, granted := range results {
		permissions = append(permissions, granted...)
	}
	return permissions, nil
}

// uniqueRoles drops blank and duplicate role names, preserving order.
func uniqueRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		if role == "" || slices.Contains(out, role) {
			continue
		}
		out = append(out, role)
	}
	return out
}

// NewCredentialUseCase creates a new CredentialUseCase with the provided dependencies.
func NewCredentialUseCase(
	credentialRepo CredentialRepository,
	roleRepo RoleRepository,
	passwordService authService.PasswordService,
) CredentialUseCase {
	return &credentialUseCase{
		credentialRepo:  credentialRepo,
		roleRepo:        roleRepo,
		passwordService: passwordService,
	}
}
