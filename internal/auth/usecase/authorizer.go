package usecase

import (
	"context"
	"log/slog"

	authDomain "github.com/dapnet/dbgateway/internal/auth/domain"
	apperrors "github.com/dapnet/dbgateway/internal/errors"
)

// authorizer implements Authorizer using Principal.IsAllowed.
type authorizer struct {
	logger *slog.Logger
}

// Authorize evaluates the requirement. It performs no I/O.
func (a *authorizer) Authorize(
	ctx context.Context,
	principal *authDomain.Principal,
	requirement authDomain.Requirement,
) error {
	if principal == nil {
		return apperrors.ErrUnauthorized
	}

	if principal.IsAllowed(requirement.Permission, requirement.Owner) {
		a.logger.DebugContext(ctx, "access granted",
			slog.String("principal", principal.Identity),
			slog.String("permission", string(requirement.Permission)),
			slog.Bool("owner", principal.IsOwner(requirement.Owner)),
		)
		return nil
	}

	a.logger.DebugContext(ctx, "access denied",
		slog.String("principal", principal.Identity),
		slog.String("permission", string(requirement.Permission)),
		slog.String("owner", requirement.Owner),
	)
	return authDomain.ErrPermissionDenied
}

// NewAuthorizer creates a new Authorizer.
func NewAuthorizer(logger *slog.Logger) Authorizer {
	return &authorizer{logger: logger}
}
