package usecase

import (
	"context"
	"time"

	authDomain "github.com/dapnet/dbgateway/internal/auth/domain"
	apperrors "github.com/dapnet/dbgateway/internal/errors"
	"github.com/dapnet/dbgateway/internal/metrics"
)

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Authenticate records metrics for credential verification.
func (c *credentialUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	username, password string,
) (*authDomain.Principal, error) {
	start := time.Now()
	principal, err := c.next.Authenticate(ctx, username, password)

	status := authStatus(err)
	c.metrics.RecordOperation(ctx, "auth", "authenticate", status)
	c.metrics.RecordDuration(ctx, "auth", "authenticate", time.Since(start), status)

	return principal, err
}

// authorizerWithMetrics decorates Authorizer with metrics instrumentation.
type authorizerWithMetrics struct {
	next    Authorizer
	metrics metrics.BusinessMetrics
}

// NewAuthorizerWithMetrics wraps an Authorizer with decision counting.
func NewAuthorizerWithMetrics(authorizer Authorizer, m metrics.BusinessMetrics) Authorizer {
	return &authorizerWithMetrics{
		next:    authorizer,
		metrics: m,
	}
}

// Authorize records the authorization decision.
func (a *authorizerWithMetrics) Authorize(
	ctx context.Context,
	principal *authDomain.Principal,
	requirement authDomain.Requirement,
) error {
	err := a.next.Authorize(ctx, principal, requirement)
	a.metrics.RecordOperation(ctx, "auth", "authorize", authStatus(err))
	return err
}

// authStatus distinguishes caller errors from infrastructure errors in metric labels.
func authStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return "unauthorized"
	case apperrors.Is(err, apperrors.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
