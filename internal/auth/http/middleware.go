// Package http provides HTTP middleware and utilities for authentication.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authDomain "github.com/dapnet/dbgateway/internal/auth/domain"
	authUseCase "github.com/dapnet/dbgateway/internal/auth/usecase"
	apperrors "github.com/dapnet/dbgateway/internal/errors"
	"github.com/dapnet/dbgateway/internal/httputil"
)

// AuthenticationOptions configures the authentication middleware.
type AuthenticationOptions struct {
	// Realm is announced in the WWW-Authenticate challenge.
	Realm string

	// AllowAnonymous admits requests without an Authorization header as the anonymous principal.
	AllowAnonymous bool
}

// AuthenticationMiddleware provides authentication via HTTP Basic credentials.
//
// The middleware:
// 1. Extracts username and password from the Authorization header
// 2. Verifies them using credentialUseCase.Authenticate()
// 3. Stores the resulting principal in the request context
// 4. Allows downstream handlers to access the principal via GetPrincipal()
//
// Requests without an Authorization header are admitted as the anonymous principal
// when AllowAnonymous is set. A header that is present but unusable is always rejected.
//
// Error handling:
//   - Missing Authorization header → 401 Unauthorized (unless anonymous access is enabled)
//   - Malformed Authorization header → 401 Unauthorized
//   - Unknown user or wrong password → 401 Unauthorized
//   - Disabled user → 403 Forbidden
//   - Document store unavailable → 503 Service Unavailable
//
// Every 401 carries a "WWW-Authenticate: Basic" challenge.
func AuthenticationMiddleware(
	credentialUseCase authUseCase.CredentialUseCase,
	opts AuthenticationOptions,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if opts.AllowAnonymous {
				ctx := WithPrincipal(c.Request.Context(), authDomain.Anonymous())
				c.Request = c.Request.WithContext(ctx)
				c.Next()
				return
			}

			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleUnauthorizedGin(c, authDomain.ErrMissingCredentials, opts.Realm, logger)
			c.Abort()
			return
		}

		username, password, ok := c.Request.BasicAuth()
		if !ok {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleUnauthorizedGin(c, authDomain.ErrMissingCredentials, opts.Realm, logger)
			c.Abort()
			return
		}

		principal, err := credentialUseCase.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("username", authDomain.NormalizeIdentity(username)),
				slog.String("error", err.Error()))

			if apperrors.Is(err, apperrors.ErrUnauthorized) {
				httputil.HandleUnauthorizedGin(c, err, opts.Realm, logger)
			} else {
				httputil.HandleErrorGin(c, err, logger)
			}
			c.Abort()
			return
		}

		ctx := WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("principal", principal.Identity),
			slog.Any("roles", principal.Roles))

		c.Next()
	}
}
