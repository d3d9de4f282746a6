// Package http provides HTTP middleware and utilities for authentication.
package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/dapnet/dbgateway/internal/auth/domain"
	usecaseMocks "github.com/dapnet/dbgateway/internal/auth/usecase/mocks"
	apperrors "github.com/dapnet/dbgateway/internal/errors"
	"github.com/dapnet/dbgateway/internal/httputil"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupAuthRouter mounts the authentication middleware in front of a handler that echoes the principal.
func setupAuthRouter(uc *usecaseMocks.MockCredentialUseCase, opts AuthenticationOptions) *gin.Engine {
	router := gin.New()
	router.Use(AuthenticationMiddleware(uc, opts, createTestLogger()))
	router.GET("/test", func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"identity":    principal.Identity,
			"permissions": principal.Permissions(),
		})
	})
	return router
}

func TestAuthenticationMiddleware(t *testing.T) {
	opts := AuthenticationOptions{Realm: "dapnet"}

	t.Run("Success_ValidCredentials", func(t *testing.T) {
		uc := &usecaseMocks.MockCredentialUseCase{}
		principal := authDomain.NewPrincipal("alice", []string{"admin"}, []authDomain.Permission{"user.read"})
		uc.On("Authenticate", mock.Anything, "alice", "pw").Return(principal, nil).Once()

		router := setupAuthRouter(uc, opts)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.SetBasicAuth("alice", "pw")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"identity":"alice","permissions":["user.read"]}`, w.Body.String())
		uc.AssertExpectations(t)
	})

	t.Run("Error_MissingHeader", func(t *testing.T) {
		uc := &usecaseMocks.MockCredentialUseCase{}
		router := setupAuthRouter(uc, opts)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Header().Get("WWW-Authenticate"), `Basic realm="dapnet"`)
		uc.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_BearerTokenIsNotBasic", func(t *testing.T) {
		uc := &usecaseMocks.MockCredentialUseCase{}
		router := setupAuthRouter(uc, AuthenticationOptions{Realm: "dapnet", AllowAnonymous: true})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer abc")
		router.ServeHTTP(w, req)

		// A present but unusable header is never downgraded to anonymous
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("Error_InvalidCredentials", func(t *testing.T) {
		uc := &usecaseMocks.MockCredentialUseCase{}
		uc.On("Authenticate", mock.Anything, "alice", "wrong").Return(nil, authDomain.ErrInvalidCredentials).Once()

		router := setupAuthRouter(uc, opts)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.SetBasicAuth("alice", "wrong")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))

		var response httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "unauthorized", response.Error)
	})

	t.Run("Error_DisabledUser", func(t *testing.T) {
		uc := &usecaseMocks.MockCredentialUseCase{}
		uc.On("Authenticate", mock.Anything, "alice", "pw").Return(nil, authDomain.ErrUserDisabled).Once()

		router := setupAuthRouter(uc, opts)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.SetBasicAuth("alice", "pw")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("Error_BackendUnavailable", func(t *testing.T) {
		uc := &usecaseMocks.MockCredentialUseCase{}
		uc.On("Authenticate", mock.Anything, "alice", "pw").Return(nil, apperrors.ErrBackendUnavailable).Once()

		router := setupAuthRouter(uc, opts)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.SetBasicAuth("alice", "pw")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("Success_AnonymousWhenEnabled", func(t *testing.T) {
		uc := &usecaseMocks.MockCredentialUseCase{}
		router := setupAuthRouter(uc, AuthenticationOptions{Realm: "dapnet", AllowAnonymous: true})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"identity":"","permissions":[]}`, w.Body.String())
		uc.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPrincipalContext(t *testing.T) {
	ctx := t.Context()

	_, ok := GetPrincipal(ctx)
	assert.False(t, ok)

	principal := authDomain.NewPrincipal("bob", nil, nil)
	got, ok := GetPrincipal(WithPrincipal(ctx, principal))
	assert.True(t, ok)
	assert.Same(t, principal, got)

	_, ok = GetPrincipal(WithPrincipal(ctx, nil))
	assert.False(t, ok)
}
