package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/dapnet/dbgateway/internal/auth/domain"
	authMocks "github.com/dapnet/dbgateway/internal/auth/usecase/mocks"
	apperrors "github.com/dapnet/dbgateway/internal/errors"
)

func TestRunVerifyCredentials(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	principal := authDomain.NewPrincipal(
		"alice",
		[]string{"admin"},
		[]authDomain.Permission{"user.update", "user.read"},
	)

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &authMocks.MockCredentialUseCase{}
		mockUseCase.On("Authenticate", ctx, "alice", "s3cret").Return(principal, nil)

		var out bytes.Buffer
		err := RunVerifyCredentials(ctx, mockUseCase, logger, IOTuple{Reader: strings.NewReader(""), Writer: &out},
			"alice", "s3cret", "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Identity:    alice")
		assert.Contains(t, out.String(), "Roles:       admin")
		assert.Contains(t, out.String(), "Permissions: user.read, user.update")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output-password-from-input", func(t *testing.T) {
		mockUseCase := &authMocks.MockCredentialUseCase{}
		mockUseCase.On("Authenticate", ctx, "alice", "s3cret").Return(principal, nil)

		var out bytes.Buffer
		err := RunVerifyCredentials(ctx, mockUseCase, logger, IOTuple{Reader: strings.NewReader("s3cret\n"), Writer: &out},
			"alice", "", "json")

		require.NoError(t, err)
		var result struct {
			Identity    string   `json:"identity"`
			Roles       []string `json:"roles"`
			Permissions []string `json:"permissions"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, "alice", result.Identity)
		assert.Equal(t, []string{"admin"}, result.Roles)
		assert.Equal(t, []string{"user.read", "user.update"}, result.Permissions)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-credentials", func(t *testing.T) {
		mockUseCase := &authMocks.MockCredentialUseCase{}
		mockUseCase.On("Authenticate", ctx, "alice", "wrong").Return(nil, authDomain.ErrInvalidCredentials)

		err := RunVerifyCredentials(ctx, mockUseCase, logger, IOTuple{Reader: strings.NewReader(""), Writer: &bytes.Buffer{}},
			"alice", "wrong", "text")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("disabled-user", func(t *testing.T) {
		mockUseCase := &authMocks.MockCredentialUseCase{}
		mockUseCase.On("Authenticate", ctx, "dave", "s3cret").Return(nil, authDomain.ErrUserDisabled)

		err := RunVerifyCredentials(ctx, mockUseCase, logger, IOTuple{Reader: strings.NewReader(""), Writer: &bytes.Buffer{}},
			"dave", "s3cret", "json")

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("empty-username", func(t *testing.T) {
		mockUseCase := &authMocks.MockCredentialUseCase{}

		err := RunVerifyCredentials(ctx, mockUseCase, logger, IOTuple{Reader: strings.NewReader(""), Writer: &bytes.Buffer{}},
			" ", "s3cret", "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "username must not be empty")
		mockUseCase.AssertNotCalled(t, "Authenticate")
	})
}
