// Package mocks provides mock implementations of the auth use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/dapnet/dbgateway/internal/auth/domain"
)

// MockCredentialUseCase is a mock implementation of CredentialUseCase for testing.
type MockCredentialUseCase struct {
	mock.Mock
}

// Authenticate mocks the Authenticate method of CredentialUseCase.
func (m *MockCredentialUseCase) Authenticate(
	ctx context.Context,
	username, password string,
) (*authDomain.Principal, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Principal), args.Error(1)
}

// MockAuthorizer is a mock implementation of Authorizer for testing.
type MockAuthorizer struct {
	mock.Mock
}

// Authorize mocks the Authorize method of Authorizer.
func (m *MockAuthorizer) Authorize(
	ctx context.Context,
	principal *authDomain.Principal,
	requirement authDomain.Requirement,
) error {
	args := m.Called(ctx, principal, requirement)
	return args.Error(0)
}
