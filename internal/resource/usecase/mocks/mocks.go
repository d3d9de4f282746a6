// Package mocks provides mock implementations of the resource use cases for testing.
package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/dapnet/dbgateway/internal/auth/domain"
	resourceDomain "github.com/dapnet/dbgateway/internal/resource/domain"
)

// MockMediator is a mock implementation of Mediator for testing.
type MockMediator struct {
	mock.Mock
}

// Definition mocks the Definition method of Mediator.
func (m *MockMediator) Definition() *resourceDomain.Definition {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*resourceDomain.Definition)
}

// List mocks the List method of Mediator.
func (m *MockMediator) List(
	ctx context.Context,
	principal *authDomain.Principal,
	opts resourceDomain.ListOptions,
) (*resourceDomain.DocumentList, error) {
	args := m.Called(ctx, principal, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resourceDomain.DocumentList), args.Error(1)
}

// Names mocks the Names method of Mediator.
func (m *MockMediator) Names(ctx context.Context, principal *authDomain.Principal) (json.RawMessage, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// Get mocks the Get method of Mediator.
func (m *MockMediator) Get(
	ctx context.Context,
	principal *authDomain.Principal,
	id string,
) (resourceDomain.Document, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(resourceDomain.Document), args.Error(1)
}

// Put mocks the Put method of Mediator.
func (m *MockMediator) Put(
	ctx context.Context,
	principal *authDomain.Principal,
	payload resourceDomain.Document,
) (*resourceDomain.WriteResult, error) {
	args := m.Called(ctx, principal, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resourceDomain.WriteResult), args.Error(1)
}

// Create mocks the Create method of Mediator.
func (m *MockMediator) Create(
	ctx context.Context,
	principal *authDomain.Principal,
	op resourceDomain.CreateOperation,
) (*resourceDomain.WriteResult, error) {
	args := m.Called(ctx, principal, op)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resourceDomain.WriteResult), args.Error(1)
}

// Update mocks the Update method of Mediator.
func (m *MockMediator) Update(
	ctx context.Context,
	principal *authDomain.Principal,
	op resourceDomain.UpdateOperation,
) (*resourceDomain.WriteResult, error) {
	args := m.Called(ctx, principal, op)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resourceDomain.WriteResult), args.Error(1)
}

// Delete mocks the Delete method of Mediator.
func (m *MockMediator) Delete(ctx context.Context, principal *authDomain.Principal, id, rev string) error {
	args := m.Called(ctx, principal, id, rev)
	return args.Error(0)
}
