// Package repository implements data access for authentication and authorization entities.
//
// Credential and role records live in document store collections and are read through
// the internal/couchdb client. Repositories only read; authentication never mutates.
package repository

import (
	"context"
	"encoding/json"

	authDomain "github.com/dapnet/dbgateway/internal/auth/domain"
	apperrors "github.com/dapnet/dbgateway/internal/errors"
)

// DocumentGetter fetches a raw document by id from a collection.
type DocumentGetter interface {
	Get(ctx context.Context, db, id string) (json.RawMessage, error)
}

// CouchDBCredentialRepository reads user credential records from the users collection.
type CouchDBCredentialRepository struct {
	client     DocumentGetter
	collection string
}

// GetByUsername retrieves the credential record for a username.
// Returns ErrUserNotFound if no record exists.
func (c *CouchDBCredentialRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*authDomain.UserCredential, error) {
	raw, err := c.client.Get(ctx, c.collection, username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user credential")
	}

	var credential authDomain.UserCredential
	if err := json.Unmarshal(raw, &credential); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode user credential")
	}

	return &credential, nil
}

// NewCouchDBCredentialRepository creates a new credential repository reading from collection.
func NewCouchDBCredentialRepository(client DocumentGetter, collection string) *CouchDBCredentialRepository {
	return &CouchDBCredentialRepository{
		client:     client,
		collection: collection,
	}
}

// CouchDBRoleRepository reads role documents from the roles collection.
type CouchDBRoleRepository struct {
	client     DocumentGetter
	collection string
}

// Get retrieves a role by name. Returns ErrRoleNotFound if no role document exists.
func (c *CouchDBRoleRepository) Get(ctx context.Context, name string) (*authDomain.Role, error) {
	raw, err := c.client.Get(ctx, c.collection, name)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role")
	}

	var role authDomain.Role
	if err := json.Unmarshal(raw, &role); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode role")
	}

	return &role, nil
}

// NewCouchDBRoleRepository creates a new role repository reading from collection.
func NewCouchDBRoleRepository(client DocumentGetter, collection string) *CouchDBRoleRepository {
	return &CouchDBRoleRepository{
		client:     client,
		collection: collection,
	}
}
