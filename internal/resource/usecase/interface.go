// Package usecase defines business logic interfaces for mediated resource operations.
package usecase

import (
	"context"
	"encoding/json"

	authDomain "github.com/dapnet/dbgateway/internal/auth/domain"
	resourceDomain "github.com/dapnet/dbgateway/internal/resource/domain"
)

// DocumentRepository defines record access for one collection.
type DocumentRepository interface {
	// Get retrieves a record by id. Returns ErrDocumentNotFound if not found.
	Get(ctx context.Context, id string) (resourceDomain.Document, error)

	// List returns a page of records; design documents and rows without a document are skipped.
	List(ctx context.Context, opts resourceDomain.ListOptions) (*resourceDomain.DocumentList, error)

	// Names runs a pass-through names query.
	Names(ctx context.Context, path string) (json.RawMessage, error)

	// Put stores a record. Returns ErrRevisionConflict on an existing id or stale revision.
	Put(ctx context.Context, id string, doc resourceDomain.Document) (*resourceDomain.WriteResult, error)

	// Delete removes a revision of a record.
	Delete(ctx context.Context, id, rev string) error
}

// SecretHasher hashes secret field values before storage.
type SecretHasher interface {
	HashPassword(plainPassword string) (hashedPassword string, error error)
}

// Mediator enforces access control, field whitelisting and redaction for one resource.
// Every operation authorizes the principal before any document store I/O, except that
// Put rejects payloads it cannot classify before authorization.
type Mediator interface {
	// Definition returns the resource definition the mediator enforces.
	Definition() *resourceDomain.Definition

	// List returns a redacted page of records. Requires the read permission.
	List(
		ctx context.Context,
		principal *authDomain.Principal,
		opts resourceDomain.ListOptions,
	) (*resourceDomain.DocumentList, error)

	// Names returns the pass-through names listing. Requires the list permission.
	Names(ctx context.Context, principal *authDomain.Principal) (json.RawMessage, error)

	// Get returns a redacted record. Requires the read permission or ownership of id.
	Get(ctx context.Context, principal *authDomain.Principal, id string) (resourceDomain.Document, error)

	// Put classifies payload by the presence of _rev and dispatches to Create or Update.
	Put(
		ctx context.Context,
		principal *authDomain.Principal,
		payload resourceDomain.Document,
	) (*resourceDomain.WriteResult, error)

	// Create stores a new record. Requires the create permission; never satisfied by ownership.
	Create(
		ctx context.Context,
		principal *authDomain.Principal,
		op resourceDomain.CreateOperation,
	) (*resourceDomain.WriteResult, error)

	// Update copies whitelisted fields onto the stored record. Requires the update permission
	// or ownership of the target record, plus the extra permission of any guarded field.
	Update(
		ctx context.Context,
		principal *authDomain.Principal,
		op resourceDomain.UpdateOperation,
	) (*resourceDomain.WriteResult, error)

	// Delete removes revision rev of record id. Requires the delete permission or ownership of id.
	Delete(ctx context.Context, principal *authDomain.Principal, id, rev string) error
}
