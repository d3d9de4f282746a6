// Package usecase implements business logic orchestration for mediated resources.
package usecase

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"strings"
	"time"

	authDomain "github.com/dapnet/dbgateway/internal/auth/domain"
	authUseCase "github.com/dapnet/dbgateway/internal/auth/usecase"
	apperrors "github.com/dapnet/dbgateway/internal/errors"
	resourceDomain "github.com/dapnet/dbgateway/internal/resource/domain"
)

// mediator implements Mediator for a single resource definition.
type mediator struct {
	definition *resourceDomain.Definition
	repo       DocumentRepository
	authorizer authUseCase.Authorizer
	hasher     SecretHasher
	now        func() time.Time
}

// Definition returns the resource definition.
func (m *mediator) Definition() *resourceDomain.Definition {
	return m.definition
}

// List returns a redacted page of records.
func (m *mediator) List(
	ctx context.Context,
	principal *authDomain.Principal,
	opts resourceDomain.ListOptions,
) (*resourceDomain.DocumentList, error) {
	if err := m.authorize(ctx, principal, authDomain.Require(m.definition.Permissions.Read)); err != nil {
		return nil, err
	}

	page, err := m.repo.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	out := &resourceDomain.DocumentList{
		TotalRows: page.TotalRows,
		Rows:      make([]resourceDomain.Document, 0, len(page.Rows)),
	}
	for _, doc := range page.Rows {
		out.Rows = append(out.Rows, doc.Redact(m.definition.RedactedFields))
	}
	return out, nil
}

// Names returns the pass-through names listing.
func (m *mediator) Names(ctx context.Context, principal *authDomain.Principal) (json.RawMessage, error) {
	if err := m.authorize(ctx, principal, authDomain.Require(m.definition.Permissions.List)); err != nil {
		return nil, err
	}

	if m.definition.NamesPath == "" {
		return nil, apperrors.ErrNotFound
	}
	return m.repo.Names(ctx, m.definition.NamesPath)
}

// Get returns a redacted record.
func (m *mediator) Get(
	ctx context.Context,
	principal *authDomain.Principal,
	id string,
) (resourceDomain.Document, error) {
	id = m.definition.NormalizeID(id)

	requirement := authDomain.RequireOrOwner(m.definition.Permissions.Read, m.definition.Owner(id))
	if err := m.authorize(ctx, principal, requirement); err != nil {
		return nil, err
	}

	if id == "" || resourceDomain.IsReservedID(id) {
		return nil, resourceDomain.ErrDocumentNotFound
	}

	doc, err := m.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.Redact(m.definition.RedactedFields), nil
}

// Put classifies the payload once and dispatches it.
func (m *mediator) Put(
	ctx context.Context,
	principal *authDomain.Principal,
	payload resourceDomain.Document,
) (*resourceDomain.WriteResult, error) {
	op, err := resourceDomain.ClassifyWrite(payload)
	if err != nil {
		return nil, err
	}

	switch op := op.(type) {
	case resourceDomain.UpdateOperation:
		return m.Update(ctx, principal, op)
	case resourceDomain.CreateOperation:
		return m.Create(ctx, principal, op)
	default:
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unsupported write operation")
	}
}

// Create stores a new record.
//
// This method:
// 1. Requires the create permission (no owner override)
// 2. Validates the payload
// 3. Stamps created_on and created_by, overwriting client values
// 4. Hashes secret fields
// 5. Stores the record without a revision so an existing id is a conflict
func (m *mediator) Create(
	ctx context.Context,
	principal *authDomain.Principal,
	op resourceDomain.CreateOperation,
) (*resourceDomain.WriteResult, error) {
	if err := m.authorize(ctx, principal, authDomain.Require(m.definition.Permissions.Create)); err != nil {
		return nil, err
	}

	id := m.definition.NormalizeID(op.ID)
	doc := op.Payload.Clone()
	if doc == nil {
		doc = resourceDomain.Document{}
	}
	delete(doc, resourceDomain.FieldRev)
	if id != "" {
		doc[resourceDomain.FieldID] = id
	}

	if err := m.definition.ValidateCreate(doc); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, resourceDomain.ErrMissingID
	}

	doc[resourceDomain.FieldCreatedOn] = m.now().UTC().Format(time.RFC3339)
	doc[resourceDomain.FieldCreatedBy] = principal.Identity

	if err := m.hashSecrets(doc); err != nil {
		return nil, err
	}

	result, err := m.repo.Put(ctx, id, doc)
	if err != nil {
		return nil, err
	}
	result.Created = true
	return result, nil
}

// Update copies whitelisted fields onto the stored record.
//
// This method:
// 1. Requires the update permission or ownership of the target record
// 2. Requires the extra permission of every guarded field present in the payload
// 3. Fetches the stored record and compares revisions
// 4. Copies whitelisted fields only, hashing secret fields
// 5. Stores the record at the stored revision; conflicts are not retried
func (m *mediator) Update(
	ctx context.Context,
	principal *authDomain.Principal,
	op resourceDomain.UpdateOperation,
) (*resourceDomain.WriteResult, error) {
	id := m.definition.NormalizeID(op.ID)
	if id == "" || op.Rev == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "update requires _id and _rev")
	}

	requirement := authDomain.RequireOrOwner(m.definition.Permissions.Update, m.definition.Owner(id))
	if err := m.authorize(ctx, principal, requirement); err != nil {
		return nil, err
	}
	if resourceDomain.IsReservedID(id) {
		return nil, resourceDomain.ErrDocumentNotFound
	}

	for _, field := range slices.Sorted(maps.Keys(m.definition.GuardedFields)) {
		if !op.Payload.Has(field) {
			continue
		}
		permission := m.definition.GuardedFields[field]
		if err := m.authorize(ctx, principal, authDomain.Require(permission)); err != nil {
			if apperrors.Is(err, apperrors.ErrForbidden) {
				return nil, apperrors.Wrapf(resourceDomain.ErrGuardedField, "%s requires %s", field, permission)
			}
			return nil, err
		}
	}

	existing, err := m.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.Rev() != op.Rev {
		return nil, resourceDomain.ErrRevisionConflict
	}

	updated := existing.Clone()
	changes := resourceDomain.Document{}
	for field, value := range op.Payload {
		if m.definition.IsWhitelisted(field) {
			changes[field] = value
		}
	}
	if err := m.hashSecrets(changes); err != nil {
		return nil, err
	}
	maps.Copy(updated, changes)

	return m.repo.Put(ctx, id, updated)
}

// Delete removes a record revision.
func (m *mediator) Delete(ctx context.Context, principal *authDomain.Principal, id, rev string) error {
	id = m.definition.NormalizeID(id)

	requirement := authDomain.RequireOrOwner(m.definition.Permissions.Delete, m.definition.Owner(id))
	if err := m.authorize(ctx, principal, requirement); err != nil {
		return err
	}

	if strings.TrimSpace(rev) == "" {
		return resourceDomain.ErrMissingRevision
	}
	if id == "" || resourceDomain.IsReservedID(id) {
		return resourceDomain.ErrDocumentNotFound
	}

	return m.repo.Delete(ctx, id, rev)
}

// authorize delegates to the authorizer, which performs no I/O.
func (m *mediator) authorize(
	ctx context.Context,
	principal *authDomain.Principal,
	requirement authDomain.Requirement,
) error {
	return m.authorizer.Authorize(ctx, principal, requirement)
}

// hashSecrets replaces every secret field present in doc with its hash.
// Secret values must be non-blank strings.
func (m *mediator) hashSecrets(doc resourceDomain.Document) error {
	for _, field := range slices.Sorted(maps.Keys(doc)) {
		if !m.definition.IsSecret(field) {
			continue
		}
		plain, isString := doc[field].(string)
		if !isString || strings.TrimSpace(plain) == "" {
			return apperrors.Wrapf(apperrors.ErrInvalidInput, "%s must be a non-blank string", field)
		}

		hashed, err := m.hasher.HashPassword(plain)
		if err != nil {
			return err
		}
		doc[field] = hashed
	}
	return nil
}

// NewMediator creates a Mediator for definition.
func NewMediator(
	definition *resourceDomain.Definition,
	repo DocumentRepository,
	authorizer authUseCase.Authorizer,
	hasher SecretHasher,
) Mediator {
	return &mediator{
		definition: definition,
		repo:       repo,
		authorizer: authorizer,
		hasher:     hasher,
		now:        time.Now,
	}
}
