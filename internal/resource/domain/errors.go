package domain

import (
	"github.com/dapnet/dbgateway/internal/errors"
)

// Resource mediation errors.
var (
	// ErrDocumentNotFound indicates the requested record does not exist.
	ErrDocumentNotFound = errors.Wrap(errors.ErrNotFound, "document not found")

	// ErrRevisionConflict indicates the submitted revision is not the stored one, or the id is taken.
	ErrRevisionConflict = errors.Wrap(errors.ErrConflict, "document revision conflict")

	// ErrMissingID indicates an update payload without a usable _id.
	ErrMissingID = errors.Wrap(errors.ErrInvalidInput, "_id is required")

	// ErrInvalidRevision indicates a _rev that is not a non-empty string.
	ErrInvalidRevision = errors.Wrap(errors.ErrInvalidInput, "_rev must be a non-empty string")

	// ErrMissingRevision indicates a delete without a revision.
	ErrMissingRevision = errors.Wrap(errors.ErrInvalidInput, "rev is required")

	// ErrGuardedField indicates an update touching a field the principal may not change.
	ErrGuardedField = errors.Wrap(errors.ErrForbidden, "field requires an additional permission")
)
