package couchdb

import (
	apperrors "github.com/dapnet/dbgateway/internal/errors"
)

var (
	// ErrRejected indicates the document store refused a malformed request (e.g., an invalid document id).
	ErrRejected = apperrors.Wrap(apperrors.ErrInvalidInput, "document store rejected the request")

	// ErrEmptyID indicates a document operation without an id, which would address the database itself.
	ErrEmptyID = apperrors.Wrap(apperrors.ErrInvalidInput, "document id is required")

	// ErrAccessDenied indicates the gateway's own service account was refused by the document store.
	// It maps to an internal error, never to a caller-facing 401/403.
	ErrAccessDenied = apperrors.New("document store denied access to the gateway")
)
