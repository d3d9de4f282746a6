package domain

import "strings"

// WriteOperation is the result of classifying a PUT payload. It is either a
// CreateOperation or an UpdateOperation.
type WriteOperation interface {
	isWriteOperation()
}

// CreateOperation creates a new record. ID may be empty; validation happens after authorization.
type CreateOperation struct {
	ID      string
	Payload Document
}

// UpdateOperation mutates whitelisted fields of the record identified by ID at revision Rev.
type UpdateOperation struct {
	ID      string
	Rev     string
	Payload Document
}

func (CreateOperation) isWriteOperation() {}
func (UpdateOperation) isWriteOperation() {}

// ClassifyWrite dispatches on the presence of _rev: present means update, absent means create.
// An update must carry a non-blank _id and a non-empty string _rev.
func ClassifyWrite(payload Document) (WriteOperation, error) {
	if !payload.Has(FieldRev) {
		id, _ := payload[FieldID].(string)
		return CreateOperation{ID: strings.TrimSpace(id), Payload: payload}, nil
	}

	rev, ok := payload[FieldRev].(string)
	if !ok || rev == "" {
		return nil, ErrInvalidRevision
	}

	id := strings.TrimSpace(payload.ID())
	if id == "" {
		return nil, ErrMissingID
	}

	return UpdateOperation{ID: id, Rev: rev, Payload: payload}, nil
}
