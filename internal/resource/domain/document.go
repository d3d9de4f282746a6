// Package domain defines the resource mediation domain: documents, per-resource definitions
// and the write operations a caller can request.
package domain

import (
	"maps"
	"strings"
)

// Reserved document fields.
const (
	FieldID        = "_id"
	FieldRev       = "_rev"
	FieldCreatedOn = "created_on"
	FieldCreatedBy = "created_by"

	designDocPrefix = "_design/"
	reservedPrefix  = "_"
)

// Document is a schemaless record keyed by field name.
type Document map[string]any

// ID returns the _id field, or "" when absent or not a string.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// Rev returns the _rev field, or "" when absent or not a string.
func (d Document) Rev() string {
	rev, _ := d[FieldRev].(string)
	return rev
}

// Has reports whether field is present, even with a null value.
func (d Document) Has(field string) bool {
	_, ok := d[field]
	return ok
}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	return maps.Clone(d)
}

// Redact returns a copy of the document without the given fields. The receiver is not modified.
func (d Document) Redact(fields []string) Document {
	out := d.Clone()
	if out == nil {
		out = Document{}
	}
	for _, field := range fields {
		delete(out, field)
	}
	return out
}

// IsDesignDocument reports whether id names a design document.
func IsDesignDocument(id string) bool {
	return strings.HasPrefix(id, designDocPrefix)
}

// IsReservedID reports whether id names a store endpoint such as _security or _all_docs
// instead of a record.
func IsReservedID(id string) bool {
	return strings.HasPrefix(id, reservedPrefix)
}
