// Package domain defines authentication and authorization domain models.
// Implements permission-based access control with a self-access override: principals are
// granted named permissions through their roles, and may always act on a record identified
// by their own identity.
package domain

import "fmt"

// Permission is a named capability such as "user.read".
type Permission string

// Operation identifies one of the operations a resource exposes.
type Operation string

const (
	// ListOperation lists the identifiers of every record of a resource.
	ListOperation Operation = "list"

	// ReadOperation reads one or all records of a resource.
	ReadOperation Operation = "read"

	// CreateOperation creates a new record.
	CreateOperation Operation = "create"

	// UpdateOperation mutates whitelisted fields of an existing record.
	UpdateOperation Operation = "update"

	// DeleteOperation removes a record.
	DeleteOperation Operation = "delete"
)

// ResourcePermissions is the finite set of permissions guarding a single resource type.
type ResourcePermissions struct {
	List   Permission
	Read   Permission
	Create Permission
	Update Permission
	Delete Permission
}

// NewResourcePermissions builds the permission set for a resource, e.g. "user" yields
// "user.list", "user.read", "user.create", "user.update" and "user.delete".
func NewResourcePermissions(resource string) ResourcePermissions {
	return ResourcePermissions{
		List:   NewPermission(resource, ListOperation),
		Read:   NewPermission(resource, ReadOperation),
		Create: NewPermission(resource, CreateOperation),
		Update: NewPermission(resource, UpdateOperation),
		Delete: NewPermission(resource, DeleteOperation),
	}
}

// NewPermission joins a resource and an operation into a permission name.
func NewPermission(resource string, operation Operation) Permission {
	return Permission(fmt.Sprintf("%s.%s", resource, operation))
}

// All returns every permission of the set.
func (p ResourcePermissions) All() []Permission {
	return []Permission{p.List, p.Read, p.Create, p.Update, p.Delete}
}
