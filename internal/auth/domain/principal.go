package domain

import (
	"slices"
	"strings"
)

// Principal is a verified caller identity with the permissions granted to it.
// A Principal is built once per request by the credential verifier and is never
// shared between requests or mutated after construction.
type Principal struct {
	Identity    string                  // Lowercased username, empty for the anonymous principal
	Roles       []string                // Roles the permissions were resolved from
	permissions map[Permission]struct{} // Granted permission names
}

// NewPrincipal creates a principal for the given identity. The identity is
// normalized to lowercase.
func NewPrincipal(identity string, roles []string, permissions []Permission) *Principal {
	granted := make(map[Permission]struct{}, len(permissions))
	for _, permission := range permissions {
		if permission == "" {
			continue
		}
		granted[permission] = struct{}{}
	}

	return &Principal{
		Identity:    NormalizeIdentity(identity),
		Roles:       slices.Clone(roles),
		permissions: granted,
	}
}

// Anonymous returns the principal used for requests without credentials.
// It holds no permissions and can never match an owner.
func Anonymous() *Principal {
	return NewPrincipal("", nil, nil)
}

// NormalizeIdentity trims and lowercases a username or record id.
func NormalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

// IsAnonymous reports whether this is the anonymous principal.
func (p *Principal) IsAnonymous() bool {
	return p.Identity == ""
}

// HasPermission reports whether the permission was granted explicitly.
func (p *Principal) HasPermission(permission Permission) bool {
	_, ok := p.permissions[permission]
	return ok
}

// Permissions returns the granted permissions in sorted order.
func (p *Principal) Permissions() []Permission {
	out := make([]Permission, 0, len(p.permissions))
	for permission := range p.permissions {
		out = append(out, permission)
	}
	slices.Sort(out)
	return out
}

// IsOwner reports whether owner names this principal. Comparison is case-insensitive;
// an empty owner or the anonymous principal never match.
func (p *Principal) IsOwner(owner string) bool {
	if p.IsAnonymous() || owner == "" {
		return false
	}
	return strings.EqualFold(p.Identity, strings.TrimSpace(owner))
}

// IsAllowed evaluates a permission requirement:
//   - if owner is set and equals the principal identity, access is granted regardless of permissions
//   - otherwise access is granted iff the permission was granted explicitly
func (p *Principal) IsAllowed(permission Permission, owner string) bool {
	if p.IsOwner(owner) {
		return true
	}
	return p.HasPermission(permission)
}

// Requirement is a permission plus the optional owner identity of the targeted record.
type Requirement struct {
	Permission Permission
	Owner      string
}

// Require builds a requirement without owner override.
func Require(permission Permission) Requirement {
	return Requirement{Permission: permission}
}

// RequireOrOwner builds a requirement that is also satisfied by the owner.
func RequireOrOwner(permission Permission, owner string) Requirement {
	return Requirement{Permission: permission, Owner: owner}
}
