package domain

import (
	"slices"

	validation "github.com/jellydator/validation"

	authDomain "github.com/dapnet/dbgateway/internal/auth/domain"
	appValidation "github.com/dapnet/dbgateway/internal/validation"
)

// Definition describes one mediated resource type: where its records live, which
// permissions guard it, and how records are filtered on the way in and out.
type Definition struct {
	// Name is the route segment, e.g. "users".
	Name string

	// Collection is the document store database holding the records.
	Collection string

	Permissions authDomain.ResourcePermissions

	// RedactedFields are removed from every outbound record.
	RedactedFields []string

	// UpdateWhitelist lists the only fields an update may change.
	UpdateWhitelist []string

	// SecretFields are hashed before storage on create and update.
	SecretFields []string

	// GuardedFields maps whitelisted fields to the extra permission needed to change them.
	// The owner override never applies to guarded fields.
	GuardedFields map[string]authDomain.Permission

	// SelfOwned enables the owner override: a record whose id equals the caller's identity
	// may be read, updated and deleted by that caller.
	SelfOwned bool

	// NamesRoute and NamesPath expose a pass-through listing of record names.
	NamesRoute string
	NamesPath  string

	// CreateRules are applied to the payload of a create, after the id rule.
	CreateRules []*validation.KeyRules
}

// Owner returns the owner identity used for the override against record id.
func (d *Definition) Owner(id string) string {
	if !d.SelfOwned {
		return ""
	}
	return id
}

// NormalizeID lowercases and trims a record id.
func (d *Definition) NormalizeID(id string) string {
	return authDomain.NormalizeIdentity(id)
}

// IsWhitelisted reports whether an update may change field.
func (d *Definition) IsWhitelisted(field string) bool {
	return slices.Contains(d.UpdateWhitelist, field)
}

// IsSecret reports whether field is hashed before storage.
func (d *Definition) IsSecret(field string) bool {
	return slices.Contains(d.SecretFields, field)
}

// ValidateCreate checks a create payload. Unknown fields are allowed.
func (d *Definition) ValidateCreate(doc Document) error {
	rules := make([]*validation.KeyRules, 0, len(d.CreateRules)+1)
	rules = append(rules, validation.Key(FieldID, validation.Required, appValidation.IsString, appValidation.DocumentID))
	rules = append(rules, d.CreateRules...)

	err := validation.Validate(map[string]any(doc), validation.Map(rules...).AllowExtraKeys())
	return appValidation.WrapValidationError(err)
}

// NewUsersDefinition describes the users resource stored in collection.
func NewUsersDefinition(collection string) *Definition {
	return &Definition{
		Name:            "users",
		Collection:      collection,
		Permissions:     authDomain.NewResourcePermissions("user"),
		RedactedFields:  []string{"password"},
		UpdateWhitelist: []string{"email", "enabled", "password", "roles"},
		SecretFields:    []string{"password"},
		GuardedFields: map[string]authDomain.Permission{
			"roles": authDomain.NewPermission("user", "change_role"),
		},
		SelfOwned:  true,
		NamesRoute: "_usernames",
		NamesPath:  "_design/users/_list/usernames/_all_docs",
		CreateRules: []*validation.KeyRules{
			validation.Key("password", validation.Required, appValidation.NotBlank),
			validation.Key("email", validation.Required, appValidation.Email),
			validation.Key("enabled", validation.NotNil, appValidation.IsBool),
			validation.Key("roles", validation.Required, appValidation.IsStringList),
		},
	}
}

// NewTransmittersDefinition describes the transmitters resource stored in collection.
// Ownership lives in the owners list of the stored record, so there is no owner override.
func NewTransmittersDefinition(collection string) *Definition {
	return &Definition{
		Name:        "transmitters",
		Collection:  collection,
		Permissions: authDomain.NewResourcePermissions("transmitter"),
		RedactedFields: []string{
			"auth_key",
		},
		UpdateWhitelist: []string{
			"enabled", "usage", "timeslots", "power", "antenna", "coordinates",
			"owners", "auth_key", "emergency_power", "aprs_broadcast",
		},
		SelfOwned:  false,
		NamesRoute: "_names",
		NamesPath:  "_design/transmitters/_list/names/_all_docs",
		CreateRules: []*validation.KeyRules{
			validation.Key("enabled", validation.NotNil, appValidation.IsBool),
			validation.Key("owners", validation.Required, appValidation.IsStringList),
			validation.Key("power", appValidation.IsNumber).Optional(),
			validation.Key("auth_key", appValidation.NotBlank).Optional(),
		},
	}
}
