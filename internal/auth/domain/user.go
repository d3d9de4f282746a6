package domain

// UserCredential is the slice of a stored user record the credential verifier needs.
// Every other field of the record is ignored here.
type UserCredential struct {
	ID           string   `json:"_id"`
	PasswordHash string   `json:"password"` //nolint:gosec // stored hash, never plaintext
	Enabled      bool     `json:"enabled"`
	Roles        []string `json:"roles"`
}

// Role maps a role name to the permissions it grants.
type Role struct {
	ID          string       `json:"_id"`
	Permissions []Permission `json:"permissions"`
}
