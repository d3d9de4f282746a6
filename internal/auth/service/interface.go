// Package service provides technical services for authentication operations.
//
// This package implements password hashing and verification for user credential records
// stored in the document store.
package service

// PasswordService defines operations for password hashing and verification.
// Implementations must use industry-standard hashing algorithms (e.g., argon2, bcrypt).
type PasswordService interface {
	// HashPassword hashes a plain text password with the current algorithm (Argon2id).
	HashPassword(plainPassword string) (hashedPassword string, error error)

	// ComparePassword compares a plain text password against a stored hash.
	// Argon2id hashes in PHC format and bcrypt hashes ($2a$, $2b$, $2y$) are accepted.
	// Returns false for any other format. This is constant-time to prevent timing attacks.
	ComparePassword(plainPassword string, hashedPassword string) bool
}
