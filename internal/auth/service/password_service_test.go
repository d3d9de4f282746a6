package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswordService(t *testing.T) {
	service := NewPasswordService()
	assert.NotNil(t, service)
	assert.IsType(t, &passwordService{}, service)
}

func TestPasswordService_HashPassword(t *testing.T) {
	service := NewPasswordService()

	t.Run("Success_HashesWithArgon2id", func(t *testing.T) {
		hashedPassword, err := service.HashPassword("secret")
		require.NoError(t, err)

		assert.NotEqual(t, "secret", hashedPassword)
		assert.Contains(t, hashedPassword, "$argon2id$")
		assert.True(t, service.ComparePassword("secret", hashedPassword))
	})

	t.Run("Success_SamePasswordProducesDifferentHashes", func(t *testing.T) {
		hash1, err := service.HashPassword("secret")
		require.NoError(t, err)

		hash2, err := service.HashPassword("secret")
		require.NoError(t, err)

		// Different salts
		assert.NotEqual(t, hash1, hash2)
		assert.True(t, service.ComparePassword("secret", hash1))
		assert.True(t, service.ComparePassword("secret", hash2))
	})
}

func TestPasswordService_ComparePassword(t *testing.T) {
	service := NewPasswordService()

	argonHash, err := service.HashPassword("correct-password")
	require.NoError(t, err)

	bcryptHash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		plain    string
		hash     string
		expected bool
	}{
		{name: "Success_Argon2id", plain: "correct-password", hash: argonHash, expected: true},
		{name: "Success_Bcrypt", plain: "correct-password", hash: string(bcryptHash), expected: true},
		{name: "Failure_Argon2idWrongPassword", plain: "wrong-password", hash: argonHash, expected: false},
		{name: "Failure_BcryptWrongPassword", plain: "wrong-password", hash: string(bcryptHash), expected: false},
		{name: "Failure_EmptyPassword", plain: "", hash: argonHash, expected: false},
		{name: "Failure_PlaintextStored", plain: "correct-password", hash: "correct-password", expected: false},
		{name: "Failure_EmptyHash", plain: "correct-password", hash: "", expected: false},
		{name: "Failure_CaseSensitive", plain: "CORRECT-PASSWORD", hash: argonHash, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.ComparePassword(tt.plain, tt.hash))
		})
	}
}
