package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret.Password1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret.Password1", hash)
	assert.True(t, CheckPassword("secret.Password1", hash))
	assert.False(t, CheckPassword("secret.password1", hash))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := HashPassword("same")
	require.NoError(t, err)
	second, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashPasswordTooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73))
	assert.Error(t, err)
}

func TestCheckPasswordGarbageHash(t *testing.T) {
	assert.False(t, CheckPassword("secret", "not-a-hash"))
	assert.False(t, CheckPassword("secret", ""))
}
