// file: utils/jwt_test.go
package utils

import (
	"testing"

	"github.com/KANlKA/CTF-Platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret")

	user := models.User{ID: 42, Username: "alice", Role: models.RoleUser}
	token, err := manager.GenerateToken(user)
	require.NoError(t, err)

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestTokenWrongSecret(t *testing.T) {
	manager := NewTokenManager("secret-a")
	other := NewTokenManager("secret-b")

	token, err := manager.GenerateToken(models.User{ID: 1, Username: "bob"})
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	manager := NewTokenManager("secret")
	_, err := manager.ParseToken("not.a.token")
	assert.Error(t, err)
}
