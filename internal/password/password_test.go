package password_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"contacts-service/internal/password"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	hasher := password.NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("password1")
	require.NoError(t, err)
	require.NotEqual(t, "password1", hash)

	require.True(t, hasher.Compare(hash, "password1"))
	require.False(t, hasher.Compare(hash, "password2"))
	require.False(t, hasher.Compare("not-a-hash", "password1"))
}
