package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := GenerateJWT("u1", "Ava", true, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "secret")
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, "Ava", claims.DisplayName)
	require.True(t, claims.Admin)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := GenerateJWT("u1", "Ava", false, "secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "other-secret")
	require.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	token, err := GenerateJWT("u1", "Ava", false, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "secret")
	require.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := ValidateJWT("not-a-token", "secret")
	require.Error(t, err)
}
