package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseKind(t *testing.T) {
	SetSecret("test-secret")

	access, err := Sign("user-1", "admin", KindAccess, time.Minute)
	require.NoError(t, err)

	claims, err := ParseKind(access, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	_, err = ParseKind(access, KindRefresh)
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	SetSecret("test-secret")

	expired, err := Sign("user-1", "", KindAccess, -time.Minute)
	require.NoError(t, err)
	_, err = Parse(expired)
	assert.Error(t, err)

	token, err := Sign("user-1", "", KindAccess, time.Minute)
	require.NoError(t, err)
	SetSecret("rotated")
	_, err = Parse(token)
	assert.Error(t, err)
}
