package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayTokenRoundTrip(t *testing.T) {
	mgr := NewDisplayTokenManager("test-secret", time.Hour)

	token, err := mgr.GenerateToken("reg-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "reg-1", claims.RegisterID)
}

func TestDisplayTokenWrongSecret(t *testing.T) {
	token, err := NewDisplayTokenManager("secret-a", time.Hour).GenerateToken("reg-1")
	require.NoError(t, err)

	_, err = NewDisplayTokenManager("secret-b", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestDisplayTokenExpiry(t *testing.T) {
	mgr := NewDisplayTokenManager("test-secret", -time.Minute)

	token, err := mgr.GenerateToken("reg-1")
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.Error(t, err)
}

func TestDisplayTokenGarbage(t *testing.T) {
	mgr := NewDisplayTokenManager("test-secret", time.Hour)

	_, err := mgr.ValidateToken("not-a-token")
	assert.Error(t, err)
}
