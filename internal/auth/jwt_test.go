package auth

import (
	"testing"
	"time"

	"country-converter/internal/config"

	"github.com/stretchr/testify/require"
)

func testManager() *Manager {
	return NewManager(config.JWTConfig{
		Secret:     "test-secret",
		Issuer:     "country-converter",
		Audience:   "country-converter-clients",
		Expiration: time.Hour,
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := testManager()
	token, err := m.GenerateToken("u-1", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.NotEmpty(t, claims.ID)
}

func TestValidateToken_Invalid(t *testing.T) {
	_, err := testManager().ValidateToken("invalid.token")
	require.Error(t, err)
}

func TestValidateToken_WrongSecretOrAudience(t *testing.T) {
	token, err := testManager().GenerateToken("u-1", "alice")
	require.NoError(t, err)

	other := NewManager(config.JWTConfig{Secret: "other", Issuer: "country-converter", Audience: "country-converter-clients", Expiration: time.Hour})
	_, err = other.ValidateToken(token)
	require.Error(t, err)

	elsewhere := NewManager(config.JWTConfig{Secret: "test-secret", Issuer: "country-converter", Audience: "someone-else", Expiration: time.Hour})
	_, err = elsewhere.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	base := time.Now()
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })

	m := testManager()
	token, err := m.GenerateToken("u-1", "alice")
	require.NoError(t, err)

	base = base.Add(2 * time.Hour)
	_, err = m.ValidateToken(token)
	require.Error(t, err)
}
