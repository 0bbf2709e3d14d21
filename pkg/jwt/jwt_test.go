package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", time.Minute)
	id := uuid.New()

	token, err := m.GenerateAccessToken(id, "sam@example.com", "Sam")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "sam@example.com", claims.Email)
	assert.Equal(t, "Sam", claims.Name)
	assert.Equal(t, "meetmind", claims.Issuer)
}

func TestManager_Rejects(t *testing.T) {
	m := NewManager("secret", time.Minute)

	other, err := NewManager("other", time.Minute).GenerateAccessToken(uuid.New(), "a@b.c", "")
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(other)
	assert.Error(t, err)

	_, err = m.ValidateAccessToken("not-a-token")
	assert.Error(t, err)

	expired, err := NewManager("secret", -time.Minute).GenerateAccessToken(uuid.New(), "a@b.c", "")
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
