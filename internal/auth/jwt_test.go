package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-bot/internal/config"
)

func newService(secret string) *TokenService {
	return NewTokenService(config.Config{JWTSecret: secret, JWTExpiresIn: time.Hour})
}

func TestTokenRoundTrip(t *testing.T) {
	s := newService("secret")
	userID := uuid.NewString()

	token, err := s.GenerateToken(userID)
	require.NoError(t, err)

	got, err := s.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestParseToken_Rejects(t *testing.T) {
	s := newService("secret")
	userID := uuid.NewString()

	foreign, err := newService("other").GenerateToken(userID)
	require.NoError(t, err)

	expired := newService("secret")
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GenerateToken(userID)
	require.NoError(t, err)

	notUUID, err := s.GenerateToken("42")
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: userID}).SignedString([]byte("secret"))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":         "not-a-token",
		"wrong secret":    foreign,
		"expired":         old,
		"non uuid":        notUUID,
		"no expiry":       noExp,
		"wrong algorithm": hs512,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.ParseToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
