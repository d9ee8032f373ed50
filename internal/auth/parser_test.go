package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citizen-service/internal/auth"
)

func signToken(t *testing.T, secret string, claims auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestParseValidToken(t *testing.T) {
	parser := auth.NewParser("test-secret")
	sessionID := uuid.New()
	userID := uuid.New()

	token := signToken(t, "test-secret", auth.Claims{
		SessionID: sessionID,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := parser.Parse(token)

	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, userID, claims.UserID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	parser := auth.NewParser("test-secret")

	token := signToken(t, "other-secret", auth.Claims{
		SessionID: uuid.New(),
		UserID:    uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := parser.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	parser := auth.NewParser("test-secret")

	token := signToken(t, "test-secret", auth.Claims{
		SessionID: uuid.New(),
		UserID:    uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := parser.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseRejectsGarbage(t *testing.T) {
	parser := auth.NewParser("test-secret")

	_, err := parser.Parse("not.a.token")
	assert.Error(t, err)
}
