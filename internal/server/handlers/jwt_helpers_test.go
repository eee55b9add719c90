package handlers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	cfg := JWTConfig{
		Secret:         []byte("test-secret-key"),
		Issuer:         "dashsync",
		AccessTokenTTL: 15 * time.Minute,
	}

	token, expiresIn, err := GenerateAccessToken(cfg, "user123")
	require.NoError(t, err)
	assert.Equal(t, int64(900), expiresIn)

	claims, err := ValidateAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "user123", claims.UserID)
	assert.Equal(t, "user123", claims.Subject)
	assert.Equal(t, "dashsync", claims.Issuer)
}

func TestValidateAccessToken_Rejects(t *testing.T) {
	cfg := JWTConfig{Secret: []byte("test-secret-key"), Issuer: "dashsync", AccessTokenTTL: time.Minute}

	expired, _, err := GenerateAccessToken(JWTConfig{Secret: cfg.Secret, AccessTokenTTL: -time.Minute}, "user123")
	require.NoError(t, err)

	otherSecret, _, err := GenerateAccessToken(JWTConfig{Secret: []byte("other"), AccessTokenTTL: time.Minute}, "user123")
	require.NoError(t, err)

	otherIssuer, _, err := GenerateAccessToken(JWTConfig{Secret: cfg.Secret, Issuer: "someone-else", AccessTokenTTL: time.Minute}, "user123")
	require.NoError(t, err)

	// токен без user_id
	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		Issuer:    "dashsync",
	}).SignedString(cfg.Secret)
	require.NoError(t, err)

	// токен без срока действия
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, CustomClaims{
		UserID:           "user123",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "dashsync"},
	}).SignedString(cfg.Secret)
	require.NoError(t, err)

	// подпись другим алгоритмом
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, CustomClaims{
		UserID: "user123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			Issuer:    "dashsync",
		},
	}).SignedString(cfg.Secret)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":      "not-a-token",
		"expired":      expired,
		"other secret": otherSecret,
		"other issuer": otherIssuer,
		"no user id":   noUser,
		"no expiry":    noExpiry,
		"wrong alg":    hs512,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			claims, err := ValidateAccessToken(cfg, token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestGenerateAccessToken_EmptyUser(t *testing.T) {
	_, _, err := GenerateAccessToken(JWTConfig{Secret: []byte("s"), AccessTokenTTL: time.Minute}, "")
	assert.Error(t, err)
}
