package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJWT_RoundTrip(t *testing.T) {
	SetJWTValidation("test-secret", "price-tracker-identity", "price-tracker")
	t.Cleanup(func() { SetJWTValidation("your-secret-key-change-in-production", "", "") })

	token, err := GenerateJWT("user-1", "ops", []string{"Admin"}, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.True(t, claims.Roles.Has("Admin"))
}

func TestValidateJWT_RejectsWrongIssuer(t *testing.T) {
	SetJWTValidation("test-secret", "someone-else", "")
	token, err := GenerateJWT("user-1", "ops", nil, time.Hour)
	require.NoError(t, err)

	SetJWTValidation("test-secret", "price-tracker-identity", "")
	t.Cleanup(func() { SetJWTValidation("your-secret-key-change-in-production", "", "") })

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWT_RejectsExpiredAndForeignKeys(t *testing.T) {
	SetJWTValidation("test-secret", "", "")
	t.Cleanup(func() { SetJWTValidation("your-secret-key-change-in-production", "", "") })

	expired, err := GenerateJWT("user-1", "ops", nil, -time.Minute)
	require.NoError(t, err)
	_, err = ValidateJWT(expired)
	assert.Error(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "x"}).SignedString([]byte("other"))
	require.NoError(t, err)
	_, err = ValidateJWT(foreign)
	assert.Error(t, err)
}

func TestRoles_DecodesStringOrArray(t *testing.T) {
	var single struct {
		Roles Roles `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"Admin"}`), &single))
	assert.Equal(t, Roles{"Admin"}, single.Roles)

	var many struct {
		Roles Roles `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":["User","Admin"]}`), &many))
	assert.True(t, many.Roles.Has("Admin"))
	assert.False(t, many.Roles.Has("admin"))
}
