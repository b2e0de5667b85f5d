package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolsite/internal/app/models"
)

func TestHasher(t *testing.T) {
	h := NewHasher(4)
	hash, err := h.Hash("ramshrestha101")
	require.NoError(t, err)

	assert.NotEqual(t, "ramshrestha101", hash)
	assert.True(t, CheckPassword(hash, "ramshrestha101"))
	assert.False(t, CheckPassword(hash, "other"))
}

func TestNewHasher_InvalidCostFallsBack(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewHasher(0).cost)
	assert.Equal(t, DefaultBcryptCost, NewHasher(99).cost)
}

func newService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: exp, TokenIssuer: "schoolsite"})
}

func TestJWTRoundTrip(t *testing.T) {
	svc := newService(time.Hour)
	user := &models.User{ID: 101, Username: "ramshrestha101", Role: models.RoleStudent}

	token, expiresIn, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), expiresIn)

	claims, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, int64(101), claims.UserID)
	assert.Equal(t, "student", claims.Role)
}

func TestJWT_Expired(t *testing.T) {
	svc := newService(-time.Minute)
	token, _, err := svc.GenerateAccessToken(&models.User{ID: 1, Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWT_WrongSecret(t *testing.T) {
	token, _, err := newService(time.Hour).GenerateAccessToken(&models.User{ID: 1, Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "schoolsite"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_RoleMustMatchBand(t *testing.T) {
	svc := newService(time.Hour)
	// a student id claiming the admin role is rejected
	token, _, err := svc.GenerateAccessToken(&models.User{ID: 150, Username: "mallory150", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = ExtractBearerToken("Bearer ")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
