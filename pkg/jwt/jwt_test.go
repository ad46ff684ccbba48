package jwt

import (
	"testing"
	"time"

	"bloodbank-inventory/config"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(expiry time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: expiry})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := newTestService(time.Minute)
	operatorID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(operatorID, "staff@bloodbank.test", 2)
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, operatorID, claims.OperatorID)
	assert.Equal(t, "staff@bloodbank.test", claims.Email)
	assert.Equal(t, 2, claims.RoleID)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestValidateTokenRejectsOtherSecret(t *testing.T) {
	token, _, err := newTestService(time.Minute).GenerateAccessToken(uuid.New(), "a@b.test", 1)
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "other-secret", AccessExpiry: time.Minute})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	token, _, err := newTestService(-time.Minute).GenerateAccessToken(uuid.New(), "a@b.test", 1)
	require.NoError(t, err)

	_, err = newTestService(time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestValidateTokenRejectsForeignIssuer(t *testing.T) {
	claims := Claims{
		OperatorID: uuid.New(),
		RoleID:     1,
		TokenType:  AccessToken,
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = newTestService(time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, gojwt.ErrTokenInvalidIssuer)
}

func TestValidateTokenRejectsOtherAlgorithm(t *testing.T) {
	claims := Claims{
		OperatorID: uuid.New(),
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = newTestService(time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, gojwt.ErrTokenSignatureInvalid)
}
