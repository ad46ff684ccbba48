package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"bloodbank-inventory/config"
	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/testutil"
	"bloodbank-inventory/pkg/apperror"
	"bloodbank-inventory/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndRevokeTokens(t *testing.T) {
	sessions := testutil.NewSessions()
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: 15 * time.Minute})
	uc := NewSessionUsecase(testutil.NewLogger(), jwtService, sessions)
	operatorID := uuid.New()

	issued, err := uc.IssueToken(context.Background(), operatorID, "staff@bloodbank.test", entity.RoleIDStaff)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", issued.TokenType)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), issued.ExpiresAt, time.Minute)

	claims, err := jwtService.ValidateToken(issued.AccessToken)
	require.NoError(t, err)
	active, err := sessions.IsActive(context.Background(), operatorID, claims.TokenID)
	require.NoError(t, err)
	assert.True(t, active)

	_, err = uc.IssueToken(context.Background(), operatorID, "staff@bloodbank.test", entity.RoleIDStaff)
	require.NoError(t, err)

	removed, err := uc.RevokeSessions(context.Background(), operatorID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	active, err = sessions.IsActive(context.Background(), operatorID, claims.TokenID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestIssueTokenRejectsUnknownRole(t *testing.T) {
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute})
	uc := NewSessionUsecase(testutil.NewLogger(), jwtService, testutil.NewSessions())

	_, err := uc.IssueToken(context.Background(), uuid.New(), "x@bloodbank.test", 42)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestRevokeSessionsStorageError(t *testing.T) {
	sessions := testutil.NewSessions()
	sessions.Err = errors.New("connection refused")
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute})
	uc := NewSessionUsecase(testutil.NewLogger(), jwtService, sessions)

	_, err := uc.RevokeSessions(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrStorage)
}
