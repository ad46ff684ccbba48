package usecase

import (
	"context"
	"time"

	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/service"
	"bloodbank-inventory/pkg/apperror"
	"bloodbank-inventory/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownRole = apperror.Validation("unknown operator role")
)

// IssuedToken is a bearer token registered with the session registry
type IssuedToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SessionUsecase mints and revokes operator tokens. Operators themselves are
// managed by the identity provider; the engine only keeps the live token set.
type SessionUsecase interface {
	IssueToken(ctx context.Context, operatorID uuid.UUID, email string, roleID int) (*IssuedToken, error)
	RevokeSessions(ctx context.Context, operatorID uuid.UUID) (int64, error)
}

type sessionUsecase struct {
	log        *logrus.Logger
	jwtService *jwt.JWTService
	sessions   service.SessionRegistry
}

func NewSessionUsecase(log *logrus.Logger, jwtService *jwt.JWTService, sessions service.SessionRegistry) SessionUsecase {
	return &sessionUsecase{
		log:        log,
		jwtService: jwtService,
		sessions:   sessions,
	}
}

func (u *sessionUsecase) IssueToken(ctx context.Context, operatorID uuid.UUID, email string, roleID int) (*IssuedToken, error) {
	if entity.RoleName(roleID) == "" {
		return nil, ErrUnknownRole
	}

	token, tokenID, err := u.jwtService.GenerateAccessToken(operatorID, email, roleID)
	if err != nil {
		u.log.Warnf("Failed to sign access token for operator %s: %+v", operatorID, err)
		return nil, err
	}

	expiry := u.jwtService.GetAccessExpiry()
	if err := u.sessions.Register(ctx, operatorID, tokenID, expiry); err != nil {
		return nil, apperror.Storage("register access token", err)
	}

	u.log.Infof("Access token issued: operator=%s, role=%s", operatorID, entity.RoleName(roleID))
	return &IssuedToken{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(expiry),
	}, nil
}

func (u *sessionUsecase) RevokeSessions(ctx context.Context, operatorID uuid.UUID) (int64, error) {
	removed, err := u.sessions.RevokeAll(ctx, operatorID)
	if err != nil {
		return 0, apperror.Storage("revoke access tokens", err)
	}
	return removed, nil
}
