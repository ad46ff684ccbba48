package middleware

import (
	"context"
	"net/http"
	"strings"

	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/internal/service"
	"bloodbank-inventory/pkg/jwt"
	"bloodbank-inventory/pkg/response"

	"github.com/google/uuid"
)

type contextKey string

const (
	OperatorIDKey    contextKey = "operator_id"
	OperatorEmailKey contextKey = "operator_email"
	RoleIDKey        contextKey = "role_id"
	TokenIDKey       contextKey = "token_id"
)

// AuthMiddleware accepts a bearer token only while its token ID is still
// registered for the operator, so revoked sessions fail before expiry.
type AuthMiddleware struct {
	jwtService *jwt.JWTService
	sessions   service.SessionRegistry
}

func NewAuthMiddleware(jwtService *jwt.JWTService, sessions service.SessionRegistry) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid token type")
			return
		}
		if entity.RoleName(claims.RoleID) == "" {
			response.Unauthorized(w, "Token carries an unknown role")
			return
		}

		active, err := m.sessions.IsActive(r.Context(), claims.OperatorID, claims.TokenID)
		if err != nil {
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if !active {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		ctx := WithOperator(r.Context(), claims.OperatorID, claims.RoleID)
		ctx = context.WithValue(ctx, OperatorEmailKey, claims.Email)
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithOperator stores the acting operator in ctx
func WithOperator(ctx context.Context, operatorID uuid.UUID, roleID int) context.Context {
	ctx = context.WithValue(ctx, OperatorIDKey, operatorID)
	return context.WithValue(ctx, RoleIDKey, roleID)
}

// GetOperatorIDFromContext extracts operator ID from context
func GetOperatorIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	operatorID, ok := ctx.Value(OperatorIDKey).(uuid.UUID)
	return operatorID, ok
}

// GetOperatorEmailFromContext extracts operator email from context
func GetOperatorEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(OperatorEmailKey).(string)
	return email, ok
}

// GetRoleIDFromContext extracts role ID from context
func GetRoleIDFromContext(ctx context.Context) (int, bool) {
	roleID, ok := ctx.Value(RoleIDKey).(int)
	return roleID, ok
}
