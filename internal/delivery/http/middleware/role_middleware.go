package middleware

import (
	"fmt"
	"net/http"

	"bloodbank-inventory/internal/domain/entity"
	"bloodbank-inventory/pkg/response"
)

// RequireRole admits operators whose token role is one of roleIDs.
// It must run after AuthMiddleware, which puts the role in the context.
func RequireRole(roleIDs ...int) func(http.Handler) http.Handler {
	allowed := make(map[int]bool, len(roleIDs))
	for _, id := range roleIDs {
		allowed[id] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID, ok := GetRoleIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Operator role is missing")
				return
			}

			if !allowed[roleID] {
				name := entity.RoleName(roleID)
				if name == "" {
					name = fmt.Sprintf("role %d", roleID)
				}
				response.Forbidden(w, fmt.Sprintf("Operation not permitted for %s", name))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin guards overrides and session revocation
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin)(next)
}

// RequireStaff allows blood bank staff and admins
func RequireStaff(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin, entity.RoleIDStaff)(next)
}
