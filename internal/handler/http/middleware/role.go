package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nimbushr/attendance-gate/internal/domain/staff"
	"github.com/nimbushr/attendance-gate/internal/handler/http/response"
)

// RequireAdmin requires admin role
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, staff.ErrAdminRoleRequired)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != string(staff.RoleAdmin) {
			response.HandleError(w, staff.ErrAdminRoleRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireManager requires manager or admin role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, staff.ErrManagerRoleRequired)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, staff.ErrManagerRoleRequired)
			return
		}

		role := staff.Role(roleStr)
		if role != staff.RoleManager && role != staff.RoleAdmin {
			response.HandleError(w, staff.ErrManagerRoleRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
