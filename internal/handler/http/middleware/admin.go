package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
)

// RequireAdmin applies the same role predicate the services use.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := identity.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if err := identity.RequireRole(caller, identity.RoleAdmin); err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
