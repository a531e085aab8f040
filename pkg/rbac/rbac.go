// Package rbac gates routes on the caller's role.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/shirtshop/pkg/auth"
	"github.com/shashiranjanraj/shirtshop/pkg/response"
)

// HasRole lets through only callers whose role is one of roles. It expects
// middleware.Authenticate to have attached the identity; without one the
// caller gets a 401, with the wrong role a 403.
//
//	api.Group("", middleware.Authenticate, rbac.HasRole(auth.RoleAdmin))
func HasRole(roles ...auth.Role) func(http.Handler) http.Handler {
	allowed := make(map[auth.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.FromContext(r.Context())
			switch {
			case !ok:
				response.Unauthorized(w)
			case !allowed[id.Role]:
				response.Error(w, http.StatusForbidden, "admin access only")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
