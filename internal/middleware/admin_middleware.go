// File: internal/middleware/admin_middleware.go
package middleware

import (
	"log"
	"net/http"

	"github.com/bookmyseva/backend/internal/repository/user"
)

// RequireAdmin checks that the authenticated user is an admin. It must
// run AFTER NewJWTMiddleware; the role claim alone is not trusted, the
// account is re-read so a demoted admin's old tokens stop working.
func RequireAdmin(userRepo user.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok || userID == 0 {
				log.Printf("[AdminMiddleware] Forbidden: no valid userID in context for path %s", r.URL.Path)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			account, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				log.Printf("[AdminMiddleware] Forbidden: could not load user %d: %v", userID, err)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			if !account.IsAdmin() {
				log.Printf("[AdminMiddleware] FORBIDDEN: non-admin user %d attempted admin route %s", account.ID, r.URL.Path)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
