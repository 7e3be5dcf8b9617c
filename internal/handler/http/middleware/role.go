package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/domain/auth"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/handler/http/response"
)

// RequireManager requires an admin or manager role. Every mutating
// compensation route sits behind it; read routes only need a valid
// token.
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrManagerAccessRequired)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, auth.ErrManagerAccessRequired)
			return
		}

		if !auth.CanReview(auth.Role(roleStr)) {
			response.HandleError(w, auth.ErrManagerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
