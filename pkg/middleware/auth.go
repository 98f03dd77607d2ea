package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"gochat/pkg/claims"
	"gochat/pkg/token"
	"gochat/pkg/user"
)

// TokenCookie is the session carrier: an HttpOnly cookie set on login/signup
// and cleared on logout.
const TokenCookie = "token"

var noSessUrls = map[string]string{
	"/api/auth/signup": http.MethodPost,
	"/api/auth/login":  http.MethodPost,
	"/api/auth/logout": http.MethodPost,
	"/api/status":      http.MethodGet,
}

// Auth guards every route not allowlisted above: it verifies the token
// cookie, resolves the identity it names and attaches it to the request
// context. The three rejection cases stay distinguishable: no cookie,
// invalid/expired token, and a valid token for a deleted user, all 401.
func Auth(codec *token.Codec, users user.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := mux.CurrentRoute(r)
			template, err := route.GetPathTemplate()
			if err != nil {
				http.Error(w, "Route not found", http.StatusNotFound)
				return
			}

			if method, ok := noSessUrls[template]; ok && method == r.Method {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(TokenCookie)
			if err != nil {
				fail(w, http.StatusUnauthorized, "please login first")
				return
			}

			userID, err := codec.Verify(cookie.Value)
			if err != nil {
				fail(w, http.StatusUnauthorized, "invalid token")
				return
			}

			u, err := users.FindByID(userID)
			if err != nil {
				if errors.Is(err, user.ErrNotFound) {
					fail(w, http.StatusUnauthorized, "user not found")
					return
				}
				fail(w, http.StatusInternalServerError, "user lookup failed")
				return
			}

			ctx := context.WithValue(r.Context(), claims.UserContextKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func fail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg}); err != nil {
		return
	}
}
