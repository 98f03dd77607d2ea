package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"gochat/pkg/claims"
	"gochat/pkg/middleware"
	"gochat/pkg/token"
	"gochat/pkg/user"
)

func DecodeJSONBody(w http.ResponseWriter, r *http.Request, req any) bool {
	if r.Header.Get("Content-Type") != "application/json" {
		writeFail(w, http.StatusBadRequest, "invalid Content-Type")
		return false
	}

	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeFail(w, http.StatusBadRequest, "bad json")
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body map[string]any) bool {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to write JSON response", slog.Any("err", err))
		return false
	}
	return true
}

// writeFail sends the uniform failure envelope every error path uses.
func writeFail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg}); err != nil {
		return
	}
}

func getUserFromContext(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	u, ok := r.Context().Value(claims.UserContextKey).(*user.User)
	if !ok || u == nil || u.ID == "" {
		writeFail(w, http.StatusUnauthorized, "please login first")
		return nil, false
	}
	return u, true
}

// setTokenCookie attaches the session token for the cross-site client:
// SameSite=None requires Secure.
func setTokenCookie(w http.ResponseWriter, tok string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(token.TTL.Seconds()),
		Expires:  time.Now().Add(token.TTL),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
