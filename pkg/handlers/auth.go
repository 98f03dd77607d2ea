package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"gochat/pkg/avatar"
	"gochat/pkg/token"
	"gochat/pkg/user"
)

type SignupForm struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio"`
}

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileForm struct {
	FullName   string `json:"fullName"`
	Bio        string `json:"bio"`
	ProfilePic string `json:"profilePic"`
}

type AuthHandler struct {
	Service user.ServiceInterface
	Codec   *token.Codec
	Logger  *slog.Logger
}

func NewAuthHandler(service user.ServiceInterface, codec *token.Codec, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		Service: service,
		Codec:   codec,
		Logger:  logger,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	u, err := h.Service.Signup(req.FullName, req.Email, req.Password, req.Bio)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrMissingFields):
			writeFail(w, http.StatusBadRequest, "missing details")
		case errors.Is(err, user.ErrAlreadyExists):
			writeFail(w, http.StatusConflict, "user already exists")
		default:
			h.Logger.Error("signup", "error", err)
			writeFail(w, http.StatusInternalServerError, "signup failed")
		}
		return
	}

	h.issueSession(w, u, http.StatusCreated, "account created successfully", "signup")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	u, err := h.Service.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			writeFail(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.Logger.Error("login", "error", err)
		writeFail(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.issueSession(w, u, http.StatusOK, "", "login")
}

// Logout only clears the carrying cookie. The token itself stays valid until
// its natural expiry; there is no server-side revocation list. Safe to call
// any number of times.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearTokenCookie(w)
	writeJSON(w, h.Logger, http.StatusOK, map[string]any{
		"success": true,
		"message": "logged out",
	})
}

func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	u, ok := getUserFromContext(w, r)
	if !ok {
		return
	}

	writeJSON(w, h.Logger, http.StatusOK, map[string]any{
		"success": true,
		"user":    u,
	})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := getUserFromContext(w, r)
	if !ok {
		return
	}

	var req ProfileForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	updated, err := h.Service.UpdateProfile(u.ID, req.FullName, req.Bio, req.ProfilePic)
	if err != nil {
		if errors.Is(err, avatar.ErrBadData) {
			writeFail(w, http.StatusBadRequest, "invalid image data")
			return
		}
		h.Logger.Error("update profile", "error", err, "user", u.ID)
		writeFail(w, http.StatusInternalServerError, "profile update failed")
		return
	}

	if ok := writeJSON(w, h.Logger, http.StatusOK, map[string]any{
		"success": true,
		"user":    updated,
	}); ok {
		h.Logger.Info("profile updated", "user", u.ID)
	}
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, u *user.User, status int, message, action string) {
	tok, err := h.Codec.Issue(u.ID)
	if err != nil {
		h.Logger.Error("token signing", "error", err)
		writeFail(w, http.StatusInternalServerError, "token signing failed")
		return
	}

	setTokenCookie(w, tok)

	body := map[string]any{
		"success": true,
		"user":    u,
		"token":   tok,
	}
	if message != "" {
		body["message"] = message
	}

	if ok := writeJSON(w, h.Logger, status, body); ok {
		h.Logger.Info(action, "user", u.ID)
	}
}
