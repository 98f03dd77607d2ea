package claims

import jwt "github.com/dgrijalva/jwt-go"

type contextKey string

const (
	UserContextKey contextKey = "user"
)

// Claims is the payload of a session token. Only the user id is embedded;
// profile fields are resolved from the store on every guarded request.
type Claims struct {
	UserID string `json:"userId"`
	jwt.StandardClaims
}
