package token

import (
	"errors"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"gochat/pkg/claims"
)

// TTL is how long an issued token stays valid. Logout does not revoke
// tokens; they remain cryptographically valid until this window closes.
const TTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Codec issues and verifies session tokens. The signing secret is
// process-wide configuration; rotating it invalidates every outstanding token.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

func (c *Codec) Issue(userID string) (string, error) {
	return c.IssueWithTTL(userID, TTL)
}

func (c *Codec) IssueWithTTL(userID string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims.Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	})
	return t.SignedString(c.secret)
}

// Verify returns the user id embedded in raw. ErrInvalidToken covers every
// failure mode: bad signature, wrong signing method, malformed payload,
// expiry passed.
func (c *Codec) Verify(raw string) (string, error) {
	parsed := &claims.Claims{}

	t, err := jwt.ParseWithClaims(raw, parsed, func(t *jwt.Token) (interface{}, error) {
		method, ok := t.Method.(*jwt.SigningMethodHMAC)
		if !ok || method.Alg() != "HS256" {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !t.Valid || parsed.UserID == "" {
		return "", ErrInvalidToken
	}

	return parsed.UserID, nil
}
