package token_test

import (
	"testing"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"

	"gochat/pkg/claims"
	"gochat/pkg/token"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := token.NewCodec("testsecret")

	raw, err := codec.Issue("u1")
	assert.NoError(t, err)
	assert.NotEmpty(t, raw)

	userID, err := codec.Verify(raw)
	assert.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestVerifyExpired(t *testing.T) {
	codec := token.NewCodec("testsecret")

	raw, err := codec.IssueWithTTL("u1", -time.Minute)
	assert.NoError(t, err)

	_, err = codec.Verify(raw)
	assert.ErrorIs(t, err, token.ErrInvalidToken)

	// same token just inside the window is still accepted
	raw, err = codec.IssueWithTTL("u1", time.Minute)
	assert.NoError(t, err)

	userID, err := codec.Verify(raw)
	assert.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestVerifyMalformed(t *testing.T) {
	codec := token.NewCodec("testsecret")

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := codec.Verify(raw)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := token.NewCodec("secret-one")
	verifier := token.NewCodec("secret-two")

	raw, err := issuer.Issue("u1")
	assert.NoError(t, err)

	_, err = verifier.Verify(raw)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyWrongSigningMethod(t *testing.T) {
	codec := token.NewCodec("testsecret")

	forged := jwt.NewWithClaims(jwt.SigningMethodHS384, &claims.Claims{
		UserID: "u1",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})
	raw, err := forged.SignedString([]byte("testsecret"))
	assert.NoError(t, err)

	_, err = codec.Verify(raw)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyMissingUserID(t *testing.T) {
	codec := token.NewCodec("testsecret")

	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims.Claims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})
	raw, err := anonymous.SignedString([]byte("testsecret"))
	assert.NoError(t, err)

	_, err = codec.Verify(raw)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}
