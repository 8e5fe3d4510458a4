package accesscode

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/saulo-duarte/natije-api/internal/auth"
)

const (
	CodeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var ErrBadTestToken = errors.New("invalid test token")

// NewCode returns CodeLength random characters from A-Z0-9.
func NewCode() (string, error) {
	code, err := gonanoid.Generate(codeAlphabet, CodeLength)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return code, nil
}

type testClaims struct {
	Type string `json:"type"`
	Day  int    `json:"day"`
	jwt.RegisteredClaims
}

func signTestToken(days int, now time.Time) (string, error) {
	return auth.SignClaims(&testClaims{
		Type:             string(KindTest),
		Day:              days,
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now)},
	})
}

// TestTokenDays verifies a test token and returns the number of trial days it
// grants.
func TestTokenDays(token string) (int, error) {
	var claims testClaims
	if err := auth.ParseClaims(token, &claims); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadTestToken, err)
	}
	if claims.Type != string(KindTest) || claims.Day <= 0 {
		return 0, ErrBadTestToken
	}
	return claims.Day, nil
}
