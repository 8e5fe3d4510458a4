package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

const (
	AccessTokenTTL  = 30 * time.Minute
	RefreshTokenTTL = 24 * time.Hour
)

var (
	ErrWrongTokenType = errors.New("token has wrong type")
	ErrTokenRevoked   = errors.New("token is blacklisted")
)

var jwtSecret []byte

type Claims struct {
	UserID string    `json:"user_id"`
	Role   string    `json:"role"`
	Type   TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func Init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET must be set")
	}
	jwtSecret = []byte(secret)
}

// GenerateJWT issues an access token.
func GenerateJWT(userID, role string, duration time.Duration) (string, error) {
	return generate(userID, role, AccessToken, duration)
}

func GenerateRefreshJWT(userID, role string, duration time.Duration) (string, error) {
	return generate(userID, role, RefreshToken, duration)
}

func IssuePair(userID, role string) (*TokenPair, error) {
	access, err := GenerateJWT(userID, role, AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := GenerateRefreshJWT(userID, role, RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func generate(userID, role string, typ TokenType, duration time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}
	return SignClaims(claims)
}

// SignClaims signs arbitrary claims with the application secret.
func SignClaims(claims jwt.Claims) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("jwt secret not initialized")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseClaims verifies the signature of tokenStr and decodes it into claims.
func ParseClaims(tokenStr string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err
}

func ValidateJWT(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if err := ParseClaims(tokenStr, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func ValidateRefreshJWT(tokenStr string) (*Claims, error) {
	claims, err := ValidateJWT(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Type != RefreshToken {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
