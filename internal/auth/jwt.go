package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret        []byte
	jwtRefreshSecret []byte
)

type Claims struct {
	UserID string   `json:"sub_id"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Init loads the signing secrets. It panics when either JWT_SECRET or
// JWT_REFRESH_SECRET is missing.
func Init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET must be set")
	}
	refresh := os.Getenv("JWT_REFRESH_SECRET")
	if refresh == "" {
		panic("JWT_REFRESH_SECRET must be set")
	}
	jwtSecret = []byte(secret)
	jwtRefreshSecret = []byte(refresh)
}

func GenerateJWT(userID string, roles []string, duration time.Duration) (string, error) {
	return sign(jwtSecret, userID, roles, duration)
}

func GenerateRefreshJWT(userID string, duration time.Duration) (string, error) {
	return sign(jwtRefreshSecret, userID, nil, duration)
}

func ValidateJWT(tokenStr string) (*Claims, error) {
	return parse(jwtSecret, tokenStr)
}

func ValidateRefreshJWT(tokenStr string) (*Claims, error) {
	return parse(jwtRefreshSecret, tokenStr)
}

func sign(secret []byte, userID string, roles []string, duration time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("jwt secret not initialized")
	}

	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func parse(secret []byte, tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, errors.New("token string is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	return claims, nil
}
