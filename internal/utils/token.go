package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	defaultAccessExpiry  = 24 * time.Hour
	defaultRefreshExpiry = 10 * 24 * time.Hour
)

func tokenExpiry(envKey string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(envKey); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return fallback
}

// GenerateAccessToken signs a short lived token carrying the user id.
func GenerateAccessToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"_id": userID,
		"exp": time.Now().Add(tokenExpiry("ACCESS_TOKEN_EXPIRY", defaultAccessExpiry)).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("ACCESS_TOKEN_SECRET")))
}

// GenerateRefreshToken signs a long lived token carrying only the user id.
func GenerateRefreshToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"_id": userID,
		"exp": time.Now().Add(tokenExpiry("REFRESH_TOKEN_EXPIRY", defaultRefreshExpiry)).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("REFRESH_TOKEN_SECRET")))
}

// ParseToken verifies signature and expiry and returns the user id claim.
func ParseToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}
	userID, ok := claims["_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("token missing user id")
	}
	return userID, nil
}
