package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const OperatorRole = "operator"

// GenerateJWT signs an operator token for the reports API.
func GenerateJWT(secret []byte, subject string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("JWT_SECRET not set")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": OperatorRole,
		"exp":  time.Now().Add(ttl).Unix(),
	})

	return token.SignedString(secret)
}
