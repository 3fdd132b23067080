package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignToken issues the HS256 session token carried in the Bearer cookie.
// Tokens expire after 10 hours.
func SignToken(userID int, email, firstName string, roleID, groupID int) (string, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return "", fmt.Errorf("JWT_SECRET is not set")
	}

	claims := jwt.MapClaims{
		"uid":       userID,
		"email":     email,
		"firstname": firstName,
		"role":      roleID,
		"gid":       groupID,
		"exp":       time.Now().Add(10 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
