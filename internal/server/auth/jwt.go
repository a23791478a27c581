// Package auth issues and verifies the signed session tokens that carry a
// user's identity and role through a request.
package auth

import (
	"errors"
	"time"

	"github.com/gestion-contratistas/portal/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the claim set embedded in a session token. The identity it
// carries is authoritative for the remainder of the request: the server
// never re-fetches the role from the database mid-request, so a role change
// takes effect only after the old token expires or the user logs in again.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// GenerateToken signs an HS256 token for the given identity.
func GenerateToken(userID, username, role string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:   userID,
		Username: username,
		Role:     role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyToken parses and validates a session token and returns its claims.
// A bad signature, malformed token and an expired token all map to
// common.ErrInvalidToken; callers must not be able to tell the cases apart.
func VerifyToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
