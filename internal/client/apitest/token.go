package apitest

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	errTokenExpired = errors.New("session expired")
	errTokenInvalid = errors.New("invalid session")
)

type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

func generateToken(userID string, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	})
	return token.SignedString(secret)
}

// userIDFromToken returns errTokenExpired or errTokenInvalid on failure.
func userIDFromToken(tokenString string, secret []byte) (string, string, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", "", errTokenExpired
	}
	if err != nil || !token.Valid {
		return "", "", errTokenInvalid
	}
	return c.UserID, c.ID, nil
}
