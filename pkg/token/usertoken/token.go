package usertoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pangea-chat/roomcode-server/pkg/token"
)

const (
	// ClaimUserIDKey is the key for the user ID claim.
	ClaimUserIDKey = "userId"
	// ClaimExpiresAtKey is the key for expiration time claim.
	ClaimExpiresAtKey = "expiresAt"
)

var (
	// ErrInvalidToken is returned when the token is invalid.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token is expired.
	ErrExpiredToken = errors.New("expired token")
)

// Generate generates a new JWT token carrying the user ID and an expiration time.
func Generate(userID string, expirationTime time.Duration, secret string) (string, error) {
	expiration := time.Now().Add(expirationTime).Unix()
	claims := &jwt.MapClaims{
		ClaimUserIDKey:    userID,
		ClaimExpiresAtKey: expiration,
	}

	return token.NewWithClaims(claims, secret)
}

// Validate validates the given JWT token.
func Validate(tokenString, secret string) error {
	_, err := parseClaims(tokenString, secret)
	return err
}

// GetUserID retrieves the user ID claim from the given JWT token.
func GetUserID(tokenString, secret string) (string, error) {
	claims, err := parseClaims(tokenString, secret)
	if err != nil {
		return "", err
	}

	return claims[ClaimUserIDKey].(string), nil
}

func parseClaims(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := token.Parse(tokenString, secret)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	expiresAt, ok := claims[ClaimExpiresAtKey].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	if int64(expiresAt) < time.Now().Local().Unix() {
		return nil, ErrExpiredToken
	}

	if _, ok := claims[ClaimUserIDKey].(string); !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
