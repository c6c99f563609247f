package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carried inside an issued token. The service never inspects a
// presented token's claims; verification goes through the token store
// instead, so tokens are opaque, permanent credentials from the client's
// point of view.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenConfig holds token signing configuration.
type TokenConfig struct {
	Secret []byte
	Issuer string
}

// MintToken signs a new token for username. Tokens carry no expiry; the
// random token id keeps repeated logins from colliding in the store.
func MintToken(cfg TokenConfig, username string) (string, error) {
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   cfg.Issuer,
			IssuedAt: jwt.NewNumericDate(time.Now()),
			ID:       uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
