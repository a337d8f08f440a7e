package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the read-only projection recovered from a validated
// credential.
type Identity struct {
	UserID int64
	Login  string
}

// Claims carries the identity embedded in a session credential.
// Credentials have no expiry: session lifetime is bound to process
// lifetime through the Registry.
type Claims struct {
	UserID int64  `json:"user_id"`
	Login  string `json:"login"`
	jwt.RegisteredClaims
}

// TokenConfig holds credential signing configuration.
type TokenConfig struct {
	Secret []byte
	Issuer string
}

// EncodeToken mints a signed credential embedding the identity.
func EncodeToken(cfg *TokenConfig, identity Identity) (string, error) {
	claims := Claims{
		UserID: identity.UserID,
		Login:  identity.Login,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   cfg.Issuer,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cfg.Secret)
}

// DecodeToken recovers the identity embedded in a credential. The
// caller must have already confirmed registry membership.
func DecodeToken(cfg *TokenConfig, tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.Secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("invalid token claims")
	}

	if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
		return Identity{}, fmt.Errorf("invalid issuer")
	}

	return Identity{UserID: claims.UserID, Login: claims.Login}, nil
}
