package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DisplayClaims represents the claims in a display pairing token
type DisplayClaims struct {
	RegisterID string `json:"register_id"`
	jwt.RegisteredClaims
}

// DisplayTokenManager issues and validates the short-lived tokens a
// customer-facing display presents to attach to a register's event stream.
type DisplayTokenManager struct {
	secretKey []byte
	expiry    time.Duration
}

// NewDisplayTokenManager creates a new display token manager
func NewDisplayTokenManager(secret string, expiry time.Duration) *DisplayTokenManager {
	return &DisplayTokenManager{
		secretKey: []byte(secret),
		expiry:    expiry,
	}
}

// GenerateToken generates a pairing token bound to a register
func (m *DisplayTokenManager) GenerateToken(registerID string) (string, error) {
	claims := &DisplayClaims{
		RegisterID: registerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "dukapos-register",
			Subject:   registerID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// ValidateToken validates a pairing token and returns its claims
func (m *DisplayTokenManager) ValidateToken(tokenString string) (*DisplayClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DisplayClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*DisplayClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid display token")
	}
	if claims.RegisterID == "" {
		return nil, errors.New("display token missing register binding")
	}
	return claims, nil
}
