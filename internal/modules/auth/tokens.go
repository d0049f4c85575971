package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// accessClaims carries the subject plus the role used for route gating.
type accessClaims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// TokenManager signs and verifies the two JWT families. Access and refresh
// tokens use separate secrets so a leaked refresh secret cannot mint access
// tokens directly.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
}

func NewTokenManager(accessSecret, refreshSecret string) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
	}
}

func (m *TokenManager) SignAccess(userID, role string) (string, error) {
	claims := &accessClaims{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			ExpiresAt: time.Now().Add(accessTokenTTL).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.accessSecret)
}

func (m *TokenManager) SignRefresh(userID string) (string, error) {
	claims := &jwt.StandardClaims{
		Subject:   userID,
		ExpiresAt: time.Now().Add(refreshTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.refreshSecret)
}

// VerifyAccess returns the subject and role of a valid access token.
func (m *TokenManager) VerifyAccess(token string) (userID, role string, err error) {
	claims := &accessClaims{}
	if err := m.parse(token, claims, m.accessSecret); err != nil {
		return "", "", err
	}
	return claims.Subject, claims.Role, nil
}

// VerifyRefresh returns the subject of a valid refresh token.
func (m *TokenManager) VerifyRefresh(token string) (string, error) {
	claims := &jwt.StandardClaims{}
	if err := m.parse(token, claims, m.refreshSecret); err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (m *TokenManager) parse(token string, claims jwt.Claims, secret []byte) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errors.New("invalid token")
	}
	return nil
}
