package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and verifies the HS256 access/refresh pairs used
// by the API. The two token types are signed with separate secrets so
// either can be rotated on its own.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenManager(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Claims ride in both token types. Subject is the username, which is
// also the card owner key.
type Claims struct {
	Role string `json:"role"`
	Type string `json:"typ"` // "access" | "refresh"
	jwt.RegisteredClaims
}

// GeneratePair issues a fresh access+refresh pair for the user.
func (tm *TokenManager) GeneratePair(username, role string) (access, refresh string, accessExp time.Time, err error) {
	now := time.Now()

	accClaims := Claims{
		Role: role,
		Type: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.accessTTL)),
		},
	}
	refClaims := Claims{
		Role: role,
		Type: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.refreshTTL)),
		},
	}

	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, accClaims).SignedString(tm.accessSecret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	refresh, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refClaims).SignedString(tm.refreshSecret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return access, refresh, accClaims.ExpiresAt.Time, nil
}

// ParseAny verifies tokenStr against both secrets and reports which kind
// it was. Expired, mis-signed, wrong-issuer, and mislabeled tokens all
// come back as ErrInvalidToken.
func (tm *TokenManager) ParseAny(tokenStr string) (claims *Claims, isRefresh bool, err error) {
	if c := tm.parse(tokenStr, tm.accessSecret); c != nil && c.Type == "access" {
		return c, false, nil
	}
	if c := tm.parse(tokenStr, tm.refreshSecret); c != nil && c.Type == "refresh" {
		return c, true, nil
	}
	return nil, false, ErrInvalidToken
}

func (tm *TokenManager) parse(tokenStr string, secret []byte) *Claims {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tm.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil
	}
	return claims
}
