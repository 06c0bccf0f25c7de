package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/a1-en/E-Shoe-Store/pkg/errors"
)

// Manager handles JWT creation and validation.
// Tokens are signed with HMAC-SHA256 using a shared secret.
type Manager struct {
	issuer string
	secret []byte
}

// NewManager creates a new JWT manager.
func NewManager(issuer, secret string) *Manager {
	return &Manager{issuer: issuer, secret: []byte(secret)}
}

// Claims represents the claims in an access token.
type Claims struct {
	jwt.RegisteredClaims
	Type string `json:"typ"`
}

// CreateToken creates a signed access token for the given user ID.
func (m *Manager) CreateToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Type: "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign access token")
	}

	return signedToken, nil
}

// ValidateToken validates an access token and returns the claims.
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if apperrors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.Wrap(err, "token validation failed")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}

	// Verify issuer
	if claims.Issuer != m.issuer {
		return nil, apperrors.ErrTokenInvalid
	}

	// Verify token type
	if claims.Type != "access" {
		return nil, apperrors.ErrTokenInvalid
	}

	return claims, nil
}

// ExtractExpiry reads the expiry claim without verifying the signature.
// Clients use this to decide locally whether a stored token is still
// worth presenting; trust is still established server-side.
func ExtractExpiry(tokenString string) (time.Time, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &jwt.RegisteredClaims{})
	if err != nil {
		return time.Time{}, apperrors.Wrap(err, "failed to parse token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.ExpiresAt == nil {
		return time.Time{}, apperrors.ErrTokenInvalid
	}

	return claims.ExpiresAt.Time, nil
}
