package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var _ AuthProvider = &JWTAuthProvider{}

type JWTAuthProvider struct {
	// secret is the HMAC signing key shared with the bot integration
	secret []byte
}

type jwtClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTAuthProvider creates a new JWTAuthProvider
func NewJWTAuthProvider(secret string) (*JWTAuthProvider, error) {
	if secret == "" {
		return nil, fmt.Errorf("secret cannot be empty")
	}

	return &JWTAuthProvider{
		secret: []byte(secret),
	}, nil
}

// VerifyToken verifies a signed bearer token
func (p *JWTAuthProvider) VerifyToken(ctx context.Context, idToken string) (*TokenClaims, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error parsing token: %v", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	role := claims.Role
	if role == "" {
		role = RolePlayer
	}

	return &TokenClaims{
		Subject: claims.Subject,
		Role:    role,
	}, nil
}

// MintToken issues a signed token for a member or game master
func (p *JWTAuthProvider) MintToken(subject string, role string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("subject cannot be empty")
	}
	switch role {
	case RolePlayer, RoleGM:
	default:
		return "", fmt.Errorf("unknown role: %s", role)
	}

	now := time.Now()
	claims := jwtClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %v", err)
	}

	return signed, nil
}
