package providers

import "context"

const (
	// RolePlayer grants a member its own character operations
	RolePlayer = "player"
	// RoleGM additionally grants credits, item grants, and snapshot restores
	RoleGM = "gm"
)

type AuthProvider interface {
	VerifyToken(ctx context.Context, idToken string) (*TokenClaims, error)
}

type TokenClaims struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

func (c *TokenClaims) IsGM() bool {
	return c.Role == RoleGM
}
