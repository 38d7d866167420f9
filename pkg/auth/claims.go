package auth

import (
	"github.com/foguel/delivery-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
// Subject is the admin username or the collaborator id.
type AccessTokenPayload struct {
	Subject string
	Role    enums.Role
	Name    string
	CPF     string
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	Role enums.Role `json:"role"`
	Name string     `json:"name,omitempty"`
	CPF  string     `json:"cpf,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token belongs to the console administrator.
func (c AccessTokenClaims) IsAdmin() bool {
	return c.Role == enums.RoleAdmin
}
