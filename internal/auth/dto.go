package auth

import (
	"github.com/google/uuid"

	"github.com/foguel/delivery-backend/pkg/enums"
)

// AdminLoginRequest carries the console administrator credentials.
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CollaboratorLoginRequest carries the driver picked in the login screen and
// the access code they typed.
type CollaboratorLoginRequest struct {
	ColaboradorID string `json:"colaborador_id" validate:"required,uuid"`
	AccessCode    string `json:"access_code" validate:"required"`
}

// UserDTO describes the authenticated principal.
type UserDTO struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	Username string     `json:"username,omitempty"`
	Nome     string     `json:"nome,omitempty"`
	CPF      string     `json:"cpf,omitempty"`
	Role     enums.Role `json:"role"`
	IsAdmin  bool       `json:"isAdmin"`
}

// LoginResponse is returned by both login flows.
type LoginResponse struct {
	Message string  `json:"message"`
	Token   string  `json:"token"`
	User    UserDTO `json:"user"`
}

// UserSummary is one entry of the public login picker.
type UserSummary struct {
	ID   uuid.UUID `json:"id"`
	Nome string    `json:"nome"`
	CPF  string    `json:"cpf"`
}
