package collaborators

import (
	"time"

	"github.com/google/uuid"

	"github.com/foguel/delivery-backend/pkg/db/models"
	"github.com/foguel/delivery-backend/pkg/pagination"
)

// CollaboratorDTO is the admin console view, access code decrypted.
type CollaboratorDTO struct {
	ID         uuid.UUID `json:"id"`
	Nome       string    `json:"nome"`
	CPF        string    `json:"cpf"`
	AccessCode string    `json:"access_code"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SummaryDTO is the public projection used by the login picker and /register/all.
type SummaryDTO struct {
	ID   uuid.UUID `json:"id"`
	Nome string    `json:"nome"`
	CPF  string    `json:"cpf"`
}

// ListResult is one page of collaborators.
type ListResult struct {
	Items      []CollaboratorDTO `json:"items"`
	Pagination pagination.Meta   `json:"pagination"`
}

// CreateInput holds the validated payload to register a collaborator.
type CreateInput struct {
	Nome       string
	CPF        string
	AccessCode string
}

// UpdateInput holds optional changes. Nil fields are left untouched.
type UpdateInput struct {
	Nome       *string
	CPF        *string
	AccessCode *string
}

func toSummary(m models.Collaborator) SummaryDTO {
	return SummaryDTO{ID: m.ID, Nome: m.Nome, CPF: m.CPF}
}
