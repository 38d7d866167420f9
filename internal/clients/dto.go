package clients

import (
	"time"

	"github.com/google/uuid"

	"github.com/foguel/delivery-backend/pkg/db/models"
	"github.com/foguel/delivery-backend/pkg/pagination"
)

// ClientDTO is the API view of a client.
type ClientDTO struct {
	ID        uuid.UUID `json:"id"`
	Nome      string    `json:"nome"`
	CNPJ      string    `json:"cnpj"`
	Rua       string    `json:"rua"`
	Numero    string    `json:"numero"`
	Bairro    string    `json:"bairro"`
	Cidade    string    `json:"cidade"`
	CEP       string    `json:"cep"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListResult is one page of clients.
type ListResult struct {
	Items      []ClientDTO     `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

// AddressInput carries the street address block.
type AddressInput struct {
	Rua    string
	Numero string
	Bairro string
	Cidade string
	CEP    string
}

// CreateInput holds the validated payload to register a client.
type CreateInput struct {
	Nome    string
	CNPJ    string
	Address AddressInput
}

// UpdateInput holds optional changes. Nil fields are left untouched.
type UpdateInput struct {
	Nome   *string
	CNPJ   *string
	Rua    *string
	Numero *string
	Bairro *string
	Cidade *string
	CEP    *string
}

// FromModel maps the persisted row to its API view.
func FromModel(m models.Client) ClientDTO {
	return ClientDTO{
		ID:        m.ID,
		Nome:      m.Nome,
		CNPJ:      m.CNPJ,
		Rua:       m.Rua,
		Numero:    m.Numero,
		Bairro:    m.Bairro,
		Cidade:    m.Cidade,
		CEP:       m.CEP,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
