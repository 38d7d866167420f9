package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/foguel/delivery-backend/pkg/db/models"
	"github.com/foguel/delivery-backend/pkg/pagination"
)

// ProductDTO is the API view of a product.
type ProductDTO struct {
	ID        uuid.UUID       `json:"id"`
	Nome      string          `json:"nome"`
	Preco     decimal.Decimal `json:"preco"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ListResult is one page of products.
type ListResult struct {
	Items      []ProductDTO    `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

// CreateInput holds the validated payload to create a product.
type CreateInput struct {
	Nome  string
	Preco decimal.Decimal
}

// UpdateInput holds optional changes. Nil fields are left untouched.
type UpdateInput struct {
	Nome  *string
	Preco *decimal.Decimal
}

// FromModel maps the persisted row to its API view.
func FromModel(m models.Product) ProductDTO {
	return ProductDTO{ID: m.ID, Nome: m.Nome, Preco: m.Preco, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}
