package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/foguel/delivery-backend/pkg/db"
	"github.com/foguel/delivery-backend/pkg/db/models"
	pkgerrors "github.com/foguel/delivery-backend/pkg/errors"
	"github.com/foguel/delivery-backend/pkg/pagination"
)

const entity = "product"

// Service exposes product catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	ListAll(ctx context.Context) ([]ProductDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs the product service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*ProductDTO, error) {
	nome := strings.TrimSpace(input.Nome)
	if nome == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nome is required")
	}
	if err := validatePrice(input.Preco); err != nil {
		return nil, err
	}
	m := &models.Product{Nome: nome, Preco: input.Preco.Round(2)}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, db.MapError(err, entity)
	}
	dto := FromModel(*m)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	if input.Nome != nil {
		if nome := strings.TrimSpace(*input.Nome); nome != "" {
			m.Nome = nome
		}
	}
	if input.Preco != nil {
		if err := validatePrice(*input.Preco); err != nil {
			return nil, err
		}
		m.Preco = input.Preco.Round(2)
	}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, db.MapError(err, entity)
	}
	dto := FromModel(*m)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return db.MapError(err, entity)
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	params = params.Normalize()
	rows, total, err := s.repo.List(ctx, params.Offset(), params.Limit)
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	return &ListResult{Items: toDTOs(rows), Pagination: pagination.NewMeta(params, total)}, nil
}

func (s *service) ListAll(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	return toDTOs(rows), nil
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "preco must be greater than or equal to 0").
			WithDetails(map[string]string{"preco": p.String()})
	}
	return nil
}

func toDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out
}
