package clients

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foguel/delivery-backend/pkg/db"
	"github.com/foguel/delivery-backend/pkg/db/models"
	pkgerrors "github.com/foguel/delivery-backend/pkg/errors"
	"github.com/foguel/delivery-backend/pkg/pagination"
)

const entity = "client"

// Service exposes client registration operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*ClientDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ClientDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	ListAll(ctx context.Context) ([]ClientDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService constructs the client service.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("client repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*ClientDTO, error) {
	nome := strings.TrimSpace(input.Nome)
	if nome == "" || input.CNPJ == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nome and cnpj are required")
	}
	m := &models.Client{
		Nome:   nome,
		CNPJ:   input.CNPJ,
		Rua:    strings.TrimSpace(input.Address.Rua),
		Numero: strings.TrimSpace(input.Address.Numero),
		Bairro: strings.TrimSpace(input.Address.Bairro),
		Cidade: strings.TrimSpace(input.Address.Cidade),
		CEP:    strings.TrimSpace(input.Address.CEP),
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		taken, err := txRepo.CNPJTaken(ctx, m.CNPJ, nil)
		if err != nil {
			return err
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "cnpj already registered")
		}
		return txRepo.Create(ctx, m)
	})
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	dto := FromModel(*m)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ClientDTO, error) {
	var updated models.Client
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		m, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if input.Nome != nil {
			if nome := strings.TrimSpace(*input.Nome); nome != "" {
				m.Nome = nome
			}
		}
		if input.CNPJ != nil && *input.CNPJ != "" && *input.CNPJ != m.CNPJ {
			taken, err := txRepo.CNPJTaken(ctx, *input.CNPJ, &m.ID)
			if err != nil {
				return err
			}
			if taken {
				return pkgerrors.New(pkgerrors.CodeConflict, "cnpj already registered for another client")
			}
			m.CNPJ = *input.CNPJ
		}
		assign(&m.Rua, input.Rua)
		assign(&m.Numero, input.Numero)
		assign(&m.Bairro, input.Bairro)
		assign(&m.Cidade, input.Cidade)
		assign(&m.CEP, input.CEP)
		if err := txRepo.Save(ctx, m); err != nil {
			return err
		}
		updated = *m
		return nil
	})
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	dto := FromModel(updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		refs, err := txRepo.RouteCount(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return pkgerrors.Newf(pkgerrors.CodeConflict, "client has %d routes", refs)
		}
		found, err := txRepo.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil
	})
	return db.MapError(err, entity)
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	params = params.Normalize()
	rows, total, err := s.repo.List(ctx, params.Offset(), params.Limit)
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	return &ListResult{Items: toDTOs(rows), Pagination: pagination.NewMeta(params, total)}, nil
}

func (s *service) ListAll(ctx context.Context) ([]ClientDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	return toDTOs(rows), nil
}

func toDTOs(rows []models.Client) []ClientDTO {
	out := make([]ClientDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out
}

func assign(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}
