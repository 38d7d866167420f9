package collaborators

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

const entity = "collaborator"

// Service exposes collaborator registration operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CollaboratorDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*CollaboratorDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	ListSummaries(ctx context.Context) ([]SummaryDTO, error)
}

// AccessCodeCipher seals access codes at rest.
type AccessCodeCipher interface {
	Encrypt(plain string) (string, error)
	Decrypt(encoded string) (string, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo   *Repository
	tx     txRunner
	cipher AccessCodeCipher
}

// NewService constructs the collaborator service.
func NewService(repo *Repository, tx txRunner, cipher AccessCodeCipher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("collaborator repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if cipher == nil {
		return nil, fmt.Errorf("access code cipher required")
	}
	return &service{repo: repo, tx: tx, cipher: cipher}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CollaboratorDTO, error) {
	nome := strings.TrimSpace(input.Nome)
	if nome == "" || input.CPF == "" || input.AccessCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nome, cpf and access_code are required")
	}
	encrypted, err := s.cipher.Encrypt(input.AccessCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encrypt access code")
	}

	m := &models.Collaborator{Nome: nome, CPF: input.CPF, EncryptedAccessCode: encrypted}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		taken, err := txRepo.CPFTaken(ctx, m.CPF, nil)
		if err != nil {
			return err
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "cpf already registered")
		}
		return txRepo.Create(ctx, m)
	})
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	return s.toDTO(*m), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*CollaboratorDTO, error) {
	var updated models.Collaborator
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
		if input.CPF != nil && *input.CPF != "" && *input.CPF != m.CPF {
			taken, err := txRepo.CPFTaken(ctx, *input.CPF, &m.ID)
			if err != nil {
				return err
			}
			if taken {
				return pkgerrors.New(pkgerrors.CodeConflict, "cpf already registered for another collaborator")
			}
			m.CPF = *input.CPF
		}
		if input.AccessCode != nil && *input.AccessCode != "" {
			encrypted, err := s.cipher.Encrypt(*input.AccessCode)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encrypt access code")
			}
			m.EncryptedAccessCode = encrypted
		}
		if err := txRepo.Save(ctx, m); err != nil {
			return err
		}
		updated = *m
		return nil
	})
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	return s.toDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		refs, err := txRepo.RouteCount(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return pkgerrors.Newf(pkgerrors.CodeConflict, "collaborator has %d routes", refs)
		}
		found, err := txRepo.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "collaborator not found")
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
	items := make([]CollaboratorDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, *s.toDTO(row))
	}
	return &ListResult{Items: items, Pagination: pagination.NewMeta(params, total)}, nil
}

func (s *service) ListSummaries(ctx context.Context) ([]SummaryDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, db.MapError(err, entity)
	}
	out := make([]SummaryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSummary(row))
	}
	return out, nil
}

// toDTO decrypts the access code. An undecryptable code renders empty so one
// corrupt row does not break the listing.
func (s *service) toDTO(m models.Collaborator) *CollaboratorDTO {
	code, err := s.cipher.Decrypt(m.EncryptedAccessCode)
	if err != nil {
		code = ""
	}
	return &CollaboratorDTO{
		ID:         m.ID,
		Nome:       m.Nome,
		CPF:        m.CPF,
		AccessCode: code,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
