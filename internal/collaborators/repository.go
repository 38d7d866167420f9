package collaborators

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foguel/delivery-backend/internal/repo"
	"github.com/foguel/delivery-backend/pkg/db/models"
)

// Repository persists collaborators.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

func (r *Repository) Create(ctx context.Context, m *models.Collaborator) error {
	return r.DB(ctx).Create(m).Error
}

func (r *Repository) Save(ctx context.Context, m *models.Collaborator) error {
	return r.DB(ctx).Save(m).Error
}

// Delete removes the row and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).Delete(&models.Collaborator{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Collaborator, error) {
	var m models.Collaborator
	if err := r.DB(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// CPFTaken reports whether another collaborator already uses cpf.
func (r *Repository) CPFTaken(ctx context.Context, cpf string, exclude *uuid.UUID) (bool, error) {
	q := r.DB(ctx).Model(&models.Collaborator{}).Where("cpf = ?", cpf)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RouteCount returns how many routes reference the collaborator.
func (r *Repository) RouteCount(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Route{}).Where("colaborador_id = ?", id).Count(&count).Error
	return count, err
}

// List returns one page ordered by name plus the total row count.
func (r *Repository) List(ctx context.Context, offset, limit int) ([]models.Collaborator, int64, error) {
	var total int64
	if err := r.DB(ctx).Model(&models.Collaborator{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.Collaborator
	err := r.DB(ctx).Order("nome ASC").Order("id ASC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

// ListAll returns every collaborator ordered by name.
func (r *Repository) ListAll(ctx context.Context) ([]models.Collaborator, error) {
	var rows []models.Collaborator
	err := r.DB(ctx).Order("nome ASC").Order("id ASC").Find(&rows).Error
	return rows, err
}

// NamesByIDs resolves ids to names in one query. Unknown ids are absent.
func (r *Repository) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Collaborator
	if err := r.DB(ctx).Select("id", "nome").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID.String()] = row.Nome
	}
	return out, nil
}
