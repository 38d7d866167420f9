package deliveries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foguel/delivery-backend/internal/repo"
	"github.com/foguel/delivery-backend/pkg/db/models"
	"github.com/foguel/delivery-backend/pkg/types"
)

// Repository reads and updates routes on behalf of collaborators.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{Base: repo.NewBase(tx)}
}

// ListForCollaboratorOn returns the collaborator's stops on day in visiting order.
func (r *Repository) ListForCollaboratorOn(ctx context.Context, colaboradorID uuid.UUID, day types.Date) ([]models.Route, error) {
	var rows []models.Route
	err := r.DB(ctx).
		Preload("Cliente").
		Where("colaborador_id = ? AND data_entrega = ?", colaboradorID, day).
		Order("sequence ASC").
		Order("horario_previsto ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindWithClient(ctx context.Context, id uuid.UUID) (*models.Route, error) {
	var m models.Route
	if err := r.DB(ctx).Preload("Cliente").First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindForUpdate loads the route, row-locked on Postgres.
func (r *Repository) FindForUpdate(ctx context.Context, id uuid.UUID) (*models.Route, error) {
	q := r.DB(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var m models.Route
	if err := q.First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) Save(ctx context.Context, m *models.Route) error {
	return r.DB(ctx).Omit(clause.Associations).Save(m).Error
}
