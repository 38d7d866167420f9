package routes

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foguel/delivery-backend/internal/repo"
	"github.com/foguel/delivery-backend/pkg/db/models"
	"github.com/foguel/delivery-backend/pkg/enums"
	"github.com/foguel/delivery-backend/pkg/types"
)

// Repository persists routes.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{Base: repo.NewBase(tx)}
}

func (r *Repository) Create(ctx context.Context, m *models.Route) error {
	return r.DB(ctx).Omit(clause.Associations).Create(m).Error
}

func (r *Repository) Save(ctx context.Context, m *models.Route) error {
	return r.DB(ctx).Omit(clause.Associations).Save(m).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Route{}, "id = ?", id).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Route, error) {
	var m models.Route
	if err := r.DB(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindWithRelations loads the route with its client and collaborator.
func (r *Repository) FindWithRelations(ctx context.Context, id uuid.UUID) (*models.Route, error) {
	var m models.Route
	err := r.DB(ctx).Preload("Cliente").Preload("Colaborador").First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// LockCollaborator fails with gorm.ErrRecordNotFound when the collaborator is
// missing. On Postgres the row stays locked until the transaction ends, which
// serializes sequence allocation per collaborator.
func (r *Repository) LockCollaborator(ctx context.Context, id uuid.UUID) error {
	q := r.DB(ctx).Select("id")
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var c models.Collaborator
	return q.First(&c, "id = ?", id).Error
}

// ClientExists fails with gorm.ErrRecordNotFound when the client is missing.
func (r *Repository) ClientExists(ctx context.Context, id uuid.UUID) error {
	var c models.Client
	return r.DB(ctx).Select("id").First(&c, "id = ?", id).Error
}

// NextSequence returns max(sequence)+1 for the collaborator on day, 1 when none.
func (r *Repository) NextSequence(ctx context.Context, colaboradorID uuid.UUID, day types.Date) (int, error) {
	var current sql.NullInt64
	row := r.DB(ctx).Model(&models.Route{}).
		Select("MAX(sequence)").
		Where("colaborador_id = ? AND data_entrega = ?", colaboradorID, day).
		Row()
	if err := row.Scan(&current); err != nil {
		return 0, err
	}
	if !current.Valid {
		return 1, nil
	}
	return int(current.Int64) + 1, nil
}

// ListWithRelations returns every route newest day first.
func (r *Repository) ListWithRelations(ctx context.Context) ([]models.Route, error) {
	var rows []models.Route
	err := r.DB(ctx).
		Preload("Cliente").
		Preload("Colaborador").
		Order("data_entrega DESC").
		Order("sequence ASC").
		Find(&rows).Error
	return rows, err
}

// ListFinished returns routes that reached an outcome, newest first.
func (r *Repository) ListFinished(ctx context.Context, limit int) ([]models.Route, error) {
	literals := enums.RouteStatusLiterals(enums.RouteStatusDelivered, enums.RouteStatusFailed)
	var rows []models.Route
	err := r.DB(ctx).
		Preload("Cliente").
		Where("entregue IS NOT NULL OR status IN ?", literals).
		Order("data_entrega DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// ListSince returns routes scheduled on or after from, every route when from is nil.
func (r *Repository) ListSince(ctx context.Context, from *types.Date) ([]models.Route, error) {
	q := r.DB(ctx).Preload("Cliente").Preload("Colaborador")
	if from != nil {
		q = q.Where("data_entrega >= ?", *from)
	}
	var rows []models.Route
	err := q.Order("data_entrega DESC").Order("created_at DESC").Find(&rows).Error
	return rows, err
}
