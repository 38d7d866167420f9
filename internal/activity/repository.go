package activity

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/foguel/delivery-backend/internal/repo"
	"github.com/foguel/delivery-backend/pkg/db/models"
	"github.com/foguel/delivery-backend/pkg/types"
)

// Repository reads the trigger-maintained change log.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Latest returns the newest limit rows.
func (r *Repository) Latest(ctx context.Context, limit int) ([]models.Activity, error) {
	var rows []models.Activity
	err := r.DB(ctx).
		Order("changed_at DESC").
		Order("idx DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// DeleteBefore removes rows changed before cutoff.
func (r *Repository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB(ctx).Where("changed_at < ?", cutoff).Delete(&models.Activity{})
	return res.RowsAffected, res.Error
}

// RoutesOn returns the status columns of every route scheduled on day.
func (r *Repository) RoutesOn(ctx context.Context, day types.Date) ([]models.Route, error) {
	var rows []models.Route
	err := r.DB(ctx).
		Select("id", "status", "entregue", "horario_real", "horario_chegada", "motivo_nao_entrega").
		Where("data_entrega = ?", day).
		Find(&rows).Error
	return rows, err
}
