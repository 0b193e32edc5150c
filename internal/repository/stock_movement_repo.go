package repository

import (
	"context"

	"github.com/marcadamcarter/pantry-scanner/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovementRepository records and lists quantity-change audit rows.
type StockMovementRepository interface {
	Create(ctx context.Context, m *model.StockMovement) error
	ListByItem(ctx context.Context, itemID uuid.UUID, limit int) ([]model.StockMovement, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) Create(ctx context.Context, m *model.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *stockMovementRepo) ListByItem(ctx context.Context, itemID uuid.UUID, limit int) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Limit(limit).
		Find(&movements).Error
	return movements, err
}
