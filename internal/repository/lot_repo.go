package repository

import (
	"context"

	"github.com/marcadamcarter/pantry-scanner/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LotRepository defines the data access contract for lots.
type LotRepository interface {
	Create(ctx context.Context, lot *model.Lot) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type lotRepo struct{ db *gorm.DB }

func NewLotRepository(db *gorm.DB) LotRepository { return &lotRepo{db: db} }

func (r *lotRepo) Create(ctx context.Context, lot *model.Lot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

func (r *lotRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Lot, error) {
	var lot model.Lot
	err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error
	return &lot, err
}

func (r *lotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// Deleting a lot never touches its sibling lots or the owning item row.
	return r.db.WithContext(ctx).Delete(&model.Lot{}, "id = ?", id).Error
}
