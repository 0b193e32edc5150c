package repository

import (
	"context"
	"time"

	"github.com/marcadamcarter/pantry-scanner/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemRepository defines the data access contract for items.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	// List returns items ordered by updated_at DESC — the one ordering the
	// persistence layer guarantees; search happens above it.
	List(ctx context.Context, location string) ([]model.Item, error)
	ListExpiring(ctx context.Context, before time.Time) ([]model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Touch refreshes updated_at after a lot mutation so the item's
	// updated_at stays monotonically non-decreasing across any change.
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	// AdjustQuantity applies a relative delta at the database, so two
	// concurrent adjustments both land instead of one overwriting the other.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).Preload("Lots").First(&item, "id = ?", id).Error
	return &item, err
}

func (r *itemRepo) List(ctx context.Context, location string) ([]model.Item, error) {
	var items []model.Item
	q := r.db.WithContext(ctx).Preload("Lots")
	if location != "" {
		q = q.Where("location = ?", location)
	}
	err := q.Order("updated_at DESC").Find(&items).Error
	return items, err
}

func (r *itemRepo) ListExpiring(ctx context.Context, before time.Time) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Preload("Lots").
		Joins("JOIN lots ON lots.item_id = items.id").
		Where("lots.expiration_date IS NOT NULL AND lots.expiration_date <= ?", before).
		Group("items.id").
		Order("updated_at DESC").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) Update(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// Lots go with the item via the FK cascade.
	return r.db.WithContext(ctx).Select("Lots").Delete(&model.Item{ID: id}).Error
}

func (r *itemRepo) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Item{}).Where("id = ?", id).
		Update("updated_at", at).Error
}

func (r *itemRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&model.Item{}).Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}
