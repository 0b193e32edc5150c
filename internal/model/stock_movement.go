package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement records each quantity change on an item.
// Created automatically when quantity is adjusted or an item is consumed.
type StockMovement struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID           uuid.UUID `gorm:"type:uuid;not null;index"`
	Delta            int       `gorm:"not null"` // positive = added, negative = consumed
	PreviousQuantity int       `gorm:"not null"`
	NewQuantity      int       `gorm:"not null"`
	Reason           string
	CreatedAt        time.Time

	Item *Item `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default pluralization (stock_movements is fine,
// but keep it explicit alongside the index-heavy tables).
func (StockMovement) TableName() string { return "stock_movements" }
