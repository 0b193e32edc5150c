package model

import (
	"time"

	"github.com/google/uuid"
)

// Storage locations for an item.
const (
	LocationPantry  = "pantry"
	LocationFridge  = "fridge"
	LocationFreezer = "freezer"
)

// Item is a pantry product entry. Name may be empty until the user edits it —
// the presentation layer shows a placeholder, nothing is stored for it.
// Barcode is deliberately NOT unique: scanning the same physical product twice
// may create two distinct items.
type Item struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"index"`
	Brand    *string
	Size     *string
	Barcode  *string `gorm:"index"`
	Location string  `gorm:"type:varchar(20);not null;default:'pantry'"`
	Quantity int     `gorm:"not null;default:1"`
	// ParLevel is the desired minimum stock; 0 disables par tracking.
	ParLevel  int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Owning side of the composition: deleting an item deletes its lots.
	Lots []Lot `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

// SoonestExpiration returns the minimum set expiration date among the item's
// lots, or nil when no lot carries a date.
func (i *Item) SoonestExpiration() *time.Time {
	var soonest *time.Time
	for idx := range i.Lots {
		d := i.Lots[idx].ExpirationDate
		if d == nil {
			continue
		}
		if soonest == nil || d.Before(*soonest) {
			soonest = d
		}
	}
	return soonest
}

// LowStock reports whether the item is below its par level.
// Items with ParLevel 0 never flag.
func (i *Item) LowStock() bool {
	return i.ParLevel > 0 && i.Quantity < i.ParLevel
}

// ExpiryStatus classifies the item by its soonest expiration relative to now.
func (i *Item) ExpiryStatus(now time.Time) string {
	soonest := i.SoonestExpiration()
	if soonest == nil {
		return StatusNormal
	}
	return ExpiryStatusOf(*soonest, now)
}
