package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateItemRequest creates an item. Name may be empty — items auto-filled by
// a scan session are often saved before the user names them.
type CreateItemRequest struct {
	Name     string  `json:"name"     validate:"max=120"`
	Brand    *string `json:"brand"    validate:"omitempty,max=120"`
	Size     *string `json:"size"     validate:"omitempty,max=60"`
	Barcode  *string `json:"barcode"  validate:"omitempty,max=18"`
	Location string  `json:"location" validate:"omitempty,oneof=pantry fridge freezer"`
	Quantity *int    `json:"quantity" validate:"omitempty,min=0"`
	ParLevel *int    `json:"par_level" validate:"omitempty,min=0"`
}

type UpdateItemRequest struct {
	Name     *string `json:"name"     validate:"omitempty,max=120"`
	Brand    *string `json:"brand"    validate:"omitempty,max=120"`
	Size     *string `json:"size"     validate:"omitempty,max=60"`
	Barcode  *string `json:"barcode"  validate:"omitempty,max=18"`
	Location *string `json:"location" validate:"omitempty,oneof=pantry fridge freezer"`
	Quantity *int    `json:"quantity" validate:"omitempty,min=0"`
	ParLevel *int    `json:"par_level" validate:"omitempty,min=0"`
}

// AdjustQuantityRequest changes quantity-on-hand by a signed delta and records
// a stock movement.
type AdjustQuantityRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"max=200"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ItemFilter struct {
	Query    string `form:"q"`
	Location string `form:"location"`
	LowStock bool   `form:"low_stock"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Brand    *string `json:"brand"`
	Size     *string `json:"size"`
	Barcode  *string `json:"barcode"`
	Location string  `json:"location"`
	Quantity int     `json:"quantity"`
	ParLevel int     `json:"par_level"`

	// Derived, recomputed on every read
	SoonestExpiration *time.Time `json:"soonest_expiration"`
	ExpiryStatus      string     `json:"expiry_status"` // expired | soon | normal
	LowStock          bool       `json:"low_stock"`

	Lots      []LotResponse `json:"lots"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type MovementResponse struct {
	ID               string    `json:"id"`
	Delta            int       `json:"delta"`
	PreviousQuantity int       `json:"previous_quantity"`
	NewQuantity      int       `json:"new_quantity"`
	Reason           string    `json:"reason"`
	CreatedAt        time.Time `json:"created_at"`
}
