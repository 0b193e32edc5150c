package dto

import "time"

type AddLotRequest struct {
	ExpirationDate *time.Time `json:"expiration_date"`
	OpenedAt       *time.Time `json:"opened_at"`
	Notes          *string    `json:"notes" validate:"omitempty,max=500"`
}

type LotResponse struct {
	ID             string     `json:"id"`
	ItemID         string     `json:"item_id"`
	ExpirationDate *time.Time `json:"expiration_date"`
	OpenedAt       *time.Time `json:"opened_at"`
	Notes          *string    `json:"notes"`
	// Derived from ExpirationDate; "normal" when the date is unset.
	ExpiryStatus string    `json:"expiry_status"`
	CreatedAt    time.Time `json:"created_at"`
}

// ExpiringLotResponse is one row of the expiring report / digest.
type ExpiringLotResponse struct {
	ItemID         string    `json:"item_id"`
	ItemName       string    `json:"item_name"`
	LotID          string    `json:"lot_id"`
	ExpirationDate time.Time `json:"expiration_date"`
	ExpiryStatus   string    `json:"expiry_status"`
}
