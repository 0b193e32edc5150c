package dto

import "time"

// Scan event kinds emitted by the capture collaborator. Multiple events may
// arrive per camera frame, with no ordering guarantee between the barcode and
// the text read off the same physical target.
const (
	ScanKindBarcode = "barcode"
	ScanKindText    = "text"
)

// ScanEventRequest is one raw scan event routed into an open scan session.
type ScanEventRequest struct {
	Kind       string `json:"kind" validate:"required,oneof=barcode text"`
	Payload    string `json:"payload"`    // decoded barcode digits (kind=barcode)
	Transcript string `json:"transcript"` // recognized text line (kind=text)
}

// EditDraftRequest applies manual edits to an open draft. Setting a field here
// counts as a user edit: later barcode lookups will not overwrite it.
type EditDraftRequest struct {
	Name     *string `json:"name"     validate:"omitempty,max=120"`
	Brand    *string `json:"brand"    validate:"omitempty,max=120"`
	Size     *string `json:"size"     validate:"omitempty,max=60"`
	Location *string `json:"location" validate:"omitempty,oneof=pantry fridge freezer"`
	Quantity *int    `json:"quantity" validate:"omitempty,min=0"`
	ParLevel *int    `json:"par_level" validate:"omitempty,min=0"`
}

// DraftResponse is the current accumulated state of a scan session.
type DraftResponse struct {
	SessionID         string     `json:"session_id"`
	Name              string     `json:"name"`
	Brand             string     `json:"brand"`
	Size              string     `json:"size"`
	Barcode           string     `json:"barcode"`
	Location          string     `json:"location"`
	Quantity          int        `json:"quantity"`
	ParLevel          int        `json:"par_level"`
	PendingExpiration *time.Time `json:"pending_expiration"`
	CreatedAt         time.Time  `json:"created_at"`
}
