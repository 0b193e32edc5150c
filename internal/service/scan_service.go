package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/marcadamcarter/pantry-scanner/internal/datetext"
	"github.com/marcadamcarter/pantry-scanner/internal/dto"
	"github.com/marcadamcarter/pantry-scanner/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrSessionNotFound is returned for operations on unknown or ended sessions.
var ErrSessionNotFound = errors.New("scan session not found")

// draft is the transient accumulator for one add-item session. It is not
// persisted; Save turns it into an Item (and optionally one Lot), Cancel
// discards it.
//
// The two halves follow different overwrite policies, deliberately:
//   - product fields (name/brand/size/barcode) are fill-if-empty: the first
//     successful lookup wins and user edits are never clobbered
//   - the pending expiration date is last-wins: re-scanning replaces it, so
//     the user can recover when the scanner grabs the wrong printed date
type draft struct {
	name              string
	brand             string
	size              string
	barcode           string
	location          string
	quantity          int
	parLevel          int
	pendingExpiration *time.Time
	createdAt         time.Time
}

// ScanService routes raw scan events into drafts and commits confirmed drafts
// into the inventory.
type ScanService interface {
	StartSession(ctx context.Context) (*dto.DraftResponse, error)
	GetSession(ctx context.Context, id uuid.UUID) (*dto.DraftResponse, error)
	HandleEvent(ctx context.Context, id uuid.UUID, event dto.ScanEventRequest) (*dto.DraftResponse, error)
	EditDraft(ctx context.Context, id uuid.UUID, req dto.EditDraftRequest) (*dto.DraftResponse, error)
	Save(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

type scanService struct {
	lookup    LookupService
	inventory InventoryService

	mu       sync.Mutex
	sessions map[uuid.UUID]*draft
}

func NewScanService(lookup LookupService, inventory InventoryService) ScanService {
	return &scanService{
		lookup:    lookup,
		inventory: inventory,
		sessions:  make(map[uuid.UUID]*draft),
	}
}

func (s *scanService) StartSession(_ context.Context) (*dto.DraftResponse, error) {
	id := uuid.New()
	d := &draft{
		location:  model.LocationPantry,
		quantity:  1,
		createdAt: time.Now(),
	}
	s.mu.Lock()
	s.sessions[id] = d
	s.mu.Unlock()
	return mapDraft(id, d), nil
}

func (s *scanService) GetSession(_ context.Context, id uuid.UUID) (*dto.DraftResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return mapDraft(id, d), nil
}

func (s *scanService) HandleEvent(ctx context.Context, id uuid.UUID, event dto.ScanEventRequest) (*dto.DraftResponse, error) {
	s.mu.Lock()
	d, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	switch event.Kind {
	case dto.ScanKindBarcode:
		code := strings.TrimSpace(event.Payload)
		if code == "" {
			// Malformed payload: ignored, the draft stays as it was.
			break
		}
		s.applyBarcode(ctx, id, code)
	case dto.ScanKindText:
		transcript := strings.TrimSpace(event.Transcript)
		if transcript == "" {
			break
		}
		if parsed, ok := datetext.ParseFirstDate(transcript); ok {
			s.mu.Lock()
			if d, ok := s.sessions[id]; ok {
				// Last date wins — each recognized date replaces the
				// previous pending expiration.
				d.pendingExpiration = &parsed
			}
			s.mu.Unlock()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok = s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return mapDraft(id, d), nil
}

// applyBarcode performs the catalog lookup outside the session lock, then
// fills any still-empty product fields. Lookup failures are logged and leave
// the draft untouched.
func (s *scanService) applyBarcode(ctx context.Context, id uuid.UUID, code string) {
	product, err := s.lookup.Lookup(ctx, code)
	if err != nil {
		log.Warn().Err(err).Str("code", code).Msg("scan: lookup failed, draft unchanged")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.sessions[id]
	if !ok {
		return // session ended while the fetch was in flight
	}
	if d.barcode == "" {
		d.barcode = code
	}
	if product == nil {
		return
	}
	if d.name == "" {
		d.name = product.Name
	}
	if d.brand == "" && product.Brand != nil {
		d.brand = *product.Brand
	}
	if d.size == "" && product.Size != nil {
		d.size = *product.Size
	}
}

func (s *scanService) EditDraft(_ context.Context, id uuid.UUID, req dto.EditDraftRequest) (*dto.DraftResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if req.Name != nil {
		d.name = *req.Name
	}
	if req.Brand != nil {
		d.brand = *req.Brand
	}
	if req.Size != nil {
		d.size = *req.Size
	}
	if req.Location != nil {
		d.location = *req.Location
	}
	if req.Quantity != nil {
		d.quantity = *req.Quantity
	}
	if req.ParLevel != nil {
		d.parLevel = *req.ParLevel
	}
	return mapDraft(id, d), nil
}

func (s *scanService) Save(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error) {
	s.mu.Lock()
	d, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	req := dto.CreateItemRequest{
		Name:     d.name,
		Location: d.location,
		Quantity: &d.quantity,
		ParLevel: &d.parLevel,
	}
	if d.brand != "" {
		req.Brand = &d.brand
	}
	if d.size != "" {
		req.Size = &d.size
	}
	if d.barcode != "" {
		req.Barcode = &d.barcode
	}

	item, err := s.inventory.CreateItem(ctx, req)
	if err != nil {
		// The draft survives a failed save so the user can retry.
		return nil, err
	}

	if d.pendingExpiration != nil {
		itemID, parseErr := uuid.Parse(item.ID)
		if parseErr == nil {
			if _, err := s.inventory.AddLot(ctx, itemID, dto.AddLotRequest{ExpirationDate: d.pendingExpiration}); err != nil {
				// Undo the item so a retried save cannot duplicate it; the
				// draft, scanned date included, stays for the retry.
				if delErr := s.inventory.DeleteItem(ctx, itemID); delErr != nil {
					log.Warn().Err(delErr).Str("item_id", item.ID).Msg("scan: item cleanup failed after lot save error")
				}
				return nil, fmt.Errorf("saving lot: %w", err)
			}
		}
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	// Re-read so the response carries the lot and derived fields.
	if itemID, parseErr := uuid.Parse(item.ID); parseErr == nil {
		if full, err := s.inventory.GetItem(ctx, itemID); err == nil {
			return full, nil
		}
	}
	return item, nil
}

func (s *scanService) Cancel(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func mapDraft(id uuid.UUID, d *draft) *dto.DraftResponse {
	return &dto.DraftResponse{
		SessionID:         id.String(),
		Name:              d.name,
		Brand:             d.brand,
		Size:              d.size,
		Barcode:           d.barcode,
		Location:          d.location,
		Quantity:          d.quantity,
		ParLevel:          d.parLevel,
		PendingExpiration: d.pendingExpiration,
		CreatedAt:         d.createdAt,
	}
}
