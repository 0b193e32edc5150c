package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/marcadamcarter/pantry-scanner/internal/dto"
	"github.com/marcadamcarter/pantry-scanner/internal/model"
	"github.com/marcadamcarter/pantry-scanner/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventoryService defines the item/lot operations and derived queries.
// Every mutation leaves updated_at non-decreasing on the touched item.
type InventoryService interface {
	CreateItem(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	GetItem(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error)
	ListItems(ctx context.Context, filter dto.ItemFilter) ([]dto.ItemResponse, error)
	UpdateItem(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	AdjustQuantity(ctx context.Context, id uuid.UUID, req dto.AdjustQuantityRequest) (*dto.ItemResponse, error)
	ListMovements(ctx context.Context, id uuid.UUID) ([]dto.MovementResponse, error)

	AddLot(ctx context.Context, itemID uuid.UUID, req dto.AddLotRequest) (*dto.LotResponse, error)
	DeleteLot(ctx context.Context, lotID uuid.UUID) error

	ListExpiring(ctx context.Context, withinDays int) ([]dto.ExpiringLotResponse, error)
	LowStockItems(ctx context.Context) ([]model.Item, error)
}

type inventoryService struct {
	items     repository.ItemRepository
	lots      repository.LotRepository
	movements repository.StockMovementRepository
}

func NewInventoryService(items repository.ItemRepository, lots repository.LotRepository, movements repository.StockMovementRepository) InventoryService {
	return &inventoryService{items: items, lots: lots, movements: movements}
}

// FilterItems is the in-memory search used by the list endpoint: case-
// insensitive substring match on name, brand, or raw barcode. An empty query
// returns the input unfiltered; ordering is preserved from the input, which
// the repository supplies sorted by updated_at descending.
func FilterItems(query string, items []model.Item) []model.Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	result := make([]model.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), q) ||
			(item.Brand != nil && strings.Contains(strings.ToLower(*item.Brand), q)) ||
			(item.Barcode != nil && strings.Contains(strings.ToLower(*item.Barcode), q)) {
			result = append(result, item)
		}
	}
	return result
}

// mapItem converts a model to a DTO response, computing the derived fields.
func mapItem(item model.Item, now time.Time) dto.ItemResponse {
	lots := make([]dto.LotResponse, 0, len(item.Lots))
	for _, lot := range item.Lots {
		lots = append(lots, mapLot(lot, now))
	}
	return dto.ItemResponse{
		ID:                item.ID.String(),
		Name:              item.Name,
		Brand:             item.Brand,
		Size:              item.Size,
		Barcode:           item.Barcode,
		Location:          item.Location,
		Quantity:          item.Quantity,
		ParLevel:          item.ParLevel,
		SoonestExpiration: item.SoonestExpiration(),
		ExpiryStatus:      item.ExpiryStatus(now),
		LowStock:          item.LowStock(),
		Lots:              lots,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

func mapLot(lot model.Lot, now time.Time) dto.LotResponse {
	status := model.StatusNormal
	if lot.ExpirationDate != nil {
		status = model.ExpiryStatusOf(*lot.ExpirationDate, now)
	}
	return dto.LotResponse{
		ID:             lot.ID.String(),
		ItemID:         lot.ItemID.String(),
		ExpirationDate: lot.ExpirationDate,
		OpenedAt:       lot.OpenedAt,
		Notes:          lot.Notes,
		ExpiryStatus:   status,
		CreatedAt:      lot.CreatedAt,
	}
}

func (s *inventoryService) CreateItem(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	item := &model.Item{
		Name:     req.Name, // empty is allowed; display layer shows a placeholder
		Brand:    req.Brand,
		Size:     req.Size,
		Barcode:  req.Barcode,
		Location: model.LocationPantry,
		Quantity: 1,
	}
	if req.Location != "" {
		item.Location = req.Location
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.ParLevel != nil {
		item.ParLevel = *req.ParLevel
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	resp := mapItem(*item, time.Now())
	return &resp, nil
}

func (s *inventoryService) GetItem(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapItem(*item, time.Now())
	return &resp, nil
}

func (s *inventoryService) ListItems(ctx context.Context, filter dto.ItemFilter) ([]dto.ItemResponse, error) {
	items, err := s.items.List(ctx, filter.Location)
	if err != nil {
		return nil, err
	}
	items = FilterItems(filter.Query, items)

	now := time.Now()
	result := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		if filter.LowStock && !item.LowStock() {
			continue
		}
		result = append(result, mapItem(item, now))
	}
	return result, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("item not found")
		}
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Brand != nil {
		item.Brand = req.Brand
	}
	if req.Size != nil {
		item.Size = req.Size
	}
	if req.Barcode != nil {
		item.Barcode = req.Barcode
	}
	if req.Location != nil {
		item.Location = *req.Location
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.ParLevel != nil {
		item.ParLevel = *req.ParLevel
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	resp := mapItem(*item, time.Now())
	return &resp, nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.items.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("item not found")
		}
		return err
	}
	// Cascades to all owned lots.
	return s.items.Delete(ctx, id)
}

func (s *inventoryService) AdjustQuantity(ctx context.Context, id uuid.UUID, req dto.AdjustQuantityRequest) (*dto.ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("item not found")
		}
		return nil, err
	}

	previous := item.Quantity
	next := previous + req.Delta
	if next < 0 {
		return nil, errors.New("quantity cannot go negative")
	}

	if err := s.items.AdjustQuantity(ctx, id, req.Delta); err != nil {
		return nil, err
	}
	item.Quantity = next

	// Audit trail is best-effort: a failed movement write never rolls back
	// the quantity change, it is logged and surfaced nowhere else.
	movement := &model.StockMovement{
		ItemID:           item.ID,
		Delta:            req.Delta,
		PreviousQuantity: previous,
		NewQuantity:      next,
		Reason:           req.Reason,
	}
	if err := s.movements.Create(ctx, movement); err != nil {
		log.Warn().Err(err).Str("item_id", item.ID.String()).Msg("stock movement write failed")
	}

	resp := mapItem(*item, time.Now())
	return &resp, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, id uuid.UUID) ([]dto.MovementResponse, error) {
	movements, err := s.movements.ListByItem(ctx, id, 100)
	if err != nil {
		return nil, err
	}
	result := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		result = append(result, dto.MovementResponse{
			ID:               m.ID.String(),
			Delta:            m.Delta,
			PreviousQuantity: m.PreviousQuantity,
			NewQuantity:      m.NewQuantity,
			Reason:           m.Reason,
			CreatedAt:        m.CreatedAt,
		})
	}
	return result, nil
}

func (s *inventoryService) AddLot(ctx context.Context, itemID uuid.UUID, req dto.AddLotRequest) (*dto.LotResponse, error) {
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("item not found")
		}
		return nil, err
	}

	lot := &model.Lot{
		ItemID:         itemID,
		ExpirationDate: req.ExpirationDate,
		OpenedAt:       req.OpenedAt,
		Notes:          req.Notes,
	}
	if err := s.lots.Create(ctx, lot); err != nil {
		return nil, err
	}
	// A lot mutation counts as an item mutation for updated_at purposes.
	if err := s.items.Touch(ctx, itemID, time.Now()); err != nil {
		log.Warn().Err(err).Str("item_id", itemID.String()).Msg("item touch failed after lot add")
	}

	resp := mapLot(*lot, time.Now())
	return &resp, nil
}

func (s *inventoryService) DeleteLot(ctx context.Context, lotID uuid.UUID) error {
	lot, err := s.lots.FindByID(ctx, lotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("lot not found")
		}
		return err
	}
	if err := s.lots.Delete(ctx, lotID); err != nil {
		return err
	}
	if err := s.items.Touch(ctx, lot.ItemID, time.Now()); err != nil {
		log.Warn().Err(err).Str("item_id", lot.ItemID.String()).Msg("item touch failed after lot delete")
	}
	return nil
}

func (s *inventoryService) ListExpiring(ctx context.Context, withinDays int) ([]dto.ExpiringLotResponse, error) {
	if withinDays <= 0 {
		withinDays = model.SoonWindowDays
	}
	now := time.Now()
	before := now.AddDate(0, 0, withinDays)

	items, err := s.items.ListExpiring(ctx, before)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ExpiringLotResponse, 0, len(items))
	for _, item := range items {
		for _, lot := range item.Lots {
			if lot.ExpirationDate == nil || lot.ExpirationDate.After(before) {
				continue
			}
			result = append(result, dto.ExpiringLotResponse{
				ItemID:         item.ID.String(),
				ItemName:       item.Name,
				LotID:          lot.ID.String(),
				ExpirationDate: *lot.ExpirationDate,
				ExpiryStatus:   model.ExpiryStatusOf(*lot.ExpirationDate, now),
			})
		}
	}
	return result, nil
}

func (s *inventoryService) LowStockItems(ctx context.Context) ([]model.Item, error) {
	items, err := s.items.List(ctx, "")
	if err != nil {
		return nil, err
	}
	low := make([]model.Item, 0)
	for _, item := range items {
		if item.LowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}
