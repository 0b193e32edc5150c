package tests

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/marcadamcarter/pantry-scanner/internal/dto"
	"github.com/marcadamcarter/pantry-scanner/internal/model"
	"github.com/marcadamcarter/pantry-scanner/internal/repository"
	"github.com/marcadamcarter/pantry-scanner/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory repository stubs ───────────────────────────────────────────────

type stubLotRepo struct {
	lots map[uuid.UUID]*model.Lot
}

func newStubLotRepo() *stubLotRepo {
	return &stubLotRepo{lots: make(map[uuid.UUID]*model.Lot)}
}

func (r *stubLotRepo) Create(_ context.Context, lot *model.Lot) error {
	if lot.ID == uuid.Nil {
		lot.ID = uuid.New()
	}
	lot.CreatedAt = time.Now()
	r.lots[lot.ID] = lot
	return nil
}

func (r *stubLotRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Lot, error) {
	lot, ok := r.lots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return lot, nil
}

func (r *stubLotRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.lots[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.lots, id)
	return nil
}

var _ repository.LotRepository = (*stubLotRepo)(nil)

type stubItemRepo struct {
	items       map[uuid.UUID]*model.Item
	lots        *stubLotRepo
	updateCalls int
	adjustCalls int
}

func newStubItemRepo(lots *stubLotRepo) *stubItemRepo {
	return &stubItemRepo{items: make(map[uuid.UUID]*model.Item), lots: lots}
}

func (r *stubItemRepo) withLots(item model.Item) model.Item {
	item.Lots = nil
	for _, lot := range r.lots.lots {
		if lot.ItemID == item.ID {
			item.Lots = append(item.Lots, *lot)
		}
	}
	return item
}

func (r *stubItemRepo) Create(_ context.Context, item *model.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.items[item.ID] = item
	return nil
}

func (r *stubItemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	loaded := r.withLots(*item)
	return &loaded, nil
}

func (r *stubItemRepo) List(_ context.Context, location string) ([]model.Item, error) {
	var result []model.Item
	for _, item := range r.items {
		if location != "" && item.Location != location {
			continue
		}
		result = append(result, r.withLots(*item))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (r *stubItemRepo) ListExpiring(_ context.Context, before time.Time) ([]model.Item, error) {
	var result []model.Item
	for _, item := range r.items {
		loaded := r.withLots(*item)
		for _, lot := range loaded.Lots {
			if lot.ExpirationDate != nil && !lot.ExpirationDate.After(before) {
				result = append(result, loaded)
				break
			}
		}
	}
	return result, nil
}

func (r *stubItemRepo) Update(_ context.Context, item *model.Item) error {
	if _, ok := r.items[item.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.updateCalls++
	item.UpdatedAt = time.Now()
	stored := *item
	stored.Lots = nil
	r.items[item.ID] = &stored
	return nil
}

func (r *stubItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	// Mirror the FK cascade
	for lotID, lot := range r.lots.lots {
		if lot.ItemID == id {
			delete(r.lots.lots, lotID)
		}
	}
	return nil
}

func (r *stubItemRepo) Touch(_ context.Context, id uuid.UUID, at time.Time) error {
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if at.After(item.UpdatedAt) {
		item.UpdatedAt = at
	}
	return nil
}

func (r *stubItemRepo) AdjustQuantity(_ context.Context, id uuid.UUID, delta int) error {
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.adjustCalls++
	item.Quantity += delta
	item.UpdatedAt = time.Now()
	return nil
}

var _ repository.ItemRepository = (*stubItemRepo)(nil)

type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListByItem(_ context.Context, itemID uuid.UUID, limit int) ([]model.StockMovement, error) {
	var result []model.StockMovement
	for _, m := range r.movements {
		if m.ItemID == itemID {
			result = append(result, m)
		}
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func newInventoryFixture() (service.InventoryService, *stubItemRepo, *stubLotRepo, *stubMovementRepo) {
	lots := newStubLotRepo()
	items := newStubItemRepo(lots)
	movements := &stubMovementRepo{}
	return service.NewInventoryService(items, lots, movements), items, lots, movements
}

func strPtr(s string) *string { return &s }

// dateFromNow returns a pointer to now shifted by the given number of days.
func dateFromNow(days int) *time.Time {
	d := time.Now().AddDate(0, 0, days)
	return &d
}

func seedItem(items *stubItemRepo, name string, quantity, parLevel int) *model.Item {
	item := &model.Item{
		ID:       uuid.New(),
		Name:     name,
		Location: model.LocationPantry,
		Quantity: quantity,
		ParLevel: parLevel,
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	items.items[item.ID] = item
	return item
}

func seedLot(lots *stubLotRepo, itemID uuid.UUID, expiration *time.Time) *model.Lot {
	lot := &model.Lot{
		ID:             uuid.New(),
		ItemID:         itemID,
		ExpirationDate: expiration,
		CreatedAt:      time.Now(),
	}
	lots.lots[lot.ID] = lot
	return lot
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestCreateItemDefaults(t *testing.T) {
	svc, _, _, _ := newInventoryFixture()

	resp, err := svc.CreateItem(context.Background(), dto.CreateItemRequest{})
	require.NoError(t, err)

	// Unnamed items are allowed; scan flows save drafts before naming them
	assert.Equal(t, "", resp.Name)
	assert.Equal(t, model.LocationPantry, resp.Location)
	assert.Equal(t, 1, resp.Quantity)
	assert.Equal(t, 0, resp.ParLevel)
	assert.False(t, resp.LowStock)
	assert.Nil(t, resp.SoonestExpiration)
	assert.Equal(t, model.StatusNormal, resp.ExpiryStatus)
}

func TestSoonestExpirationPicksEarliest(t *testing.T) {
	svc, items, lots, _ := newInventoryFixture()
	item := seedItem(items, "Yogurt", 3, 0)

	expired := dateFromNow(-2)
	seedLot(lots, item.ID, dateFromNow(10))
	seedLot(lots, item.ID, expired)
	seedLot(lots, item.ID, nil) // undated lot never wins

	resp, err := svc.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.SoonestExpiration)

	// The expired lot is still the soonest — past dates are not skipped
	assert.Equal(t, expired.Unix(), resp.SoonestExpiration.Unix())
	assert.Equal(t, model.StatusExpired, resp.ExpiryStatus)
}

func TestExpiryStatusClassification(t *testing.T) {
	cases := []struct {
		name string
		days int
		want string
	}{
		{"two days past", -2, model.StatusExpired},
		{"today", 0, model.StatusSoon},
		{"window edge", model.SoonWindowDays, model.StatusSoon},
		{"past window", model.SoonWindowDays + 1, model.StatusNormal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, items, lots, _ := newInventoryFixture()
			item := seedItem(items, "Cheese", 1, 0)
			seedLot(lots, item.ID, dateFromNow(tc.days))

			resp, err := svc.GetItem(context.Background(), item.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.ExpiryStatus)
		})
	}
}

func TestExpiryStatusAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	orig := time.Local
	time.Local = loc
	defer func() { time.Local = orig }()

	// US spring-forward was March 9, 2025 — that local day is 23 hours long.
	// A 23-hour day must still count as a full calendar day.
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, loc)
	assert.Equal(t, model.StatusExpired,
		model.ExpiryStatusOf(time.Date(2025, 3, 9, 0, 0, 0, 0, loc), now))

	before := time.Date(2025, 3, 5, 9, 0, 0, 0, loc)
	assert.Equal(t, model.StatusNormal,
		model.ExpiryStatusOf(time.Date(2025, 3, 13, 0, 0, 0, 0, loc), before))
	assert.Equal(t, model.StatusSoon,
		model.ExpiryStatusOf(time.Date(2025, 3, 12, 0, 0, 0, 0, loc), before))
}

func TestItemWithoutLotsHasNoUrgency(t *testing.T) {
	svc, items, _, _ := newInventoryFixture()
	item := seedItem(items, "Salt", 1, 0)

	resp, err := svc.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Nil(t, resp.SoonestExpiration)
	assert.Equal(t, model.StatusNormal, resp.ExpiryStatus)
}

func TestLowStockFlag(t *testing.T) {
	svc, items, _, _ := newInventoryFixture()
	low := seedItem(items, "Rice", 3, 5)
	noPar := seedItem(items, "Flour", 0, 0)
	stocked := seedItem(items, "Beans", 5, 5)

	respLow, err := svc.GetItem(context.Background(), low.ID)
	require.NoError(t, err)
	assert.True(t, respLow.LowStock)

	// Par level zero means tracking is off, even at zero quantity
	respNoPar, err := svc.GetItem(context.Background(), noPar.ID)
	require.NoError(t, err)
	assert.False(t, respNoPar.LowStock)

	// At par is not below par
	respStocked, err := svc.GetItem(context.Background(), stocked.ID)
	require.NoError(t, err)
	assert.False(t, respStocked.LowStock)
}

func TestAdjustQuantityRecordsMovement(t *testing.T) {
	svc, items, _, movements := newInventoryFixture()
	item := seedItem(items, "Pasta", 4, 0)

	resp, err := svc.AdjustQuantity(context.Background(), item.ID, dto.AdjustQuantityRequest{
		Delta:  -3,
		Reason: "used for dinner",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Quantity)

	require.Len(t, movements.movements, 1)
	m := movements.movements[0]
	assert.Equal(t, -3, m.Delta)
	assert.Equal(t, 4, m.PreviousQuantity)
	assert.Equal(t, 1, m.NewQuantity)
	assert.Equal(t, "used for dinner", m.Reason)
}

func TestAdjustQuantityUsesRelativeIncrement(t *testing.T) {
	svc, items, _, _ := newInventoryFixture()
	item := seedItem(items, "Pasta", 4, 0)

	_, err := svc.AdjustQuantity(context.Background(), item.ID, dto.AdjustQuantityRequest{Delta: 2})
	require.NoError(t, err)

	// The quantity write is a relative increment at the repository, never a
	// read-modify-write Update of the whole row.
	assert.Equal(t, 1, items.adjustCalls)
	assert.Zero(t, items.updateCalls)

	resp, err := svc.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, resp.Quantity)
}

func TestAdjustQuantityRejectsNegativeResult(t *testing.T) {
	svc, items, _, movements := newInventoryFixture()
	item := seedItem(items, "Pasta", 2, 0)

	_, err := svc.AdjustQuantity(context.Background(), item.ID, dto.AdjustQuantityRequest{Delta: -3})
	assert.Error(t, err)

	// Quantity unchanged, no movement written
	resp, err := svc.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Quantity)
	assert.Empty(t, movements.movements)
}

func TestDeleteItemCascadesLots(t *testing.T) {
	svc, items, lots, _ := newInventoryFixture()
	item := seedItem(items, "Milk", 1, 0)
	seedLot(lots, item.ID, dateFromNow(3))
	seedLot(lots, item.ID, dateFromNow(9))

	other := seedItem(items, "Juice", 1, 0)
	survivor := seedLot(lots, other.ID, dateFromNow(5))

	require.NoError(t, svc.DeleteItem(context.Background(), item.ID))

	assert.Len(t, lots.lots, 1)
	_, ok := lots.lots[survivor.ID]
	assert.True(t, ok)
}

func TestDeleteLotLeavesSiblings(t *testing.T) {
	svc, items, lots, _ := newInventoryFixture()
	item := seedItem(items, "Eggs", 12, 0)
	first := seedLot(lots, item.ID, dateFromNow(2))
	second := seedLot(lots, item.ID, dateFromNow(20))

	require.NoError(t, svc.DeleteLot(context.Background(), first.ID))

	resp, err := svc.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	require.Len(t, resp.Lots, 1)
	assert.Equal(t, second.ID.String(), resp.Lots[0].ID)
}

func TestAddLotTouchesItem(t *testing.T) {
	svc, items, _, _ := newInventoryFixture()
	item := seedItem(items, "Butter", 1, 0)
	before := item.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	_, err := svc.AddLot(context.Background(), item.ID, dto.AddLotRequest{
		ExpirationDate: dateFromNow(30),
	})
	require.NoError(t, err)

	resp, err := svc.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.True(t, resp.UpdatedAt.After(before), "lot mutation must advance the item's updated_at")
}

func TestFilterItems(t *testing.T) {
	brand := strPtr("Acme Foods")
	barcode := strPtr("7891000100103")
	items := []model.Item{
		{Name: "Whole Milk", Brand: brand},
		{Name: "Oat Milk"},
		{Name: "Cereal", Barcode: barcode},
	}

	assert.Len(t, service.FilterItems("", items), 3)
	assert.Len(t, service.FilterItems("milk", items), 2)
	assert.Len(t, service.FilterItems("ACME", items), 1)
	assert.Len(t, service.FilterItems("7891000", items), 1)
	assert.Empty(t, service.FilterItems("anchovies", items))

	// Input order is preserved
	matched := service.FilterItems("milk", items)
	assert.Equal(t, "Whole Milk", matched[0].Name)
	assert.Equal(t, "Oat Milk", matched[1].Name)
}

func TestListItemsLowStockFilter(t *testing.T) {
	svc, items, _, _ := newInventoryFixture()
	seedItem(items, "Rice", 3, 5)
	seedItem(items, "Beans", 9, 5)

	resp, err := svc.ListItems(context.Background(), dto.ItemFilter{LowStock: true})
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "Rice", resp[0].Name)
}

func TestListExpiringWindow(t *testing.T) {
	svc, items, lots, _ := newInventoryFixture()
	item := seedItem(items, "Yogurt", 4, 0)
	seedLot(lots, item.ID, dateFromNow(-1))
	seedLot(lots, item.ID, dateFromNow(3))
	seedLot(lots, item.ID, dateFromNow(30)) // outside window
	seedLot(lots, item.ID, nil)             // undated lots never expire

	resp, err := svc.ListExpiring(context.Background(), model.SoonWindowDays)
	require.NoError(t, err)
	require.Len(t, resp, 2)

	statuses := map[string]int{}
	for _, row := range resp {
		assert.Equal(t, "Yogurt", row.ItemName)
		statuses[row.ExpiryStatus]++
	}
	assert.Equal(t, 1, statuses[model.StatusExpired])
	assert.Equal(t, 1, statuses[model.StatusSoon])
}

func TestLowStockItems(t *testing.T) {
	svc, items, _, _ := newInventoryFixture()
	seedItem(items, "Rice", 1, 4)
	seedItem(items, "Beans", 4, 4)
	seedItem(items, "Salt", 0, 0)

	low, err := svc.LowStockItems(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Rice", low[0].Name)
}
