package ledger

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/domain/repository"
)

// memStore estado compartido en memoria para los fakes. El mutex vive en el
// TxRunner fake: dentro de una "transacción" el acceso ya está serializado.
type memStore struct {
	mu      sync.Mutex
	levels  map[string]*entity.StockLevel
	entries []*entity.LedgerEntry
	items   map[string]*entity.Item
	nextID  int64
}

func newMemStore() *memStore {
	return &memStore{
		levels: make(map[string]*entity.StockLevel),
		items:  make(map[string]*entity.Item),
	}
}

func (s *memStore) key(businessID, itemID string, scope entity.Scope) string {
	return businessID + "/" + itemID + "/" + scope.String()
}

func (s *memStore) addItem(item *entity.Item) {
	s.items[item.BusinessID+"/"+item.ID] = item
}

func (s *memStore) setLevel(level *entity.StockLevel) {
	cp := *level
	s.levels[s.key(level.BusinessID, level.ItemID, level.Scope)] = &cp
}

func (s *memStore) quantity(businessID, itemID string, scope entity.Scope) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lv, ok := s.levels[s.key(businessID, itemID, scope)]; ok {
		return lv.Quantity
	}
	return decimal.Zero
}

type fakeLedgerRepo struct{ store *memStore }

func (r *fakeLedgerRepo) Create(entry *entity.LedgerEntry) error {
	r.store.nextID++
	entry.ID = r.store.nextID
	cp := *entry
	r.store.entries = append(r.store.entries, &cp)
	return nil
}

func (r *fakeLedgerRepo) GetByID(businessID string, id int64) (*entity.LedgerEntry, error) {
	for _, e := range r.store.entries {
		if e.BusinessID == businessID && e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeStockRepo struct{ store *memStore }

func (r *fakeStockRepo) Get(businessID, itemID string, scope entity.Scope) (*entity.StockLevel, error) {
	if lv, ok := r.store.levels[r.store.key(businessID, itemID, scope)]; ok {
		cp := *lv
		return &cp, nil
	}
	return &entity.StockLevel{BusinessID: businessID, ItemID: itemID, Scope: scope}, nil
}

func (r *fakeStockRepo) GetForUpdate(businessID, itemID string, scope entity.Scope) (*entity.StockLevel, error) {
	k := r.store.key(businessID, itemID, scope)
	if _, ok := r.store.levels[k]; !ok {
		r.store.levels[k] = &entity.StockLevel{BusinessID: businessID, ItemID: itemID, Scope: scope}
	}
	cp := *r.store.levels[k]
	return &cp, nil
}

func (r *fakeStockRepo) Upsert(level *entity.StockLevel) error {
	cp := *level
	r.store.levels[r.store.key(level.BusinessID, level.ItemID, level.Scope)] = &cp
	return nil
}

func (r *fakeStockRepo) UpdateQuantity(businessID, itemID string, scope entity.Scope, quantity decimal.Decimal) error {
	k := r.store.key(businessID, itemID, scope)
	lv, ok := r.store.levels[k]
	if !ok {
		lv = &entity.StockLevel{BusinessID: businessID, ItemID: itemID, Scope: scope}
		r.store.levels[k] = lv
	}
	lv.Quantity = quantity
	return nil
}

func (r *fakeStockRepo) ListBelowMinimum(_ context.Context, businessID, branchID string) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	for _, lv := range r.store.levels {
		if lv.BusinessID != businessID || !lv.BelowMinimum() {
			continue
		}
		if branchID != "" {
			id, ok := lv.Scope.BranchID()
			if !ok || id != branchID {
				continue
			}
		}
		cp := *lv
		out = append(out, &cp)
	}
	return out, nil
}

type fakeItemRepo struct{ store *memStore }

func (r *fakeItemRepo) GetByID(businessID, itemID string) (*entity.Item, error) {
	if item, ok := r.store.items[businessID+"/"+itemID]; ok {
		cp := *item
		return &cp, nil
	}
	return nil, nil
}

// fakeTxRunner serializa las "transacciones" con un mutex: el equivalente en
// memoria del SELECT ... FOR UPDATE sobre la clave.
type fakeTxRunner struct{ store *memStore }

func (t *fakeTxRunner) Run(_ context.Context, fn func(
	ledgerRepo repository.LedgerRepository,
	stockRepo repository.StockLevelRepository,
	itemRepo repository.ItemRepository,
) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return fn(&fakeLedgerRepo{store: t.store}, &fakeStockRepo{store: t.store}, &fakeItemRepo{store: t.store})
}

var (
	_ repository.LedgerRepository     = (*fakeLedgerRepo)(nil)
	_ repository.StockLevelRepository = (*fakeStockRepo)(nil)
	_ repository.ItemRepository       = (*fakeItemRepo)(nil)
	_ TxRunner                        = (*fakeTxRunner)(nil)
)
