package inventory_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-predictor/internal/application/ports"
	"github.com/jhoicas/inventory-predictor/internal/domain"
	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
	"github.com/jhoicas/inventory-predictor/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// memStore: persistencia en memoria con transacciones serializadas y rollback
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	txMu sync.Mutex // serializa transacciones (equivale al bloqueo de fila)
	mu   sync.Mutex // protege los mapas

	items     map[string]entity.InventoryItem
	alerts    map[string]entity.StockAlert
	movements []entity.StockMovement
	sales     []entity.SalesTransaction

	txRuns int
}

func newMemStore() *memStore {
	return &memStore{
		items:  map[string]entity.InventoryItem{},
		alerts: map[string]entity.StockAlert{},
	}
}

func (s *memStore) snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make(map[string]entity.InventoryItem, len(s.items))
	for k, v := range s.items {
		items[k] = v
	}
	alerts := make(map[string]entity.StockAlert, len(s.alerts))
	for k, v := range s.alerts {
		alerts[k] = v
	}
	movs := append([]entity.StockMovement(nil), s.movements...)
	sales := append([]entity.SalesTransaction(nil), s.sales...)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.items, s.alerts, s.movements, s.sales = items, alerts, movs, sales
	}
}

// Run implementa inventory.TxRunner.
func (s *memStore) Run(ctx context.Context, fn func(
	repository.InventoryItemRepository,
	repository.StockAlertRepository,
	repository.StockMovementRepository,
	repository.SalesTransactionRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	s.txRuns++
	s.mu.Unlock()

	rollback := s.snapshot()
	if err := fn(memItems{s}, memAlerts{s}, memMovements{s}, memSales{s}); err != nil {
		rollback()
		return err
	}
	return nil
}

func (s *memStore) put(item entity.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

func (s *memStore) item(id string) entity.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id]
}

func (s *memStore) openAlerts(productID string) []entity.StockAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.StockAlert
	for _, a := range s.alerts {
		if a.ProductID == productID && !a.IsResolved {
			out = append(out, a)
		}
	}
	return out
}

func (s *memStore) runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txRuns
}

// ── items ────────────────────────────────────────────────────────────────────

type memItems struct{ s *memStore }

func (r memItems) Create(_ context.Context, item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range r.s.items {
		if it.ProductCode == item.ProductCode {
			return domain.ErrDuplicate
		}
	}
	r.s.items[item.ID] = *item
	return nil
}

func (r memItems) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r memItems) GetByProductCode(_ context.Context, code string) (*entity.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range r.s.items {
		if it.ProductCode == code {
			it := it
			return &it, nil
		}
	}
	return nil, nil
}

func (r memItems) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r memItems) Update(_ context.Context, item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != item.Version {
		return domain.ErrConflict
	}
	item.Version++
	r.s.items[item.ID] = *item
	return nil
}

func (r memItems) SaveStock(_ context.Context, item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item.Version++
	r.s.items[item.ID] = *item
	return nil
}

func (r memItems) UpdateDaysRemaining(_ context.Context, id string, days decimal.NullDecimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.DaysOfStockRemaining = days
	r.s.items[id] = it
	return nil
}

func (r memItems) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.IsActive = false
	r.s.items[id] = it
	return nil
}

func (r memItems) all(keep func(entity.InventoryItem) bool) []*entity.InventoryItem {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryItem
	for _, it := range r.s.items {
		if keep(it) {
			it := it
			out = append(out, &it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out
}

func (r memItems) List(_ context.Context, f repository.InventoryItemFilter) ([]*entity.InventoryItem, int, error) {
	list := r.all(func(it entity.InventoryItem) bool {
		return (f.IncludeInactive || it.IsActive) &&
			(f.Location == "" || it.Location == f.Location) &&
			(f.Category == "" || it.Category == f.Category) &&
			(f.Status == "" || it.Status == f.Status)
	})
	total := len(list)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return list[f.Offset:end], total, nil
}

func (r memItems) ListLowStock(context.Context) ([]*entity.InventoryItem, error) {
	return r.all(func(it entity.InventoryItem) bool {
		return it.IsActive && it.CurrentStock.LessThanOrEqual(it.MinimumStock)
	}), nil
}

func (r memItems) ListByLocation(_ context.Context, location string) ([]*entity.InventoryItem, error) {
	return r.all(func(it entity.InventoryItem) bool { return it.IsActive && it.Location == location }), nil
}

func (r memItems) ListStockOutCandidates(_ context.Context, location string) ([]*entity.InventoryItem, error) {
	two := decimal.NewFromInt(2)
	return r.all(func(it entity.InventoryItem) bool {
		return it.IsActive && (location == "" || it.Location == location) &&
			it.CurrentStock.LessThanOrEqual(it.MinimumStock.Mul(two))
	}), nil
}

func (r memItems) ListActive(context.Context) ([]*entity.InventoryItem, error) {
	return r.all(func(it entity.InventoryItem) bool { return it.IsActive }), nil
}

// ── alerts ───────────────────────────────────────────────────────────────────

type memAlerts struct{ s *memStore }

func (r memAlerts) GetOpenByProduct(_ context.Context, productID string) (*entity.StockAlert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.alerts {
		if a.ProductID == productID && !a.IsResolved {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (r memAlerts) OpenIfAbsent(_ context.Context, alert *entity.StockAlert) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.alerts {
		if a.ProductID == alert.ProductID && !a.IsResolved {
			return false, nil
		}
	}
	r.s.alerts[alert.ID] = *alert
	return true, nil
}

func (r memAlerts) ResolveOpen(_ context.Context, productID string, at time.Time) (*entity.StockAlert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, a := range r.s.alerts {
		if a.ProductID == productID && !a.IsResolved {
			a.IsResolved = true
			a.ResolvedAt = &at
			r.s.alerts[id] = a
			return &a, nil
		}
	}
	return nil, nil
}

func (r memAlerts) GetByID(_ context.Context, id string) (*entity.StockAlert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.alerts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r memAlerts) List(_ context.Context, f repository.StockAlertFilter) ([]*entity.StockAlert, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockAlert
	for _, a := range r.s.alerts {
		if f.ProductID != "" && a.ProductID != f.ProductID {
			continue
		}
		if f.Resolved != nil && a.IsResolved != *f.Resolved {
			continue
		}
		if f.Severity != "" && a.Severity != f.Severity {
			continue
		}
		a := a
		out = append(out, &a)
	}
	return out, len(out), nil
}

func (r memAlerts) MarkRead(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.alerts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.IsRead = true
	r.s.alerts[id] = a
	return nil
}

// ── movements / sales ────────────────────────────────────────────────────────

type memMovements struct{ s *memStore }

func (r memMovements) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r memMovements) ListByProduct(_ context.Context, productID string, _, _ *time.Time, _, _ int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			m := m
			out = append(out, &m)
		}
	}
	return out, nil
}

type memSales struct{ s *memStore }

func (r memSales) Create(_ context.Context, t *entity.SalesTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sales = append(r.s.sales, *t)
	return nil
}

func (r memSales) List(_ context.Context, f repository.SalesFilter) ([]*entity.SalesTransaction, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SalesTransaction
	for _, t := range r.s.sales {
		if f.ProductID != "" && t.ProductID != f.ProductID {
			continue
		}
		t := t
		out = append(out, &t)
	}
	return out, len(out), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Colaboradores grabadores
// ──────────────────────────────────────────────────────────────────────────────

type recordingNotifier struct {
	mu   sync.Mutex
	sent []ports.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, msg ports.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *recordingNotifier) events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, m := range n.sent {
		out = append(out, m.Event)
	}
	return out
}

type recordingEvents struct {
	mu   sync.Mutex
	sent []ports.Event
	err  error
}

func (e *recordingEvents) record(ev ports.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, ev)
	return e.err
}

func (e *recordingEvents) PublishInventoryEvent(_ context.Context, ev ports.Event) error {
	return e.record(ev)
}
func (e *recordingEvents) PublishSalesEvent(_ context.Context, ev ports.Event) error {
	return e.record(ev)
}
func (e *recordingEvents) PublishAlertEvent(_ context.Context, ev ports.Event) error {
	return e.record(ev)
}

func (e *recordingEvents) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.sent))
	for _, ev := range e.sent {
		out = append(out, ev.Type)
	}
	return out
}

type fakeAnalytics struct {
	avg map[string]decimal.Decimal
	err error
}

func (f fakeAnalytics) AverageDailyDemand(_ context.Context, ids []string, _ time.Duration) (map[string]decimal.Decimal, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]decimal.Decimal{}
	for _, id := range ids {
		if v, ok := f.avg[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (f fakeAnalytics) DailyDemand(context.Context, string, time.Duration) ([]entity.DailyDemand, error) {
	return nil, errors.New("no usado")
}
