package inventory_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/wms-core/internal/domain"
	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/repository"
	"github.com/jhoicas/wms-core/internal/domain/warehouse"
)

// ─────────────────────────────────────────────────────────────────────────────
// Almacenamiento en memoria con transacciones por copia
// ─────────────────────────────────────────────────────────────────────────────

var errBoom = errors.New("falla simulada")

type memStore struct {
	mu         sync.Mutex
	warehouses map[string]*entity.Warehouse
	cells      map[string]*entity.Cell
	allocs     map[string]*entity.InventoryAllocation
	lots       map[string]*entity.Lot
	movements  []*entity.Movement
	audits     []*entity.QualityTransition

	// failMovementAfter > 0 hace fallar el n-ésimo Create de movimientos.
	failMovementAfter int
	movementCreates   int
}

func newStore() *memStore {
	s := &memStore{
		warehouses: map[string]*entity.Warehouse{},
		cells:      map[string]*entity.Cell{},
		allocs:     map[string]*entity.InventoryAllocation{},
		lots:       map[string]*entity.Lot{},
	}
	s.warehouses["w1"] = &entity.Warehouse{ID: "w1", Name: "Central"}
	return s
}

func (s *memStore) clone() *memStore {
	c := &memStore{
		warehouses:        s.warehouses,
		cells:             make(map[string]*entity.Cell, len(s.cells)),
		allocs:            make(map[string]*entity.InventoryAllocation, len(s.allocs)),
		lots:              make(map[string]*entity.Lot, len(s.lots)),
		movements:         append([]*entity.Movement(nil), s.movements...),
		audits:            append([]*entity.QualityTransition(nil), s.audits...),
		failMovementAfter: s.failMovementAfter,
		movementCreates:   s.movementCreates,
	}
	for k, v := range s.cells {
		cp := *v
		c.cells[k] = &cp
	}
	for k, v := range s.allocs {
		cp := *v
		c.allocs[k] = &cp
	}
	for k, v := range s.lots {
		cp := *v
		c.lots[k] = &cp
	}
	return c
}

func (s *memStore) repos() repository.Repos {
	return repository.Repos{
		Cells:       memCells{s},
		Allocations: memAllocs{s},
		Lots:        memLots{s},
		Movements:   memMovements{s},
		Audits:      memAudits{s},
	}
}

// memTx ejecuta fn sobre una copia y solo la publica si fn no falla.
type memTx struct {
	s    *memStore
	runs int
}

func (t *memTx) Run(ctx context.Context, fn func(repository.Repos) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.runs++
	snap := t.s.clone()
	if err := fn(snap.repos()); err != nil {
		return err
	}
	t.s.cells, t.s.allocs, t.s.lots = snap.cells, snap.allocs, snap.lots
	t.s.movements, t.s.audits = snap.movements, snap.audits
	t.s.movementCreates = snap.movementCreates
	return nil
}

func (s *memStore) addCell(id, row string, bay, pos, capacity int) *entity.Cell {
	c := warehouse.NewCell(id, "w1", row, bay, pos, capacity)
	s.cells[id] = c
	return c
}

func (s *memStore) addLot(id string, exp *time.Time, received int64) *entity.Lot {
	l := &entity.Lot{
		ID: id, EntryOrderID: "eo-" + id, EntryOrderNo: "OI-" + id, ProductID: "p1", WarehouseID: "w1",
		LotSeries: "S-" + id, ExpirationDate: exp, ReceivedQuantity: decimal.NewFromInt(received),
	}
	s.lots[id] = l
	return l
}

func (s *memStore) addAlloc(id, lotID, cellID string, status entity.QualityStatus, qty, weight int64, pkgs int, vol int64) *entity.InventoryAllocation {
	cell := s.cells[cellID]
	a := &entity.InventoryAllocation{
		ID: id, LotID: lotID, ProductID: "p1", WarehouseID: "w1", LotSeries: "S-" + lotID,
		CellID: cellID, CellRef: warehouse.Reference(cell),
		Quantity: decimal.NewFromInt(qty), Weight: decimal.NewFromInt(weight), PackageQuantity: pkgs, Volume: decimal.NewFromInt(vol),
		QualityStatus: status, Version: 1,
		AllocatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	s.allocs[id] = a
	cell.CurrentUsage += pkgs
	cell.Status = entity.CellStatusOccupied
	return a
}

type memWarehouses struct{ s *memStore }

func (r memWarehouses) Create(_ context.Context, w *entity.Warehouse) error {
	cp := *w
	r.s.warehouses[w.ID] = &cp
	return nil
}

func (r memWarehouses) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	return w, nil
}

type memCells struct{ s *memStore }

func (r memCells) Create(_ context.Context, c *entity.Cell) error {
	cp := *c
	r.s.cells[c.ID] = &cp
	return nil
}

func (r memCells) GetByID(_ context.Context, id string) (*entity.Cell, error) {
	c, ok := r.s.cells[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r memCells) GetForUpdate(ctx context.Context, id string) (*entity.Cell, error) {
	return r.GetByID(ctx, id)
}

func (r memCells) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.Cell, error) {
	var out []*entity.Cell
	for _, c := range r.s.cells {
		if c.WarehouseID == warehouseID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memCells) UpdateOccupancy(_ context.Context, c *entity.Cell) error {
	stored, ok := r.s.cells[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.CurrentUsage, stored.Status, stored.UpdatedAt = c.CurrentUsage, c.Status, c.UpdatedAt
	return nil
}

type memAllocs struct{ s *memStore }

func (r memAllocs) Create(_ context.Context, a *entity.InventoryAllocation) error {
	cp := *a
	r.s.allocs[a.ID] = &cp
	return nil
}

func (r memAllocs) GetByID(_ context.Context, id string) (*entity.InventoryAllocation, error) {
	a, ok := r.s.allocs[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r memAllocs) GetForUpdate(ctx context.Context, id string) (*entity.InventoryAllocation, error) {
	return r.GetByID(ctx, id)
}

func (r memAllocs) Update(_ context.Context, a *entity.InventoryAllocation) error {
	stored, ok := r.s.allocs[a.ID]
	if !ok || stored.Version != a.Version {
		return domain.ErrConcurrentModification
	}
	a.Version++
	cp := *a
	r.s.allocs[a.ID] = &cp
	return nil
}

func (r memAllocs) Delete(_ context.Context, id string) error {
	delete(r.s.allocs, id)
	return nil
}

func (r memAllocs) ListByLot(_ context.Context, lotID string) ([]*entity.InventoryAllocation, error) {
	var out []*entity.InventoryAllocation
	for _, a := range r.s.allocs {
		if a.LotID == lotID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memAllocs) ListFIFOCandidates(_ context.Context, productID, warehouseID string, status entity.QualityStatus) ([]entity.FIFOCandidate, error) {
	var out []entity.FIFOCandidate
	for _, a := range r.s.allocs {
		if a.ProductID != productID || a.WarehouseID != warehouseID || a.QualityStatus != status || !a.Quantity.IsPositive() {
			continue
		}
		c := entity.FIFOCandidate{
			AllocationID: a.ID, Version: a.Version, CellRef: a.CellRef, LotSeries: a.LotSeries, AllocatedAt: a.AllocatedAt,
			AvailableQuantity: a.Quantity, AvailableWeight: a.Weight, AvailablePackages: a.PackageQuantity,
		}
		if l, ok := r.s.lots[a.LotID]; ok {
			c.EntryOrderNo, c.Supplier, c.ExpirationDate = l.EntryOrderNo, l.Supplier, l.ExpirationDate
		}
		out = append(out, c)
	}
	return out, nil
}

type memLots struct{ s *memStore }

func (r memLots) Create(_ context.Context, l *entity.Lot) error {
	cp := *l
	r.s.lots[l.ID] = &cp
	return nil
}

func (r memLots) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	l, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

type memMovements struct{ s *memStore }

func (r memMovements) Create(_ context.Context, m *entity.Movement) error {
	r.s.movementCreates++
	if r.s.failMovementAfter > 0 && r.s.movementCreates >= r.s.failMovementAfter {
		return errBoom
	}
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r memMovements) ListByLot(_ context.Context, lotID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if m.LotID == lotID {
			out = append(out, m)
		}
	}
	return out, nil
}

type memAudits struct{ s *memStore }

func (r memAudits) Create(_ context.Context, rec *entity.QualityTransition) error {
	cp := *rec
	r.s.audits = append(r.s.audits, &cp)
	return nil
}

func (r memAudits) ListByAllocation(_ context.Context, id string) ([]*entity.QualityTransition, error) {
	var out []*entity.QualityTransition
	for i := len(r.s.audits) - 1; i >= 0; i-- {
		a := r.s.audits[i]
		if a.AllocationID == id || a.NewAllocationID == id {
			out = append(out, a)
		}
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Recorder simulado
// ─────────────────────────────────────────────────────────────────────────────

type mockRecorder struct{ mock.Mock }

func (m *mockRecorder) Observe(_ context.Context, operation string, success bool, _ time.Duration) {
	m.Called(operation, success)
}

func (m *mockRecorder) CountShortfall(_ context.Context, warehouseID string) {
	m.Called(warehouseID)
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func day(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

var nopLog = zerolog.Nop()
