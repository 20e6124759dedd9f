package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-core/internal/application/inventory"
	"github.com/jhoicas/wms-core/internal/domain"
	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/repository"
	"github.com/jhoicas/wms-core/internal/domain/warehouse"
	"github.com/jhoicas/wms-core/internal/infrastructure/sqlite"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now()
	require.NoError(t, sqlite.NewWarehouseRepository(db).Create(context.Background(), &entity.Warehouse{
		ID: "w1", Name: "Central", CreatedAt: now, UpdatedAt: now,
	}))
	return db
}

func createCell(t *testing.T, db *sqlx.DB, id, row string, bay, pos, capacity int) {
	t.Helper()
	c := warehouse.NewCell(id, "w1", row, bay, pos, capacity)
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	require.NoError(t, sqlite.NewCellRepository(db).Create(context.Background(), c))
}

// ─────────────────────────────────────────────────────────────────────────────
// Repositorios
// ─────────────────────────────────────────────────────────────────────────────

func TestCellRepo_RoundTripYDuplicado(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	createCell(t, db, "c1", "P", 2, 3, 0)

	repo := sqlite.NewCellRepository(db)
	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsPassage)
	assert.Equal(t, entity.RowClassPassage, got.Role)
	assert.Equal(t, "P.02.03", warehouse.Reference(got))

	dup := warehouse.NewCell("c2", "w1", "P", 2, 3, 0)
	err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing, err := repo.GetByID(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAllocationRepo_VersionOptimista(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	createCell(t, db, "c1", "A", 1, 1, 0)
	exp := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, sqlite.NewLotRepository(db).Create(ctx, &entity.Lot{
		ID: "l1", EntryOrderID: "eo", EntryOrderNo: "OI-1", ProductID: "p1", WarehouseID: "w1",
		LotSeries: "S1", ExpirationDate: &exp, ReceivedQuantity: d(10), ReceivedAt: time.Now(),
	}))

	repo := sqlite.NewAllocationRepository(db)
	a := &entity.InventoryAllocation{
		ID: "a1", LotID: "l1", ProductID: "p1", WarehouseID: "w1", EntryOrderID: "eo", LotSeries: "S1",
		CellID: "c1", CellRef: "A.01.01", Quantity: decimal.RequireFromString("10.5"), Weight: d(5),
		PackageQuantity: 1, Volume: d(0), QualityStatus: entity.QualityApproved, AllocatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, a))
	assert.Equal(t, int64(1), a.Version)

	stale := *a
	a.Quantity = d(4)
	require.NoError(t, repo.Update(ctx, a))
	assert.Equal(t, int64(2), a.Version)

	stale.Quantity = d(1)
	err := repo.Update(ctx, &stale)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	got, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(d(4)))
	assert.Equal(t, int64(2), got.Version)
}

func TestAllocationRepo_CandidatosFIFO(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	createCell(t, db, "c1", "A", 1, 1, 0)
	lots := sqlite.NewLotRepository(db)
	allocs := sqlite.NewAllocationRepository(db)

	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	for i, l := range []struct {
		id  string
		exp *time.Time
		qty int64
	}{{"sin-vto", nil, 5}, {"feb", &feb, 5}, {"ene", &jan, 5}, {"vacio", &jan, 0}} {
		require.NoError(t, lots.Create(ctx, &entity.Lot{
			ID: l.id, EntryOrderID: "eo", EntryOrderNo: "OI-" + l.id, ProductID: "p1", WarehouseID: "w1",
			LotSeries: l.id, ExpirationDate: l.exp, ReceivedQuantity: d(5), ReceivedAt: base,
		}))
		require.NoError(t, allocs.Create(ctx, &entity.InventoryAllocation{
			ID: "a-" + l.id, LotID: l.id, ProductID: "p1", WarehouseID: "w1", EntryOrderID: "eo", LotSeries: l.id,
			CellID: "c1", CellRef: "A.01.01", Quantity: d(l.qty), Weight: d(l.qty), PackageQuantity: 1,
			QualityStatus: entity.QualityApproved, AllocatedAt: base.Add(time.Duration(i) * time.Hour), UpdatedAt: base,
		}))
	}

	list, err := allocs.ListFIFOCandidates(ctx, "p1", "w1", entity.QualityApproved)
	require.NoError(t, err)
	require.Len(t, list, 3, "cantidad cero no es candidata")
	assert.Equal(t, "a-ene", list[0].AllocationID)
	assert.Equal(t, "a-feb", list[1].AllocationID)
	assert.Equal(t, "a-sin-vto", list[2].AllocationID)
	assert.Nil(t, list[2].ExpirationDate)
	require.NotNil(t, list[0].ExpirationDate)
	assert.True(t, list[0].ExpirationDate.Equal(jan))

	none, err := allocs.ListFIFOCandidates(ctx, "p1", "w1", entity.QualityQuarantine)
	require.NoError(t, err)
	assert.Empty(t, none)
}

// ─────────────────────────────────────────────────────────────────────────────
// Casos de uso sobre SQLite
// ─────────────────────────────────────────────────────────────────────────────

func TestFlujoCompleto_RecepcionCalidadDespacho(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	log := zerolog.Nop()
	tx := sqlite.NewTxRunner(db)
	wh := sqlite.NewWarehouseRepository(db)
	repos := sqlite.NewRepos(db)

	cells := inventory.NewCellUseCase(tx, repos.Cells, wh, log, nil)
	receipt := inventory.NewReceiptUseCase(tx, wh, log, nil)
	qualityUC := inventory.NewQualityUseCase(tx, repos.Audits, log, nil)
	dispatch := inventory.NewDispatchUseCase(tx, repos.Allocations, wh, log, nil)
	balance := inventory.NewLotBalanceUseCase(repos.Lots, repos.Allocations, repos.Movements)

	created, err := cells.CreateLayout(ctx, inventory.LayoutInput{WarehouseID: "w1", Rows: []string{"A", "X"}, Bays: 1, Positions: 2})
	require.NoError(t, err)
	require.Len(t, created, 4)
	byRef := map[string]string{}
	for _, c := range created {
		byRef[warehouse.Reference(c)] = c.ID
	}

	exp := time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)
	r, err := receipt.Receive(ctx, inventory.ReceiptInput{
		WarehouseID: "w1", ProductID: "p1", EntryOrderNo: "OI-9", LotSeries: "L9", ExpirationDate: &exp, Actor: "u1",
		Placements: []inventory.Placement{{CellID: byRef["A.01.01"], Quantity: d(100), Weight: d(50), Packages: 10, Volume: d(5)}},
	})
	require.NoError(t, err)
	allocID := r.Allocations[0].ID

	res, err := qualityUC.ExecuteTransition(ctx, inventory.TransitionInput{
		AllocationID: allocID, Target: entity.QualityRejected, Quantity: d(40), Weight: d(20), Packages: 4, Volume: d(2),
		DestinationCellID: byRef["X.01.01"], Reason: "golpe", Actor: "u2",
	})
	require.NoError(t, err)
	assert.False(t, res.Full)

	_, err = qualityUC.ExecuteTransition(ctx, inventory.TransitionInput{
		AllocationID: allocID, Target: entity.QualityApproved, Quantity: d(60), Weight: d(30), Packages: 6, Volume: d(3), Actor: "u2",
	})
	require.NoError(t, err)

	hist, err := qualityUC.History(ctx, allocID, "")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, entity.QualityApproved, hist[0].ToStatus)
	assert.Equal(t, "w1", hist[0].WarehouseID)

	plan, err := dispatch.Plan(ctx, "p1", "w1", d(25))
	require.NoError(t, err)
	require.Len(t, plan.Lines, 1)
	l := plan.Lines[0]
	assert.Equal(t, "A.01.01", l.CellRef)

	out, err := dispatch.Commit(ctx, inventory.CommitInput{Actor: "u3", Reference: "GR-9", Selections: []entity.DispatchSelection{{
		InventoryID: l.AllocationID, SelectedQuantity: l.AllocatedQuantity, SelectedWeight: l.SuggestedWeight,
		SelectedPackages: l.SuggestedPackages, ExpectedVersion: l.Version,
	}}})
	require.NoError(t, err)
	assert.True(t, out.Total.Equal(d(25)))

	// el plan ya consumido quedó con versión vieja
	_, err = dispatch.Commit(ctx, inventory.CommitInput{Actor: "u3", Selections: []entity.DispatchSelection{{
		InventoryID: l.AllocationID, SelectedQuantity: d(1), ExpectedVersion: l.Version,
	}}})
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	bal, err := balance.Balance(ctx, r.Lot.ID, "")
	require.NoError(t, err)
	assert.True(t, bal.Received.Equal(d(100)))
	assert.True(t, bal.Dispatched.Equal(d(25)))
	assert.True(t, bal.Live.Equal(d(75)))
	assert.True(t, bal.Balanced)

	rows, err := cells.Map(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].Row)
	assert.Equal(t, "X", rows[1].Row)
}

func TestTxRunner_RollbackAnteError(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	tx := sqlite.NewTxRunner(db)

	err := tx.Run(ctx, func(r repository.Repos) error {
		c := warehouse.NewCell("c1", "w1", "A", 1, 1, 0)
		c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
		if err := r.Cells.Create(ctx, c); err != nil {
			return err
		}
		return domain.ErrInvalidInput
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := sqlite.NewCellRepository(db).GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepo_EmailUnico(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	repo := sqlite.NewUserRepository(db)
	now := time.Now()

	u := &entity.User{ID: "u1", WarehouseID: "w1", Email: "op@wms.local", PasswordHash: "h", Name: "Op",
		Role: entity.RoleBodeguero, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByEmail(ctx, "op@wms.local")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "w1", got.WarehouseID)
	assert.Equal(t, entity.RoleBodeguero, got.Role)

	dup := *u
	dup.ID = "u2"
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrEmailAlreadyExists)

	missing, err := repo.GetByEmail(ctx, "nadie@wms.local")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
