package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-core/internal/application/inventory"
	"github.com/jhoicas/wms-core/internal/domain"
	"github.com/jhoicas/wms-core/internal/domain/entity"
)

func cellFixture(t *testing.T) (*memStore, *inventory.CellUseCase) {
	t.Helper()
	s := newStore()
	rec := &mockRecorder{}
	rec.On("Observe", inventory.OpCreateLayout, mock.Anything)
	return s, inventory.NewCellUseCase(&memTx{s: s}, memCells{s}, memWarehouses{s}, nopLog, rec)
}

func TestCreateLayout(t *testing.T) {
	s, uc := cellFixture(t)

	cells, err := uc.CreateLayout(context.Background(), inventory.LayoutInput{
		WarehouseID: "w1", Rows: []string{"x", "A", "P", "a"}, Bays: 2, Positions: 3, Capacity: 8,
	})
	require.NoError(t, err)
	assert.Len(t, cells, 18, "filas repetidas se ignoran")
	assert.Len(t, s.cells, 18)

	byRef := map[string]*entity.Cell{}
	for _, c := range s.cells {
		byRef[c.Row+string(rune('0'+c.Bay))+string(rune('0'+c.Position))] = c
	}
	assert.Equal(t, entity.RowClassRejected, byRef["X11"].Role)
	assert.True(t, byRef["P23"].IsPassage)
	assert.Equal(t, entity.CellStatusAvailable, byRef["A12"].Status)
	assert.Equal(t, 8, byRef["A12"].Capacity)

	_, err = uc.CreateLayout(context.Background(), inventory.LayoutInput{WarehouseID: "w1", Rows: []string{"A"}, Bays: 1, Positions: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la dirección ya existe")
	assert.Len(t, s.cells, 18)
}

func TestCreateLayout_EntradaInvalida(t *testing.T) {
	_, uc := cellFixture(t)
	ctx := context.Background()

	_, err := uc.CreateLayout(ctx, inventory.LayoutInput{WarehouseID: "w1", Bays: 1, Positions: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.CreateLayout(ctx, inventory.LayoutInput{WarehouseID: "w1", Rows: []string{"A"}, Bays: 0, Positions: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.CreateLayout(ctx, inventory.LayoutInput{WarehouseID: "nope", Rows: []string{"A"}, Bays: 1, Positions: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMap_OrdenDeFilas(t *testing.T) {
	s, uc := cellFixture(t)
	s.addCell("p", "P", 1, 1, 0)
	s.addCell("x", "X", 1, 1, 0)
	s.addCell("b2", "B", 1, 2, 0)
	s.addCell("b1", "B", 1, 1, 0)
	s.addCell("r", "R", 1, 1, 0)
	s.addCell("a", "A", 2, 1, 0)
	s.addCell("z", "Z", 1, 1, 0)

	rows, err := uc.Map(context.Background(), "w1")
	require.NoError(t, err)

	var order []string
	for _, r := range rows {
		order = append(order, r.Row)
	}
	assert.Equal(t, []string{"A", "B", "Z", "R", "X", "P"}, order)

	require.Len(t, rows[1].Cells, 2)
	assert.Equal(t, "b1", rows[1].Cells[0].ID)
	assert.False(t, rows[2].Known, "Z no está en la tabla de filas")
	assert.Equal(t, entity.RowClassStandard, rows[2].Class)
}

func TestSuggestDestinations(t *testing.T) {
	s, uc := cellFixture(t)
	s.addCell("x2", "X", 1, 2, 4)
	s.addCell("x1", "X", 1, 1, 3)
	s.addCell("a1", "A", 1, 1, 100)
	s.cells["x1"].CurrentUsage = 1

	plan, err := uc.SuggestDestinations(context.Background(), "w1", entity.QualityRejected, 5)
	require.NoError(t, err)
	require.Len(t, plan.Lines, 2)
	assert.Equal(t, "X.01.01", plan.Lines[0].CellRef)
	assert.Equal(t, 2, plan.Lines[0].Packages)
	assert.Equal(t, "X.01.02", plan.Lines[1].CellRef)
	assert.Equal(t, 3, plan.Lines[1].Packages)
	assert.Zero(t, plan.Shortfall)

	_, err = uc.SuggestDestinations(context.Background(), "w1", entity.QualityApproved, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateWarehouse(t *testing.T) {
	s, uc := cellFixture(t)

	w, err := uc.CreateWarehouse(context.Background(), "c1", "  Frío 2 ", "Av. Industrial 100")
	require.NoError(t, err)
	assert.NotEmpty(t, w.ID)
	assert.Equal(t, "Frío 2", w.Name)
	assert.Contains(t, s.warehouses, w.ID)

	_, err = uc.CreateWarehouse(context.Background(), "c1", " ", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
