package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/wms-core/internal/domain"
	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/fifo"
	"github.com/jhoicas/wms-core/internal/domain/quality"
	"github.com/jhoicas/wms-core/internal/domain/repository"
	"github.com/jhoicas/wms-core/internal/domain/warehouse"
)

// CellUseCase expone el espacio de celdas de un almacén: mapa, sugerencia de destinos y
// generación del layout.
type CellUseCase struct {
	txRunner      TxRunner
	cellRepo      repository.CellRepository
	warehouseRepo repository.WarehouseRepository
	log           zerolog.Logger
	rec           Recorder
}

// NewCellUseCase construye el caso de uso.
func NewCellUseCase(
	txRunner TxRunner,
	cellRepo repository.CellRepository,
	warehouseRepo repository.WarehouseRepository,
	log zerolog.Logger,
	rec Recorder,
) *CellUseCase {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &CellUseCase{txRunner: txRunner, cellRepo: cellRepo, warehouseRepo: warehouseRepo, log: log, rec: rec}
}

// RowMap una fila del mapa con sus celdas ordenadas por bahía y posición.
type RowMap struct {
	Row   string
	Class entity.RowClass
	Known bool
	Cells []*entity.Cell
}

func (uc *CellUseCase) requireWarehouse(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if wh == nil {
		return domain.ErrNotFound
	}
	return nil
}

// Map devuelve las filas del almacén en el orden de recorrido (estándar, luego reservadas).
func (uc *CellUseCase) Map(ctx context.Context, warehouseID string) ([]RowMap, error) {
	if err := uc.requireWarehouse(ctx, warehouseID); err != nil {
		return nil, err
	}
	cells, err := uc.cellRepo.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	warehouse.SortCells(cells)

	byRow := make(map[string][]*entity.Cell)
	var rows []string
	for _, c := range cells {
		r := strings.ToUpper(strings.TrimSpace(c.Row))
		if _, ok := byRow[r]; !ok {
			rows = append(rows, r)
		}
		byRow[r] = append(byRow[r], c)
	}

	out := make([]RowMap, 0, len(rows))
	for _, r := range warehouse.SortRows(rows) {
		class, known := warehouse.ClassifyRow(r)
		if !known {
			uc.log.Warn().Str("warehouse_id", warehouseID).Str("row", r).Msg("fila sin clasificar, se asume estándar")
		}
		out = append(out, RowMap{Row: r, Class: class, Known: known, Cells: byRow[r]})
	}
	return out, nil
}

// SuggestDestinations propone celdas de la clase que exige target para ubicar packages bultos.
// APPROVED no cambia de celda y no admite sugerencia.
func (uc *CellUseCase) SuggestDestinations(ctx context.Context, warehouseID string, target entity.QualityStatus, packages int) (fifo.DestinationPlan, error) {
	class, needsCell := quality.RequiredRowClass(target)
	if !needsCell || packages <= 0 {
		return fifo.DestinationPlan{}, domain.ErrInvalidInput
	}
	if err := uc.requireWarehouse(ctx, warehouseID); err != nil {
		return fifo.DestinationPlan{}, err
	}
	cells, err := uc.cellRepo.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return fifo.DestinationPlan{}, err
	}
	matching := make([]*entity.Cell, 0, len(cells))
	for _, c := range cells {
		if got, _ := warehouse.ClassifyRow(c.Row); got == class {
			matching = append(matching, c)
		}
	}
	plan := fifo.PlanDestinations(matching, packages)
	if plan.Shortfall > 0 {
		uc.log.Warn().
			Str("warehouse_id", warehouseID).
			Str("class", string(class)).
			Int("shortfall", plan.Shortfall).
			Msg("espacio insuficiente en filas destino")
	}
	return plan, nil
}

// CreateWarehouse registra un almacén vacío; el layout se genera después con CreateLayout.
func (uc *CellUseCase) CreateWarehouse(ctx context.Context, companyID, name, address string) (*entity.Warehouse, error) {
	w, err := entity.NewWarehouse(uuid.New().String(), companyID, name, address, time.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.warehouseRepo.Create(ctx, w); err != nil {
		return nil, err
	}
	uc.log.Info().Str("warehouse_id", w.ID).Str("name", w.Name).Msg("almacén registrado")
	return w, nil
}

// LayoutInput genera una celda por cada fila × bahía × posición.
type LayoutInput struct {
	WarehouseID string
	Rows        []string
	Bays        int
	Positions   int
	Capacity    int // en bultos; 0 = sin límite
}

// CreateLayout crea las celdas del almacén. Falla si alguna dirección ya existe.
func (uc *CellUseCase) CreateLayout(ctx context.Context, in LayoutInput) (cells []*entity.Cell, err error) {
	defer observe(ctx, uc.rec, OpCreateLayout, time.Now(), &err)

	if len(in.Rows) == 0 || in.Bays <= 0 || in.Positions <= 0 || in.Capacity < 0 {
		return nil, domain.ErrInvalidInput
	}
	rows := make([]string, 0, len(in.Rows))
	seen := make(map[string]struct{}, len(in.Rows))
	for _, r := range in.Rows {
		r = strings.ToUpper(strings.TrimSpace(r))
		if r == "" {
			return nil, domain.ErrInvalidInput
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		rows = append(rows, r)
	}
	if err := uc.requireWarehouse(ctx, in.WarehouseID); err != nil {
		return nil, err
	}

	now := time.Now()
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		cells = cells[:0]
		existing, err := repos.Cells.ListByWarehouse(ctx, in.WarehouseID)
		if err != nil {
			return err
		}
		taken := make(map[string]struct{}, len(existing))
		for _, c := range existing {
			taken[warehouse.Reference(c)] = struct{}{}
		}
		for _, r := range warehouse.SortRows(rows) {
			if _, known := warehouse.ClassifyRow(r); !known {
				uc.log.Warn().Str("row", r).Msg("fila sin clasificar, se asume estándar")
			}
			for bay := 1; bay <= in.Bays; bay++ {
				for pos := 1; pos <= in.Positions; pos++ {
					c := warehouse.NewCell(uuid.New().String(), in.WarehouseID, r, bay, pos, in.Capacity)
					ref := warehouse.Reference(c)
					if _, dup := taken[ref]; dup {
						return domain.NewAllocationError(domain.ErrInvalidInput, "", "la celda "+ref+" ya existe")
					}
					c.CreatedAt, c.UpdatedAt = now, now
					if err := repos.Cells.Create(ctx, c); err != nil {
						return err
					}
					cells = append(cells, c)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("warehouse_id", in.WarehouseID).Int("cells", len(cells)).Msg("layout creado")
	return cells, nil
}
