package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-core/internal/domain"
	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/fifo"
	"github.com/jhoicas/wms-core/internal/domain/repository"
)

// DispatchUseCase propone despachos en orden FIFO y los confirma de forma transaccional
// con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type DispatchUseCase struct {
	txRunner       TxRunner
	allocationRepo repository.AllocationRepository
	warehouseRepo  repository.WarehouseRepository
	log            zerolog.Logger
	rec            Recorder
}

// NewDispatchUseCase construye el caso de uso.
func NewDispatchUseCase(
	txRunner TxRunner,
	allocationRepo repository.AllocationRepository,
	warehouseRepo repository.WarehouseRepository,
	log zerolog.Logger,
	rec Recorder,
) *DispatchUseCase {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &DispatchUseCase{
		txRunner:       txRunner,
		allocationRepo: allocationRepo,
		warehouseRepo:  warehouseRepo,
		log:            log,
		rec:            rec,
	}
}

// Plan calcula la propuesta FIFO para despachar requested unidades del producto en el almacén.
// Solo lee: no bloquea ni modifica asignaciones.
func (uc *DispatchUseCase) Plan(ctx context.Context, productID, warehouseID string, requested decimal.Decimal) (res fifo.PlanResult, err error) {
	defer observe(ctx, uc.rec, OpPlan, time.Now(), &err)

	if productID == "" || warehouseID == "" {
		return fifo.PlanResult{}, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return fifo.PlanResult{}, err
	}
	if wh == nil {
		return fifo.PlanResult{}, domain.ErrNotFound
	}

	candidates, err := uc.allocationRepo.ListFIFOCandidates(ctx, productID, warehouseID, entity.QualityApproved)
	if err != nil {
		return fifo.PlanResult{}, err
	}
	res = fifo.Plan(candidates, requested)
	if res.PartialFulfillment {
		uc.rec.CountShortfall(ctx, warehouseID)
		uc.log.Warn().
			Str("product_id", productID).
			Str("warehouse_id", warehouseID).
			Str("requested", requested.String()).
			Str("shortfall", res.Shortfall.String()).
			Msg("despacho con faltante")
	}
	return res, nil
}

// ValidateSelection verifica 0 ≤ seleccionado ≤ disponible en cantidad, peso y bultos.
func ValidateSelection(sel entity.DispatchSelection, a *entity.InventoryAllocation) error {
	if sel.SelectedQuantity.IsNegative() || sel.SelectedQuantity.GreaterThan(a.Quantity) {
		return domain.NewAmountError(domain.ErrInvalidSelection, a.ID, "quantity", sel.SelectedQuantity, a.Quantity)
	}
	if sel.SelectedWeight.IsNegative() || sel.SelectedWeight.GreaterThan(a.Weight) {
		return domain.NewAmountError(domain.ErrInvalidSelection, a.ID, "weight", sel.SelectedWeight, a.Weight)
	}
	if sel.SelectedPackages < 0 || sel.SelectedPackages > a.PackageQuantity {
		return domain.NewAmountError(domain.ErrInvalidSelection, a.ID, "packages",
			decimal.NewFromInt(int64(sel.SelectedPackages)), decimal.NewFromInt(int64(a.PackageQuantity)))
	}
	return nil
}

// CommitInput entrada para confirmar un despacho.
type CommitInput struct {
	Selections []entity.DispatchSelection
	Reference  string // guía o pedido de despacho
	Actor      string
	Scope      string // almacén al que está limitado el operador; vacío = todos
}

// CommitLine resultado por asignación afectada.
type CommitLine struct {
	AllocationID string
	CellRef      string
	Quantity     decimal.Decimal
	Weight       decimal.Decimal
	Packages     int
	Depleted     bool // la asignación llegó a cero y se eliminó
}

// CommitResult resumen del despacho confirmado.
type CommitResult struct {
	TransactionID string
	Lines         []CommitLine
	Total         decimal.Decimal
}

// Commit aplica todas las selecciones o ninguna: bloquea los orígenes en orden de id,
// valida las selecciones acumuladas por asignación y solo entonces descuenta, elimina
// las asignaciones agotadas, libera espacio en las celdas y registra los movimientos DISPATCH.
func (uc *DispatchUseCase) Commit(ctx context.Context, in CommitInput) (res *CommitResult, err error) {
	defer observe(ctx, uc.rec, OpCommit, time.Now(), &err)

	if len(in.Selections) == 0 || in.Actor == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, s := range in.Selections {
		if s.InventoryID == "" {
			return nil, domain.ErrInvalidInput
		}
	}

	ids := make([]string, 0, len(in.Selections))
	seen := make(map[string]struct{}, len(in.Selections))
	for _, s := range in.Selections {
		if _, ok := seen[s.InventoryID]; !ok {
			seen[s.InventoryID] = struct{}{}
			ids = append(ids, s.InventoryID)
		}
	}
	sort.Strings(ids)

	now := time.Now()
	txID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		res = &CommitResult{TransactionID: txID, Total: decimal.Zero}

		sources := make(map[string]*entity.InventoryAllocation, len(ids))
		for _, id := range ids {
			a, err := repos.Allocations.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if a == nil {
				return domain.NewAllocationError(domain.ErrConcurrentModification, id, "la asignación ya no existe")
			}
			if err := checkScope(a, in.Scope); err != nil {
				return err
			}
			// solo lo aprobado es despachable: otro estado no tiene disponible
			if a.QualityStatus != entity.QualityApproved {
				return &domain.AllocationError{
					Kind:         domain.ErrInvalidSelection,
					AllocationID: a.ID,
					Field:        "quality_status",
					Requested:    string(entity.QualityApproved),
					Available:    string(a.QualityStatus),
				}
			}
			sources[id] = a
		}

		// validación acumulada: dos selecciones sobre la misma asignación comparten su disponible
		working := make(map[string]*entity.InventoryAllocation, len(sources))
		for id, a := range sources {
			cp := *a
			working[id] = &cp
		}
		taken := make(map[string]entity.Measures, len(ids))
		for _, s := range in.Selections {
			a := sources[s.InventoryID]
			if s.ExpectedVersion != 0 && s.ExpectedVersion != a.Version {
				return &domain.AllocationError{
					Kind:         domain.ErrConcurrentModification,
					AllocationID: a.ID,
					Field:        "version",
					Requested:    decimal.NewFromInt(s.ExpectedVersion).String(),
					Available:    decimal.NewFromInt(a.Version).String(),
				}
			}
			w := working[s.InventoryID]
			if err := ValidateSelection(s, w); err != nil {
				return err
			}
			m := entity.Measures{Quantity: s.SelectedQuantity, Weight: s.SelectedWeight, Packages: s.SelectedPackages, Volume: decimal.Zero}
			w.SetMeasures(w.Measures().Sub(m))
			t := taken[s.InventoryID]
			taken[s.InventoryID] = entity.Measures{
				Quantity: t.Quantity.Add(m.Quantity),
				Weight:   t.Weight.Add(m.Weight),
				Packages: t.Packages + m.Packages,
				Volume:   decimal.Zero,
			}
		}

		freed := make(map[string]int)
		for _, id := range ids {
			t := taken[id]
			if t.Quantity.IsZero() && t.Weight.IsZero() && t.Packages == 0 {
				continue
			}
			a := sources[id]
			w := working[id]
			// el volumen se descuenta en proporción a la cantidad retirada
			if w.Quantity.IsZero() {
				w.Volume = decimal.Zero
			} else if a.Quantity.IsPositive() {
				w.Volume = a.Volume.Mul(w.Quantity).Div(a.Quantity).Round(3)
			}
			a.SetMeasures(w.Measures())
			a.UpdatedAt = now

			line := CommitLine{
				AllocationID: a.ID,
				CellRef:      a.CellRef,
				Quantity:     t.Quantity,
				Weight:       t.Weight,
				Packages:     t.Packages,
				Depleted:     a.IsDepleted(),
			}
			if line.Depleted {
				if err := repos.Allocations.Delete(ctx, a.ID); err != nil {
					return err
				}
			} else if err := repos.Allocations.Update(ctx, a); err != nil {
				return err
			}
			freed[a.CellID] += t.Packages

			mov := &entity.Movement{
				ID:            uuid.New().String(),
				TransactionID: txID,
				LotID:         a.LotID,
				AllocationID:  a.ID,
				ProductID:     a.ProductID,
				WarehouseID:   a.WarehouseID,
				CellID:        a.CellID,
				Type:          entity.MovementTypeDispatch,
				Quantity:      t.Quantity.Neg(),
				Weight:        t.Weight.Neg(),
				Packages:      -t.Packages,
				Reference:     in.Reference,
				Date:          now,
				CreatedBy:     in.Actor,
			}
			if err := repos.Movements.Create(ctx, mov); err != nil {
				return err
			}
			res.Lines = append(res.Lines, line)
			res.Total = res.Total.Add(t.Quantity)
		}

		return releaseCells(ctx, repos.Cells, freed, now)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("transaction_id", txID).
		Str("reference", in.Reference).
		Str("total", res.Total.String()).
		Int("lines", len(res.Lines)).
		Msg("despacho confirmado")
	return res, nil
}

// checkScope rechaza asignaciones de un almacén distinto al del operador.
func checkScope(a *entity.InventoryAllocation, scope string) error {
	if scope != "" && a.WarehouseID != scope {
		return domain.NewAllocationError(domain.ErrForbidden, a.ID, "la asignación pertenece a otro almacén")
	}
	return nil
}

// releaseCells descuenta bultos de cada celda (en orden de id) sin bajar de cero.
// El estado de la celda no se revierte automáticamente.
func releaseCells(ctx context.Context, cells repository.CellRepository, freed map[string]int, now time.Time) error {
	ids := make([]string, 0, len(freed))
	for id, pkgs := range freed {
		if id != "" && pkgs > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		cell, err := cells.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if cell == nil {
			continue
		}
		cell.CurrentUsage -= freed[id]
		if cell.CurrentUsage < 0 {
			cell.CurrentUsage = 0
		}
		cell.UpdatedAt = now
		if err := cells.UpdateOccupancy(ctx, cell); err != nil {
			return err
		}
	}
	return nil
}
