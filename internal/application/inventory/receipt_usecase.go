package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-core/internal/domain"
	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/repository"
	"github.com/jhoicas/wms-core/internal/domain/warehouse"
)

// ReceiptUseCase registra el ingreso de un lote: crea el lote y una asignación en
// cuarentena por cada celda donde se ubica la mercadería.
type ReceiptUseCase struct {
	txRunner      TxRunner
	warehouseRepo repository.WarehouseRepository
	log           zerolog.Logger
	rec           Recorder
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(txRunner TxRunner, warehouseRepo repository.WarehouseRepository, log zerolog.Logger, rec Recorder) *ReceiptUseCase {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &ReceiptUseCase{txRunner: txRunner, warehouseRepo: warehouseRepo, log: log, rec: rec}
}

// Placement cantidad ubicada en una celda al recibir.
type Placement struct {
	CellID   string
	Quantity decimal.Decimal
	Weight   decimal.Decimal
	Packages int
	Volume   decimal.Decimal
}

// ReceiptInput entrada para registrar un ingreso.
type ReceiptInput struct {
	WarehouseID    string
	ProductID      string
	EntryOrderID   string // opcional; se genera si viene vacío
	EntryOrderNo   string
	Supplier       string
	LotSeries      string
	ExpirationDate *time.Time
	Placements     []Placement
	Actor          string
}

// ReceiptResult lote creado y sus asignaciones iniciales.
type ReceiptResult struct {
	Lot         *entity.Lot
	Allocations []*entity.InventoryAllocation
}

func (in ReceiptInput) validate() error {
	if in.WarehouseID == "" || in.ProductID == "" || in.EntryOrderNo == "" || in.LotSeries == "" || in.Actor == "" {
		return domain.ErrInvalidInput
	}
	if len(in.Placements) == 0 {
		return domain.ErrInvalidInput
	}
	seen := make(map[string]struct{}, len(in.Placements))
	for _, p := range in.Placements {
		if p.CellID == "" || !p.Quantity.IsPositive() {
			return domain.ErrInvalidInput
		}
		if p.Weight.IsNegative() || p.Volume.IsNegative() || p.Packages < 0 {
			return domain.ErrInvalidInput
		}
		if _, dup := seen[p.CellID]; dup {
			return domain.ErrInvalidInput
		}
		seen[p.CellID] = struct{}{}
	}
	return nil
}

// Receive valida la entrada, bloquea cada celda destino y crea lote, asignaciones en
// QUARANTINE y movimientos RECEIPT en una sola transacción.
func (uc *ReceiptUseCase) Receive(ctx context.Context, in ReceiptInput) (res *ReceiptResult, err error) {
	defer observe(ctx, uc.rec, OpReceive, time.Now(), &err)

	if err := in.validate(); err != nil {
		return nil, err
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	txID := uuid.New().String()
	entryOrderID := in.EntryOrderID
	if entryOrderID == "" {
		entryOrderID = uuid.New().String()
	}

	received := decimal.Zero
	for _, p := range in.Placements {
		received = received.Add(p.Quantity)
	}
	lot := &entity.Lot{
		ID:               uuid.New().String(),
		EntryOrderID:     entryOrderID,
		EntryOrderNo:     in.EntryOrderNo,
		Supplier:         in.Supplier,
		ProductID:        in.ProductID,
		WarehouseID:      in.WarehouseID,
		LotSeries:        in.LotSeries,
		ExpirationDate:   in.ExpirationDate,
		ReceivedQuantity: received,
		ReceivedAt:       now,
		ReceivedBy:       in.Actor,
	}

	var allocations []*entity.InventoryAllocation
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		allocations = allocations[:0]
		if err := repos.Lots.Create(ctx, lot); err != nil {
			return err
		}
		for _, p := range in.Placements {
			cell, err := repos.Cells.GetForUpdate(ctx, p.CellID)
			if err != nil {
				return err
			}
			if err := uc.checkReceivingCell(cell, in.WarehouseID, p); err != nil {
				return err
			}

			a := &entity.InventoryAllocation{
				ID:              uuid.New().String(),
				LotID:           lot.ID,
				ProductID:       in.ProductID,
				WarehouseID:     in.WarehouseID,
				EntryOrderID:    entryOrderID,
				LotSeries:       in.LotSeries,
				CellID:          cell.ID,
				CellRef:         warehouse.Reference(cell),
				Quantity:        p.Quantity,
				PackageQuantity: p.Packages,
				Weight:          p.Weight,
				Volume:          p.Volume,
				QualityStatus:   entity.QualityQuarantine,
				AllocatedAt:     now,
				AllocatedBy:     in.Actor,
				Version:         1,
				UpdatedAt:       now,
			}
			if err := repos.Allocations.Create(ctx, a); err != nil {
				return err
			}

			cell.CurrentUsage += p.Packages
			cell.Status = entity.CellStatusOccupied
			cell.UpdatedAt = now
			if err := repos.Cells.UpdateOccupancy(ctx, cell); err != nil {
				return err
			}

			mov := &entity.Movement{
				ID:            uuid.New().String(),
				TransactionID: txID,
				LotID:         lot.ID,
				AllocationID:  a.ID,
				ProductID:     in.ProductID,
				WarehouseID:   in.WarehouseID,
				CellID:        cell.ID,
				Type:          entity.MovementTypeReceipt,
				Quantity:      p.Quantity,
				Weight:        p.Weight,
				Packages:      p.Packages,
				Reference:     in.EntryOrderNo,
				Date:          now,
				CreatedBy:     in.Actor,
			}
			if err := repos.Movements.Create(ctx, mov); err != nil {
				return err
			}
			allocations = append(allocations, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("lot_id", lot.ID).
		Str("entry_order_no", lot.EntryOrderNo).
		Str("received", received.String()).
		Int("allocations", len(allocations)).
		Msg("ingreso registrado en cuarentena")
	return &ReceiptResult{Lot: lot, Allocations: allocations}, nil
}

// checkReceivingCell: la celda debe existir, ser del almacén, estar disponible, ser de una fila
// estándar y tener espacio para los bultos.
func (uc *ReceiptUseCase) checkReceivingCell(cell *entity.Cell, warehouseID string, p Placement) error {
	if cell == nil {
		return domain.NewAllocationError(domain.ErrInvalidDestination, "", "celda "+p.CellID+" no existe")
	}
	ref := warehouse.Reference(cell)
	if cell.WarehouseID != warehouseID || !warehouse.IsSelectable(cell) {
		return domain.NewAllocationError(domain.ErrInvalidDestination, "", "celda "+ref+" no disponible")
	}
	class, known := warehouse.ClassifyRow(cell.Row)
	if !known {
		uc.log.Warn().Str("row", cell.Row).Str("cell", ref).Msg("fila sin clasificar, se asume estándar")
	}
	if class != entity.RowClassStandard {
		return domain.NewAllocationError(domain.ErrInvalidDestination, "", "celda "+ref+" es "+string(class))
	}
	if !warehouse.HasRoom(cell, p.Packages) {
		return domain.NewAllocationError(domain.ErrInvalidDestination, "", "celda "+ref+" sin capacidad")
	}
	return nil
}
