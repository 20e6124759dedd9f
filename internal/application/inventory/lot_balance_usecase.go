package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-core/internal/domain"
	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/repository"
)

// LotBalanceUseCase verifica la conservación de un lote: lo vivo en asignaciones más lo
// despachado debe igualar lo recibido.
type LotBalanceUseCase struct {
	lotRepo        repository.LotRepository
	allocationRepo repository.AllocationRepository
	movementRepo   repository.MovementRepository
}

// NewLotBalanceUseCase construye el caso de uso.
func NewLotBalanceUseCase(
	lotRepo repository.LotRepository,
	allocationRepo repository.AllocationRepository,
	movementRepo repository.MovementRepository,
) *LotBalanceUseCase {
	return &LotBalanceUseCase{lotRepo: lotRepo, allocationRepo: allocationRepo, movementRepo: movementRepo}
}

// LotBalance saldo del lote. ByStatus agrupa la cantidad viva por estado de calidad.
type LotBalance struct {
	LotID       string
	LotSeries   string
	Received    decimal.Decimal
	Live        decimal.Decimal
	Dispatched  decimal.Decimal
	Balanced    bool
	Allocations int
	ByStatus    map[entity.QualityStatus]decimal.Decimal
}

// Balance calcula el saldo del lote. Con scope no vacío, un lote de otro almacén es domain.ErrForbidden.
func (uc *LotBalanceUseCase) Balance(ctx context.Context, lotID, scope string) (*LotBalance, error) {
	if lotID == "" {
		return nil, domain.ErrInvalidInput
	}
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	if scope != "" && lot.WarehouseID != scope {
		return nil, domain.ErrForbidden
	}

	allocs, err := uc.allocationRepo.ListByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	movs, err := uc.movementRepo.ListByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}

	b := &LotBalance{
		LotID:       lot.ID,
		LotSeries:   lot.LotSeries,
		Received:    lot.ReceivedQuantity,
		Live:        decimal.Zero,
		Dispatched:  decimal.Zero,
		Allocations: len(allocs),
		ByStatus:    make(map[entity.QualityStatus]decimal.Decimal),
	}
	for _, a := range allocs {
		b.Live = b.Live.Add(a.Quantity)
		b.ByStatus[a.QualityStatus] = b.ByStatus[a.QualityStatus].Add(a.Quantity)
	}
	for _, m := range movs {
		if m.Type == entity.MovementTypeDispatch {
			b.Dispatched = b.Dispatched.Add(m.Quantity.Abs())
		}
	}
	b.Balanced = b.Live.Add(b.Dispatched).Equal(b.Received)
	return b, nil
}
