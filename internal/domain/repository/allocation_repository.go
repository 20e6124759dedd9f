package repository

import (
	"context"

	"github.com/jhoicas/wms-core/internal/domain/entity"
)

// AllocationRepository define el puerto de persistencia de asignaciones de inventario.
// Es la única fuente de verdad del estado de las asignaciones; los candidatos FIFO
// son una proyección de lectura sobre ella.
type AllocationRepository interface {
	Create(ctx context.Context, a *entity.InventoryAllocation) error
	GetByID(ctx context.Context, id string) (*entity.InventoryAllocation, error)
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryAllocation, error)
	// Update persiste la asignación si su versión no cambió y la incrementa.
	// Devuelve domain.ErrConcurrentModification si la versión ya no coincide.
	Update(ctx context.Context, a *entity.InventoryAllocation) error
	Delete(ctx context.Context, id string) error
	ListByLot(ctx context.Context, lotID string) ([]*entity.InventoryAllocation, error)
	// ListFIFOCandidates devuelve las asignaciones del producto en el almacén con el estado
	// indicado y cantidad > 0, unidas a los datos de su lote.
	ListFIFOCandidates(ctx context.Context, productID, warehouseID string, status entity.QualityStatus) ([]entity.FIFOCandidate, error)
}
