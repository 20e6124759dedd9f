package repository

import (
	"context"

	"github.com/jhoicas/wms-core/internal/domain/entity"
)

// CellRepository define el puerto de persistencia de celdas (almacén de celdas).
// Los getters devuelven nil, nil cuando la celda no existe.
type CellRepository interface {
	Create(ctx context.Context, cell *entity.Cell) error
	GetByID(ctx context.Context, id string) (*entity.Cell, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Cell, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Cell, error)
	// UpdateOccupancy persiste current_usage y status.
	UpdateOccupancy(ctx context.Context, cell *entity.Cell) error
}
