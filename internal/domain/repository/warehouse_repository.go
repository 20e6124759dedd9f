package repository

import (
	"context"

	"github.com/jhoicas/wms-core/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia de almacenes (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, w *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
}
