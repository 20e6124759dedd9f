package repository

import (
	"context"

	"github.com/jhoicas/wms-core/internal/domain/entity"
)

// LotRepository define el puerto de persistencia de lotes recibidos.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
}
