package repository

import (
	"context"

	"github.com/jhoicas/wms-core/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para ingresos y despachos de lotes.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	ListByLot(ctx context.Context, lotID string) ([]*entity.Movement, error)
}
