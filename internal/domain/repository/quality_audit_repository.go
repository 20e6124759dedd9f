package repository

import (
	"context"

	"github.com/jhoicas/wms-core/internal/domain/entity"
)

// QualityAuditRepository es el sumidero de auditoría: un registro por transición de calidad.
type QualityAuditRepository interface {
	Create(ctx context.Context, rec *entity.QualityTransition) error
	// ListByAllocation devuelve los registros donde la asignación es origen o resultado, más recientes primero.
	ListByAllocation(ctx context.Context, allocationID string) ([]*entity.QualityTransition, error)
}
