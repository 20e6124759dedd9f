package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/repository"
)

var _ repository.QualityAuditRepository = (*QualityAuditRepo)(nil)

// QualityAuditRepo sumidero de auditoría de transiciones de calidad.
type QualityAuditRepo struct {
	q Querier
}

// NewQualityAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQualityAuditRepository(q Querier) *QualityAuditRepo {
	return &QualityAuditRepo{q: q}
}

// Create persiste un registro de auditoría.
func (r *QualityAuditRepo) Create(ctx context.Context, t *entity.QualityTransition) error {
	query := `
		INSERT INTO quality_transitions (id, allocation_id, warehouse_id, new_allocation_id, from_status, to_status, from_cell_id, to_cell_id,
		                                 moved_quantity, moved_weight, moved_packages, moved_volume, reason, notes, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.AllocationID, t.WarehouseID, nullable(t.NewAllocationID), string(t.FromStatus), string(t.ToStatus),
		nullable(t.FromCellID), nullable(t.ToCellID),
		t.MovedQuantity, t.MovedWeight, t.MovedPackages, t.MovedVolume,
		nullable(t.Reason), nullable(t.Notes), t.Actor, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quality transition: %w", err)
	}
	return nil
}

// ListByAllocation devuelve los registros donde la asignación es origen o resultado, más recientes primero.
func (r *QualityAuditRepo) ListByAllocation(ctx context.Context, allocationID string) ([]*entity.QualityTransition, error) {
	query := `
		SELECT id, allocation_id, warehouse_id, new_allocation_id, from_status, to_status, from_cell_id, to_cell_id,
		       moved_quantity, moved_weight, moved_packages, moved_volume, reason, notes, actor, created_at
		FROM quality_transitions
		WHERE allocation_id = $1 OR new_allocation_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, allocationID)
	if err != nil {
		return nil, fmt.Errorf("list quality transitions: %w", err)
	}
	defer rows.Close()
	var list []*entity.QualityTransition
	for rows.Next() {
		var t entity.QualityTransition
		var from, to string
		var newID, fromCell, toCell, reason, notes *string
		if err := rows.Scan(&t.ID, &t.AllocationID, &t.WarehouseID, &newID, &from, &to, &fromCell, &toCell,
			&t.MovedQuantity, &t.MovedWeight, &t.MovedPackages, &t.MovedVolume, &reason, &notes, &t.Actor, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quality transition: %w", err)
		}
		t.FromStatus, t.ToStatus = entity.QualityStatus(from), entity.QualityStatus(to)
		t.NewAllocationID, t.FromCellID, t.ToCellID = deref(newID), deref(fromCell), deref(toCell)
		t.Reason, t.Notes = deref(reason), deref(notes)
		list = append(list, &t)
	}
	return list, rows.Err()
}
