package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/repository"
)

var _ repository.QualityAuditRepository = (*QualityAuditRepo)(nil)

type qualityTransitionRow struct {
	ID              string          `db:"id"`
	AllocationID    string          `db:"allocation_id"`
	WarehouseID     string          `db:"warehouse_id"`
	NewAllocationID string          `db:"new_allocation_id"`
	FromStatus      string          `db:"from_status"`
	ToStatus        string          `db:"to_status"`
	FromCellID      string          `db:"from_cell_id"`
	ToCellID        string          `db:"to_cell_id"`
	MovedQuantity   decimal.Decimal `db:"moved_quantity"`
	MovedWeight     decimal.Decimal `db:"moved_weight"`
	MovedPackages   int             `db:"moved_packages"`
	MovedVolume     decimal.Decimal `db:"moved_volume"`
	Reason          string          `db:"reason"`
	Notes           string          `db:"notes"`
	Actor           string          `db:"actor"`
	CreatedAt       string          `db:"created_at"`
}

// QualityAuditRepo sumidero de auditoría sobre SQLite.
type QualityAuditRepo struct {
	q sqlx.ExtContext
}

func NewQualityAuditRepository(q sqlx.ExtContext) *QualityAuditRepo {
	return &QualityAuditRepo{q: q}
}

func (r *QualityAuditRepo) Create(ctx context.Context, t *entity.QualityTransition) error {
	row := qualityTransitionRow{
		ID: t.ID, AllocationID: t.AllocationID, WarehouseID: t.WarehouseID, NewAllocationID: t.NewAllocationID,
		FromStatus: string(t.FromStatus), ToStatus: string(t.ToStatus), FromCellID: t.FromCellID, ToCellID: t.ToCellID,
		MovedQuantity: t.MovedQuantity, MovedWeight: t.MovedWeight, MovedPackages: t.MovedPackages, MovedVolume: t.MovedVolume,
		Reason: t.Reason, Notes: t.Notes, Actor: t.Actor, CreatedAt: formatTime(t.CreatedAt),
	}
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO quality_transitions (id, allocation_id, warehouse_id, new_allocation_id, from_status, to_status, from_cell_id, to_cell_id,
		                                 moved_quantity, moved_weight, moved_packages, moved_volume, reason, notes, actor, created_at)
		VALUES (:id, :allocation_id, :warehouse_id, :new_allocation_id, :from_status, :to_status, :from_cell_id, :to_cell_id,
		        :moved_quantity, :moved_weight, :moved_packages, :moved_volume, :reason, :notes, :actor, :created_at)`, row)
	if err != nil {
		return fmt.Errorf("insert quality transition: %w", err)
	}
	return nil
}

// ListByAllocation registros donde la asignación es origen o resultado, más recientes primero.
func (r *QualityAuditRepo) ListByAllocation(ctx context.Context, allocationID string) ([]*entity.QualityTransition, error) {
	var rows []qualityTransitionRow
	err := sqlx.SelectContext(ctx, r.q, &rows, `
		SELECT id, allocation_id, warehouse_id, new_allocation_id, from_status, to_status, from_cell_id, to_cell_id,
		       moved_quantity, moved_weight, moved_packages, moved_volume, reason, notes, actor, created_at
		FROM quality_transitions
		WHERE allocation_id = ? OR new_allocation_id = ?
		ORDER BY created_at DESC, id DESC`, allocationID, allocationID)
	if err != nil {
		return nil, fmt.Errorf("list quality transitions: %w", err)
	}
	list := make([]*entity.QualityTransition, 0, len(rows))
	for _, row := range rows {
		t := &entity.QualityTransition{
			ID: row.ID, AllocationID: row.AllocationID, WarehouseID: row.WarehouseID, NewAllocationID: row.NewAllocationID,
			FromStatus: entity.QualityStatus(row.FromStatus), ToStatus: entity.QualityStatus(row.ToStatus),
			FromCellID: row.FromCellID, ToCellID: row.ToCellID,
			MovedQuantity: row.MovedQuantity, MovedWeight: row.MovedWeight, MovedPackages: row.MovedPackages,
			MovedVolume: row.MovedVolume, Reason: row.Reason, Notes: row.Notes, Actor: row.Actor,
		}
		if t.CreatedAt, err = parseTime(row.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, nil
}
