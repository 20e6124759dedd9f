package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento de ingreso o despacho.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO allocation_movements (id, transaction_id, lot_id, allocation_id, product_id, warehouse_id, cell_id,
		                                  type, quantity, weight, packages, reference, date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TransactionID, m.LotID, m.AllocationID, m.ProductID, m.WarehouseID, nullable(m.CellID),
		m.Type, m.Quantity, m.Weight, m.Packages, nullable(m.Reference), m.Date, nullable(m.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create allocation movement: %w", err)
	}
	return nil
}

// ListByLot lista los movimientos de un lote en orden cronológico.
func (r *MovementRepo) ListByLot(ctx context.Context, lotID string) ([]*entity.Movement, error) {
	query := `
		SELECT id, transaction_id, lot_id, allocation_id, product_id, warehouse_id, cell_id,
		       type, quantity, weight, packages, reference, date, created_by
		FROM allocation_movements WHERE lot_id = $1 ORDER BY date, id`
	rows, err := r.q.Query(ctx, query, lotID)
	if err != nil {
		return nil, fmt.Errorf("list movements by lot: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var cellID, reference, createdBy *string
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.LotID, &m.AllocationID, &m.ProductID, &m.WarehouseID, &cellID,
			&m.Type, &m.Quantity, &m.Weight, &m.Packages, &reference, &m.Date, &createdBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.CellID, m.Reference, m.CreatedBy = deref(cellID), deref(reference), deref(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}
