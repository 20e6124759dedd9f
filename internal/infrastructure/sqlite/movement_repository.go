package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

type movementRow struct {
	ID            string          `db:"id"`
	TransactionID string          `db:"transaction_id"`
	LotID         string          `db:"lot_id"`
	AllocationID  string          `db:"allocation_id"`
	ProductID     string          `db:"product_id"`
	WarehouseID   string          `db:"warehouse_id"`
	CellID        string          `db:"cell_id"`
	Type          string          `db:"type"`
	Quantity      decimal.Decimal `db:"quantity"`
	Weight        decimal.Decimal `db:"weight"`
	Packages      int             `db:"packages"`
	Reference     string          `db:"reference"`
	Date          string          `db:"date"`
	CreatedBy     string          `db:"created_by"`
}

// MovementRepo ingresos y despachos sobre SQLite.
type MovementRepo struct {
	q sqlx.ExtContext
}

func NewMovementRepository(q sqlx.ExtContext) *MovementRepo {
	return &MovementRepo{q: q}
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	row := movementRow{
		ID: m.ID, TransactionID: m.TransactionID, LotID: m.LotID, AllocationID: m.AllocationID,
		ProductID: m.ProductID, WarehouseID: m.WarehouseID, CellID: m.CellID, Type: m.Type,
		Quantity: m.Quantity, Weight: m.Weight, Packages: m.Packages, Reference: m.Reference,
		Date: formatTime(m.Date), CreatedBy: m.CreatedBy,
	}
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO allocation_movements (id, transaction_id, lot_id, allocation_id, product_id, warehouse_id, cell_id,
		                                  type, quantity, weight, packages, reference, date, created_by)
		VALUES (:id, :transaction_id, :lot_id, :allocation_id, :product_id, :warehouse_id, :cell_id,
		        :type, :quantity, :weight, :packages, :reference, :date, :created_by)`, row)
	if err != nil {
		return fmt.Errorf("create allocation movement: %w", err)
	}
	return nil
}

func (r *MovementRepo) ListByLot(ctx context.Context, lotID string) ([]*entity.Movement, error) {
	var rows []movementRow
	err := sqlx.SelectContext(ctx, r.q, &rows, `
		SELECT id, transaction_id, lot_id, allocation_id, product_id, warehouse_id, cell_id,
		       type, quantity, weight, packages, reference, date, created_by
		FROM allocation_movements WHERE lot_id = ? ORDER BY date, id`, lotID)
	if err != nil {
		return nil, fmt.Errorf("list movements by lot: %w", err)
	}
	list := make([]*entity.Movement, 0, len(rows))
	for _, row := range rows {
		m := &entity.Movement{
			ID: row.ID, TransactionID: row.TransactionID, LotID: row.LotID, AllocationID: row.AllocationID,
			ProductID: row.ProductID, WarehouseID: row.WarehouseID, CellID: row.CellID, Type: row.Type,
			Quantity: row.Quantity, Weight: row.Weight, Packages: row.Packages, Reference: row.Reference,
			CreatedBy: row.CreatedBy,
		}
		if m.Date, err = parseTime(row.Date); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, nil
}
