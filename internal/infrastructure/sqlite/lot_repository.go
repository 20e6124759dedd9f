package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

type lotRow struct {
	ID               string          `db:"id"`
	EntryOrderID     string          `db:"entry_order_id"`
	EntryOrderNo     string          `db:"entry_order_no"`
	Supplier         string          `db:"supplier"`
	ProductID        string          `db:"product_id"`
	WarehouseID      string          `db:"warehouse_id"`
	LotSeries        string          `db:"lot_series"`
	ExpirationDate   sql.NullString  `db:"expiration_date"`
	ReceivedQuantity decimal.Decimal `db:"received_quantity"`
	ReceivedAt       string          `db:"received_at"`
	ReceivedBy       string          `db:"received_by"`
}

// LotRepo lotes sobre SQLite.
type LotRepo struct {
	q sqlx.ExtContext
}

func NewLotRepository(q sqlx.ExtContext) *LotRepo {
	return &LotRepo{q: q}
}

func (r *LotRepo) Create(ctx context.Context, l *entity.Lot) error {
	row := lotRow{
		ID: l.ID, EntryOrderID: l.EntryOrderID, EntryOrderNo: l.EntryOrderNo, Supplier: l.Supplier,
		ProductID: l.ProductID, WarehouseID: l.WarehouseID, LotSeries: l.LotSeries,
		ExpirationDate: formatNullTime(l.ExpirationDate), ReceivedQuantity: l.ReceivedQuantity,
		ReceivedAt: formatTime(l.ReceivedAt), ReceivedBy: l.ReceivedBy,
	}
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO lots (id, entry_order_id, entry_order_no, supplier, product_id, warehouse_id, lot_series,
		                  expiration_date, received_quantity, received_at, received_by)
		VALUES (:id, :entry_order_id, :entry_order_no, :supplier, :product_id, :warehouse_id, :lot_series,
		        :expiration_date, :received_quantity, :received_at, :received_by)`, row)
	if err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	var row lotRow
	err := sqlx.GetContext(ctx, r.q, &row, `
		SELECT id, entry_order_id, entry_order_no, supplier, product_id, warehouse_id, lot_series,
		       expiration_date, received_quantity, received_at, received_by
		FROM lots WHERE id = ?`, id)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	l := &entity.Lot{
		ID: row.ID, EntryOrderID: row.EntryOrderID, EntryOrderNo: row.EntryOrderNo, Supplier: row.Supplier,
		ProductID: row.ProductID, WarehouseID: row.WarehouseID, LotSeries: row.LotSeries,
		ReceivedQuantity: row.ReceivedQuantity, ReceivedBy: row.ReceivedBy,
	}
	if l.ExpirationDate, err = parseNullTime(row.ExpirationDate); err != nil {
		return nil, err
	}
	if l.ReceivedAt, err = parseTime(row.ReceivedAt); err != nil {
		return nil, err
	}
	return l, nil
}
