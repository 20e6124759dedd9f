package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// Create persiste un lote recibido.
func (r *LotRepo) Create(ctx context.Context, l *entity.Lot) error {
	query := `
		INSERT INTO lots (id, entry_order_id, entry_order_no, supplier, product_id, warehouse_id, lot_series,
		                  expiration_date, received_quantity, received_at, received_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.EntryOrderID, l.EntryOrderNo, nullable(l.Supplier), l.ProductID, l.WarehouseID, l.LotSeries,
		l.ExpirationDate, l.ReceivedQuantity, l.ReceivedAt, nullable(l.ReceivedBy),
	)
	if err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	query := `
		SELECT id, entry_order_id, entry_order_no, supplier, product_id, warehouse_id, lot_series,
		       expiration_date, received_quantity, received_at, received_by
		FROM lots WHERE id = $1`
	var l entity.Lot
	var supplier, receivedBy *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.EntryOrderID, &l.EntryOrderNo, &supplier, &l.ProductID, &l.WarehouseID, &l.LotSeries,
		&l.ExpirationDate, &l.ReceivedQuantity, &l.ReceivedAt, &receivedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	l.Supplier, l.ReceivedBy = deref(supplier), deref(receivedBy)
	return &l, nil
}
