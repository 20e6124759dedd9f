package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

type warehouseRow struct {
	ID        string `db:"id"`
	CompanyID string `db:"company_id"`
	Name      string `db:"name"`
	Address   string `db:"address"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

// WarehouseRepo almacenes sobre SQLite.
type WarehouseRepo struct {
	q sqlx.ExtContext
}

func NewWarehouseRepository(q sqlx.ExtContext) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create registra un almacén.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	row := warehouseRow{
		ID: w.ID, CompanyID: w.CompanyID, Name: w.Name, Address: w.Address,
		CreatedAt: formatTime(w.CreatedAt), UpdatedAt: formatTime(w.UpdatedAt),
	}
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO warehouses (id, company_id, name, address, created_at, updated_at)
		VALUES (:id, :company_id, :name, :address, :created_at, :updated_at)`, row)
	if err != nil {
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var row warehouseRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT id, company_id, name, address, created_at, updated_at FROM warehouses WHERE id = ?`, id)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	w := &entity.Warehouse{ID: row.ID, CompanyID: row.CompanyID, Name: row.Name, Address: row.Address}
	if w.CreatedAt, err = parseTime(row.CreatedAt); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime(row.UpdatedAt); err != nil {
		return nil, err
	}
	return w, nil
}
