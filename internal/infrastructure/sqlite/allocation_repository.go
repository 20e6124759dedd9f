package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-core/internal/domain"
	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

type allocationRow struct {
	ID              string          `db:"id"`
	LotID           string          `db:"lot_id"`
	ProductID       string          `db:"product_id"`
	WarehouseID     string          `db:"warehouse_id"`
	EntryOrderID    string          `db:"entry_order_id"`
	LotSeries       string          `db:"lot_series"`
	CellID          string          `db:"cell_id"`
	CellRef         string          `db:"cell_ref"`
	Quantity        decimal.Decimal `db:"quantity"`
	PackageQuantity int             `db:"package_quantity"`
	Weight          decimal.Decimal `db:"weight"`
	Volume          decimal.Decimal `db:"volume"`
	QualityStatus   string          `db:"quality_status"`
	AllocatedAt     string          `db:"allocated_at"`
	AllocatedBy     string          `db:"allocated_by"`
	Version         int64           `db:"version"`
	UpdatedAt       string          `db:"updated_at"`
}

func newAllocationRow(a *entity.InventoryAllocation) allocationRow {
	return allocationRow{
		ID: a.ID, LotID: a.LotID, ProductID: a.ProductID, WarehouseID: a.WarehouseID,
		EntryOrderID: a.EntryOrderID, LotSeries: a.LotSeries, CellID: a.CellID, CellRef: a.CellRef,
		Quantity: a.Quantity, PackageQuantity: a.PackageQuantity, Weight: a.Weight, Volume: a.Volume,
		QualityStatus: string(a.QualityStatus), AllocatedAt: formatTime(a.AllocatedAt),
		AllocatedBy: a.AllocatedBy, Version: a.Version, UpdatedAt: formatTime(a.UpdatedAt),
	}
}

func (r allocationRow) toEntity() (*entity.InventoryAllocation, error) {
	a := &entity.InventoryAllocation{
		ID: r.ID, LotID: r.LotID, ProductID: r.ProductID, WarehouseID: r.WarehouseID,
		EntryOrderID: r.EntryOrderID, LotSeries: r.LotSeries, CellID: r.CellID, CellRef: r.CellRef,
		Quantity: r.Quantity, PackageQuantity: r.PackageQuantity, Weight: r.Weight, Volume: r.Volume,
		QualityStatus: entity.QualityStatus(r.QualityStatus), AllocatedBy: r.AllocatedBy, Version: r.Version,
	}
	var err error
	if a.AllocatedAt, err = parseTime(r.AllocatedAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

const allocationSelect = `SELECT id, lot_id, product_id, warehouse_id, entry_order_id, lot_series, cell_id, cell_ref,
	quantity, package_quantity, weight, volume, quality_status, allocated_at, allocated_by, version, updated_at
	FROM inventory_allocations`

// AllocationRepo asignaciones sobre SQLite con la misma versión optimista que PostgreSQL.
type AllocationRepo struct {
	q sqlx.ExtContext
}

func NewAllocationRepository(q sqlx.ExtContext) *AllocationRepo {
	return &AllocationRepo{q: q}
}

func (r *AllocationRepo) Create(ctx context.Context, a *entity.InventoryAllocation) error {
	if a.Version == 0 {
		a.Version = 1
	}
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO inventory_allocations (id, lot_id, product_id, warehouse_id, entry_order_id, lot_series, cell_id, cell_ref,
			quantity, package_quantity, weight, volume, quality_status, allocated_at, allocated_by, version, updated_at)
		VALUES (:id, :lot_id, :product_id, :warehouse_id, :entry_order_id, :lot_series, :cell_id, :cell_ref,
			:quantity, :package_quantity, :weight, :volume, :quality_status, :allocated_at, :allocated_by, :version, :updated_at)`,
		newAllocationRow(a))
	if err != nil {
		return fmt.Errorf("insert allocation: %w", err)
	}
	return nil
}

func (r *AllocationRepo) GetByID(ctx context.Context, id string) (*entity.InventoryAllocation, error) {
	var row allocationRow
	if err := sqlx.GetContext(ctx, r.q, &row, allocationSelect+` WHERE id = ?`, id); err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allocation: %w", err)
	}
	return row.toEntity()
}

func (r *AllocationRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryAllocation, error) {
	return r.GetByID(ctx, id)
}

// Update aplica el cambio solo si la versión persistida coincide y la incrementa.
func (r *AllocationRepo) Update(ctx context.Context, a *entity.InventoryAllocation) error {
	row := newAllocationRow(a)
	res, err := sqlx.NamedExecContext(ctx, r.q, `
		UPDATE inventory_allocations
		SET cell_id = :cell_id, cell_ref = :cell_ref, quantity = :quantity, package_quantity = :package_quantity,
		    weight = :weight, volume = :volume, quality_status = :quality_status, updated_at = :updated_at,
		    version = version + 1
		WHERE id = :id AND version = :version`, row)
	if err != nil {
		return fmt.Errorf("update allocation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NewAllocationError(domain.ErrConcurrentModification, a.ID, "versión desactualizada")
	}
	a.Version++
	return nil
}

func (r *AllocationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM inventory_allocations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete allocation: %w", err)
	}
	return nil
}

func (r *AllocationRepo) ListByLot(ctx context.Context, lotID string) ([]*entity.InventoryAllocation, error) {
	var rows []allocationRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, allocationSelect+` WHERE lot_id = ? ORDER BY allocated_at, id`, lotID); err != nil {
		return nil, fmt.Errorf("list allocations by lot: %w", err)
	}
	list := make([]*entity.InventoryAllocation, 0, len(rows))
	for _, row := range rows {
		a, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, nil
}

type fifoRow struct {
	AllocationID   string          `db:"id"`
	Version        int64           `db:"version"`
	CellRef        string          `db:"cell_ref"`
	EntryOrderNo   string          `db:"entry_order_no"`
	LotSeries      string          `db:"lot_series"`
	Supplier       string          `db:"supplier"`
	ExpirationDate sql.NullString  `db:"expiration_date"`
	AllocatedAt    string          `db:"allocated_at"`
	Quantity       decimal.Decimal `db:"quantity"`
	Weight         decimal.Decimal `db:"weight"`
	Packages       int             `db:"package_quantity"`
}

// ListFIFOCandidates proyecta las asignaciones con cantidad positiva unidas a su lote.
// La cantidad es TEXT; el filtro > 0 se hace en Go para no depender de la afinidad numérica.
func (r *AllocationRepo) ListFIFOCandidates(ctx context.Context, productID, warehouseID string, status entity.QualityStatus) ([]entity.FIFOCandidate, error) {
	var rows []fifoRow
	err := sqlx.SelectContext(ctx, r.q, &rows, `
		SELECT a.id, a.version, a.cell_ref, l.entry_order_no, a.lot_series, l.supplier, l.expiration_date,
		       a.allocated_at, a.quantity, a.weight, a.package_quantity
		FROM inventory_allocations a
		JOIN lots l ON l.id = a.lot_id
		WHERE a.product_id = ? AND a.warehouse_id = ? AND a.quality_status = ?
		ORDER BY l.expiration_date IS NULL, l.expiration_date, a.allocated_at, a.id`,
		productID, warehouseID, string(status))
	if err != nil {
		return nil, fmt.Errorf("list fifo candidates: %w", err)
	}
	list := make([]entity.FIFOCandidate, 0, len(rows))
	for _, row := range rows {
		if !row.Quantity.IsPositive() {
			continue
		}
		c := entity.FIFOCandidate{
			AllocationID: row.AllocationID, Version: row.Version, CellRef: row.CellRef,
			EntryOrderNo: row.EntryOrderNo, LotSeries: row.LotSeries, Supplier: row.Supplier,
			AvailableQuantity: row.Quantity, AvailableWeight: row.Weight, AvailablePackages: row.Packages,
		}
		if c.ExpirationDate, err = parseNullTime(row.ExpirationDate); err != nil {
			return nil, err
		}
		if c.AllocatedAt, err = parseTime(row.AllocatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, nil
}
