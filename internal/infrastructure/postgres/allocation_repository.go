package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-core/internal/domain"
	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo implementación de AllocationRepository sobre PostgreSQL (usable con pool o tx).
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

const allocationColumns = `id, lot_id, product_id, warehouse_id, entry_order_id, lot_series, cell_id, cell_ref,
	quantity, package_quantity, weight, volume, quality_status, allocated_at, allocated_by, version, updated_at`

func scanAllocation(row pgx.Row) (*entity.InventoryAllocation, error) {
	var a entity.InventoryAllocation
	var status string
	var allocatedBy *string
	if err := row.Scan(&a.ID, &a.LotID, &a.ProductID, &a.WarehouseID, &a.EntryOrderID, &a.LotSeries,
		&a.CellID, &a.CellRef, &a.Quantity, &a.PackageQuantity, &a.Weight, &a.Volume, &status,
		&a.AllocatedAt, &allocatedBy, &a.Version, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.QualityStatus = entity.QualityStatus(status)
	a.AllocatedBy = deref(allocatedBy)
	return &a, nil
}

// Create persiste una asignación nueva.
func (r *AllocationRepo) Create(ctx context.Context, a *entity.InventoryAllocation) error {
	query := `
		INSERT INTO inventory_allocations (` + allocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	if a.Version == 0 {
		a.Version = 1
	}
	_, err := r.q.Exec(ctx, query,
		a.ID, a.LotID, a.ProductID, a.WarehouseID, a.EntryOrderID, a.LotSeries, a.CellID, a.CellRef,
		a.Quantity, a.PackageQuantity, a.Weight, a.Volume, string(a.QualityStatus),
		a.AllocatedAt, nullable(a.AllocatedBy), a.Version, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert allocation: %w", err)
	}
	return nil
}

// GetByID obtiene una asignación por ID.
func (r *AllocationRepo) GetByID(ctx context.Context, id string) (*entity.InventoryAllocation, error) {
	a, err := scanAllocation(r.q.QueryRow(ctx, `SELECT `+allocationColumns+` FROM inventory_allocations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allocation: %w", err)
	}
	return a, nil
}

// GetForUpdate obtiene la asignación y bloquea la fila (SELECT FOR UPDATE).
func (r *AllocationRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryAllocation, error) {
	a, err := scanAllocation(r.q.QueryRow(ctx, `SELECT `+allocationColumns+` FROM inventory_allocations WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allocation for update: %w", err)
	}
	return a, nil
}

// Update persiste la asignación solo si la versión no cambió y la incrementa.
func (r *AllocationRepo) Update(ctx context.Context, a *entity.InventoryAllocation) error {
	query := `
		UPDATE inventory_allocations
		SET cell_id = $3, cell_ref = $4, quantity = $5, package_quantity = $6, weight = $7, volume = $8,
		    quality_status = $9, updated_at = $10, version = version + 1
		WHERE id = $1 AND version = $2`
	cmd, err := r.q.Exec(ctx, query,
		a.ID, a.Version, a.CellID, a.CellRef, a.Quantity, a.PackageQuantity, a.Weight, a.Volume,
		string(a.QualityStatus), a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update allocation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewAllocationError(domain.ErrConcurrentModification, a.ID, "versión desactualizada")
	}
	a.Version++
	return nil
}

// Delete elimina una asignación agotada.
func (r *AllocationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_allocations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete allocation: %w", err)
	}
	return nil
}

// ListByLot lista las asignaciones vivas de un lote.
func (r *AllocationRepo) ListByLot(ctx context.Context, lotID string) ([]*entity.InventoryAllocation, error) {
	rows, err := r.q.Query(ctx, `SELECT `+allocationColumns+` FROM inventory_allocations WHERE lot_id = $1 ORDER BY allocated_at, id`, lotID)
	if err != nil {
		return nil, fmt.Errorf("list allocations by lot: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryAllocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// ListFIFOCandidates proyecta las asignaciones despachables unidas a su lote.
// El orden final lo decide el planificador; aquí solo se adelanta el de la base.
func (r *AllocationRepo) ListFIFOCandidates(ctx context.Context, productID, warehouseID string, status entity.QualityStatus) ([]entity.FIFOCandidate, error) {
	query := `
		SELECT a.id, a.version, a.cell_ref, l.entry_order_no, a.lot_series, l.supplier, l.expiration_date,
		       a.allocated_at, a.quantity, a.weight, a.package_quantity
		FROM inventory_allocations a
		JOIN lots l ON l.id = a.lot_id
		WHERE a.product_id = $1 AND a.warehouse_id = $2 AND a.quality_status = $3 AND a.quantity > 0
		ORDER BY l.expiration_date ASC NULLS LAST, a.allocated_at ASC, a.id`
	rows, err := r.q.Query(ctx, query, productID, warehouseID, string(status))
	if err != nil {
		return nil, fmt.Errorf("list fifo candidates: %w", err)
	}
	defer rows.Close()
	var list []entity.FIFOCandidate
	for rows.Next() {
		var c entity.FIFOCandidate
		var supplier *string
		if err := rows.Scan(&c.AllocationID, &c.Version, &c.CellRef, &c.EntryOrderNo, &c.LotSeries, &supplier,
			&c.ExpirationDate, &c.AllocatedAt, &c.AvailableQuantity, &c.AvailableWeight, &c.AvailablePackages); err != nil {
			return nil, fmt.Errorf("scan fifo candidate: %w", err)
		}
		c.Supplier = deref(supplier)
		list = append(list, c)
	}
	return list, rows.Err()
}
