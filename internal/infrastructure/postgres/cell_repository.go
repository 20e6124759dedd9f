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

var _ repository.CellRepository = (*CellRepo)(nil)

// CellRepo implementación de CellRepository sobre PostgreSQL (usable con pool o tx).
type CellRepo struct {
	q Querier
}

// NewCellRepository construye el adaptador de celdas. Pasar pool o tx (Querier).
func NewCellRepository(q Querier) *CellRepo {
	return &CellRepo{q: q}
}

const cellColumns = `id, warehouse_id, row_letter, bay, position, capacity, current_usage, status, role, is_passage, created_at, updated_at`

func scanCell(row pgx.Row) (*entity.Cell, error) {
	var c entity.Cell
	var role string
	if err := row.Scan(&c.ID, &c.WarehouseID, &c.Row, &c.Bay, &c.Position, &c.Capacity,
		&c.CurrentUsage, &c.Status, &role, &c.IsPassage, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Role = entity.RowClass(role)
	return &c, nil
}

// Create persiste una celda nueva.
func (r *CellRepo) Create(ctx context.Context, c *entity.Cell) error {
	query := `
		INSERT INTO cells (` + cellColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.WarehouseID, c.Row, c.Bay, c.Position, c.Capacity,
		c.CurrentUsage, c.Status, string(c.Role), c.IsPassage, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewAllocationError(domain.ErrInvalidInput, "", "la celda ya existe")
		}
		return fmt.Errorf("insert cell: %w", err)
	}
	return nil
}

// GetByID obtiene una celda por ID.
func (r *CellRepo) GetByID(ctx context.Context, id string) (*entity.Cell, error) {
	c, err := scanCell(r.q.QueryRow(ctx, `SELECT `+cellColumns+` FROM cells WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cell: %w", err)
	}
	return c, nil
}

// GetForUpdate obtiene la celda y bloquea la fila (SELECT FOR UPDATE).
func (r *CellRepo) GetForUpdate(ctx context.Context, id string) (*entity.Cell, error) {
	c, err := scanCell(r.q.QueryRow(ctx, `SELECT `+cellColumns+` FROM cells WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cell for update: %w", err)
	}
	return c, nil
}

// ListByWarehouse lista las celdas de un almacén.
func (r *CellRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Cell, error) {
	rows, err := r.q.Query(ctx, `SELECT `+cellColumns+` FROM cells WHERE warehouse_id = $1 ORDER BY row_letter, bay, position`, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list cells: %w", err)
	}
	defer rows.Close()
	var list []*entity.Cell
	for rows.Next() {
		c, err := scanCell(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cell: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// UpdateOccupancy persiste current_usage y status.
func (r *CellRepo) UpdateOccupancy(ctx context.Context, c *entity.Cell) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE cells SET current_usage = $2, status = $3, updated_at = $4 WHERE id = $1`,
		c.ID, c.CurrentUsage, c.Status, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update cell occupancy: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
