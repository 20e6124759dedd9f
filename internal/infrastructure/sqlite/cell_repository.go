package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/wms-core/internal/domain"
	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/repository"
)

var _ repository.CellRepository = (*CellRepo)(nil)

type cellRow struct {
	ID           string `db:"id"`
	WarehouseID  string `db:"warehouse_id"`
	Row          string `db:"row_letter"`
	Bay          int    `db:"bay"`
	Position     int    `db:"position"`
	Capacity     int    `db:"capacity"`
	CurrentUsage int    `db:"current_usage"`
	Status       string `db:"status"`
	Role         string `db:"role"`
	IsPassage    bool   `db:"is_passage"`
	CreatedAt    string `db:"created_at"`
	UpdatedAt    string `db:"updated_at"`
}

func (r cellRow) toEntity() (*entity.Cell, error) {
	c := &entity.Cell{
		ID: r.ID, WarehouseID: r.WarehouseID, Row: r.Row, Bay: r.Bay, Position: r.Position,
		Capacity: r.Capacity, CurrentUsage: r.CurrentUsage, Status: r.Status,
		Role: entity.RowClass(r.Role), IsPassage: r.IsPassage,
	}
	var err error
	if c.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

const cellSelect = `SELECT id, warehouse_id, row_letter, bay, position, capacity, current_usage, status, role, is_passage, created_at, updated_at FROM cells`

// CellRepo celdas sobre SQLite. Sin FOR UPDATE: la única conexión ya serializa las transacciones.
type CellRepo struct {
	q sqlx.ExtContext
}

func NewCellRepository(q sqlx.ExtContext) *CellRepo {
	return &CellRepo{q: q}
}

func (r *CellRepo) Create(ctx context.Context, c *entity.Cell) error {
	row := cellRow{
		ID: c.ID, WarehouseID: c.WarehouseID, Row: c.Row, Bay: c.Bay, Position: c.Position,
		Capacity: c.Capacity, CurrentUsage: c.CurrentUsage, Status: c.Status, Role: string(c.Role),
		IsPassage: c.IsPassage, CreatedAt: formatTime(c.CreatedAt), UpdatedAt: formatTime(c.UpdatedAt),
	}
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO cells (id, warehouse_id, row_letter, bay, position, capacity, current_usage, status, role, is_passage, created_at, updated_at)
		VALUES (:id, :warehouse_id, :row_letter, :bay, :position, :capacity, :current_usage, :status, :role, :is_passage, :created_at, :updated_at)`, row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewAllocationError(domain.ErrInvalidInput, "", "la celda ya existe")
		}
		return fmt.Errorf("insert cell: %w", err)
	}
	return nil
}

func (r *CellRepo) GetByID(ctx context.Context, id string) (*entity.Cell, error) {
	var row cellRow
	if err := sqlx.GetContext(ctx, r.q, &row, cellSelect+` WHERE id = ?`, id); err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cell: %w", err)
	}
	return row.toEntity()
}

// GetForUpdate equivale a GetByID dentro de la transacción.
func (r *CellRepo) GetForUpdate(ctx context.Context, id string) (*entity.Cell, error) {
	return r.GetByID(ctx, id)
}

func (r *CellRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Cell, error) {
	var rows []cellRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, cellSelect+` WHERE warehouse_id = ? ORDER BY row_letter, bay, position`, warehouseID); err != nil {
		return nil, fmt.Errorf("list cells: %w", err)
	}
	list := make([]*entity.Cell, 0, len(rows))
	for _, row := range rows {
		c, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, nil
}

func (r *CellRepo) UpdateOccupancy(ctx context.Context, c *entity.Cell) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE cells SET current_usage = ?, status = ?, updated_at = ? WHERE id = ?`,
		c.CurrentUsage, c.Status, formatTime(c.UpdatedAt), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update cell occupancy: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
