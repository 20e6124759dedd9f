package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registra el driver "sqlite"
)

// schema crea las mismas tablas que la migración de PostgreSQL.
// Decimales y fechas se guardan como TEXT (decimal exacto y fecha UTC de ancho fijo ordenable).
var schema = []string{
	`CREATE TABLE IF NOT EXISTS warehouses (
		id          TEXT PRIMARY KEY,
		company_id  TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		address     TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cells (
		id             TEXT PRIMARY KEY,
		warehouse_id   TEXT NOT NULL REFERENCES warehouses(id),
		row_letter     TEXT NOT NULL,
		bay            INTEGER NOT NULL CHECK (bay >= 0),
		position       INTEGER NOT NULL CHECK (position >= 0),
		capacity       INTEGER NOT NULL DEFAULT 0 CHECK (capacity >= 0),
		current_usage  INTEGER NOT NULL DEFAULT 0 CHECK (current_usage >= 0),
		status         TEXT NOT NULL DEFAULT 'AVAILABLE',
		role           TEXT NOT NULL DEFAULT 'STANDARD',
		is_passage     INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL,
		UNIQUE (warehouse_id, row_letter, bay, position)
	)`,
	`CREATE TABLE IF NOT EXISTS lots (
		id                 TEXT PRIMARY KEY,
		entry_order_id     TEXT NOT NULL,
		entry_order_no     TEXT NOT NULL,
		supplier           TEXT NOT NULL DEFAULT '',
		product_id         TEXT NOT NULL,
		warehouse_id       TEXT NOT NULL REFERENCES warehouses(id),
		lot_series         TEXT NOT NULL,
		expiration_date    TEXT,
		received_quantity  TEXT NOT NULL,
		received_at        TEXT NOT NULL,
		received_by        TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_allocations (
		id                TEXT PRIMARY KEY,
		lot_id            TEXT NOT NULL REFERENCES lots(id),
		product_id        TEXT NOT NULL,
		warehouse_id      TEXT NOT NULL REFERENCES warehouses(id),
		entry_order_id    TEXT NOT NULL,
		lot_series        TEXT NOT NULL,
		cell_id           TEXT NOT NULL REFERENCES cells(id),
		cell_ref          TEXT NOT NULL,
		quantity          TEXT NOT NULL,
		package_quantity  INTEGER NOT NULL CHECK (package_quantity >= 0),
		weight            TEXT NOT NULL,
		volume            TEXT NOT NULL DEFAULT '0',
		quality_status    TEXT NOT NULL,
		allocated_at      TEXT NOT NULL,
		allocated_by      TEXT NOT NULL DEFAULT '',
		version           INTEGER NOT NULL DEFAULT 1,
		updated_at        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_allocations_fifo ON inventory_allocations (product_id, warehouse_id, quality_status)`,
	`CREATE INDEX IF NOT EXISTS idx_allocations_lot ON inventory_allocations (lot_id)`,
	`CREATE TABLE IF NOT EXISTS allocation_movements (
		id              TEXT PRIMARY KEY,
		transaction_id  TEXT NOT NULL,
		lot_id          TEXT NOT NULL REFERENCES lots(id),
		allocation_id   TEXT NOT NULL,
		product_id      TEXT NOT NULL,
		warehouse_id    TEXT NOT NULL,
		cell_id         TEXT NOT NULL DEFAULT '',
		type            TEXT NOT NULL CHECK (type IN ('RECEIPT', 'DISPATCH')),
		quantity        TEXT NOT NULL,
		weight          TEXT NOT NULL,
		packages        INTEGER NOT NULL,
		reference       TEXT NOT NULL DEFAULT '',
		date            TEXT NOT NULL,
		created_by      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_lot ON allocation_movements (lot_id)`,
	`CREATE TABLE IF NOT EXISTS quality_transitions (
		id                 TEXT PRIMARY KEY,
		allocation_id      TEXT NOT NULL,
		warehouse_id       TEXT NOT NULL DEFAULT '',
		new_allocation_id  TEXT NOT NULL DEFAULT '',
		from_status        TEXT NOT NULL,
		to_status          TEXT NOT NULL,
		from_cell_id       TEXT NOT NULL DEFAULT '',
		to_cell_id         TEXT NOT NULL DEFAULT '',
		moved_quantity     TEXT NOT NULL,
		moved_weight       TEXT NOT NULL,
		moved_packages     INTEGER NOT NULL,
		moved_volume       TEXT NOT NULL,
		reason             TEXT NOT NULL DEFAULT '',
		notes              TEXT NOT NULL DEFAULT '',
		actor              TEXT NOT NULL,
		created_at         TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quality_transitions_alloc ON quality_transitions (allocation_id)`,
	`CREATE TABLE IF NOT EXISTS users (
		id             TEXT PRIMARY KEY,
		warehouse_id   TEXT NOT NULL DEFAULT '',
		email          TEXT NOT NULL UNIQUE,
		password_hash  TEXT NOT NULL,
		name           TEXT NOT NULL,
		role           TEXT NOT NULL CHECK (role IN ('admin', 'bodeguero', 'calidad')),
		status         TEXT NOT NULL DEFAULT 'active',
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,
}

// Open abre (o crea) la base SQLite y aplica el esquema.
// Una sola conexión: SQLite serializa escritores y así las transacciones no chocan con SQLITE_BUSY.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: connect: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: foreign keys: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: schema: %w", err)
		}
	}
	return db, nil
}
