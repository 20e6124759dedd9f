package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

// schemaCore es el DDL de las tablas del núcleo de almacén.
//
//go:embed migrations/001_warehouse_core.sql
var schemaCore string

// Migrate aplica el esquema. Es idempotente (CREATE ... IF NOT EXISTS).
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaCore); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
