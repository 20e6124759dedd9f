package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaCore_DefineTablas(t *testing.T) {
	for _, table := range []string{"warehouses", "cells", "lots", "inventory_allocations", "allocation_movements", "quality_transitions", "users"} {
		assert.Contains(t, schemaCore, "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
	assert.True(t, strings.Contains(schemaCore, "version           BIGINT NOT NULL DEFAULT 1"))
	assert.Contains(t, schemaCore, "UNIQUE (warehouse_id, row_letter, bay, position)")
	assert.Contains(t, schemaCore, "warehouse_id       UUID NOT NULL REFERENCES warehouses(id),\n    new_allocation_id")
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	s := nullable("x")
	if assert.NotNil(t, s) {
		assert.Equal(t, "x", *s)
	}
	assert.Equal(t, "", deref(nil))
	assert.Equal(t, "x", deref(s))
}
