// Package warehouse modela el espacio de direcciones de celdas: referencias canónicas,
// clasificación de filas por rol y el orden de filas que comparten todas las vistas.
package warehouse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/wms-core/internal/domain/entity"
)

// rowTable es la tabla fija fila → clase. No se deriva de configuración: un cambio de
// layout no puede reclasificar celdas en silencio.
var rowTable = map[string]entity.RowClass{
	"A": entity.RowClassStandard,
	"B": entity.RowClassStandard,
	"C": entity.RowClassStandard,
	"D": entity.RowClassStandard,
	"E": entity.RowClassStandard,
	"F": entity.RowClassStandard,
	"G": entity.RowClassStandard,
	"H": entity.RowClassStandard,
	"I": entity.RowClassStandard,
	"J": entity.RowClassStandard,
	"K": entity.RowClassStandard,
	"L": entity.RowClassStandard,
	"M": entity.RowClassStandard,
	"N": entity.RowClassStandard,
	"O": entity.RowClassStandard,
	"P": entity.RowClassPassage,
	"R": entity.RowClassReturns,
	"S": entity.RowClassSamples,
	"X": entity.RowClassRejected,
}

// reservedRowOrder es el orden fijo de las filas no estándar, después de las estándar.
var reservedRowOrder = []entity.RowClass{
	entity.RowClassReturns,
	entity.RowClassSamples,
	entity.RowClassRejected,
	entity.RowClassPassage,
}

// normalizeRow deja la fila en su forma canónica (mayúsculas, sin espacios).
func normalizeRow(row string) string {
	return strings.ToUpper(strings.TrimSpace(row))
}

// FormatReference devuelve la referencia canónica de una celda, p. ej. "A.01.01".
// Bahía y posición se rellenan con ceros a dos dígitos; valores negativos se llevan a 0.
func FormatReference(row string, bay, position int) string {
	if bay < 0 {
		bay = 0
	}
	if position < 0 {
		position = 0
	}
	return fmt.Sprintf("%s.%02d.%02d", normalizeRow(row), bay, position)
}

// ClassifyRow devuelve la clase de la fila según la tabla fija.
// known es false cuando la fila no está en la tabla: en ese caso la clase es STANDARD
// y el llamador debe registrar una advertencia.
func ClassifyRow(row string) (class entity.RowClass, known bool) {
	class, known = rowTable[normalizeRow(row)]
	if !known {
		return entity.RowClassStandard, false
	}
	return class, true
}

// RowFor devuelve la letra de fila asignada a una clase reservada (RETURNS, SAMPLES, REJECTED, PASSAGE).
func RowFor(class entity.RowClass) (string, bool) {
	if class == entity.RowClassStandard {
		return "", false
	}
	for row, c := range rowTable {
		if c == class {
			return row, true
		}
	}
	return "", false
}

// IsSelectable informa si la celda puede ser destino de una asignación.
// Las celdas de pasillo nunca lo son, sin importar su estado.
func IsSelectable(cell *entity.Cell) bool {
	if cell == nil || cell.IsPassage {
		return false
	}
	return cell.Status == entity.CellStatusAvailable
}

// HasRoom informa si la celda admite packages bultos más. Capacity = 0 es sin límite.
func HasRoom(cell *entity.Cell, packages int) bool {
	if cell.Capacity <= 0 {
		return true
	}
	return cell.CurrentUsage+packages <= cell.Capacity
}

// FreeRoom devuelve los bultos libres de la celda; -1 si no tiene límite.
func FreeRoom(cell *entity.Cell) int {
	if cell.Capacity <= 0 {
		return -1
	}
	free := cell.Capacity - cell.CurrentUsage
	if free < 0 {
		return 0
	}
	return free
}

// rowRank ubica una fila en el orden global: 0 para estándar (y no mapeadas),
// 1..n según reservedRowOrder para las demás.
func rowRank(row string) int {
	class, _ := ClassifyRow(row)
	if class == entity.RowClassStandard {
		return 0
	}
	for i, c := range reservedRowOrder {
		if c == class {
			return i + 1
		}
	}
	return len(reservedRowOrder) + 1
}

func rowLess(a, b string) bool {
	ra, rb := rowRank(a), rowRank(b)
	if ra != rb {
		return ra < rb
	}
	return normalizeRow(a) < normalizeRow(b)
}

// SortRows ordena las filas: estándar en orden lexicográfico y luego las reservadas en su
// orden fijo. No modifica el slice de entrada.
func SortRows(rows []string) []string {
	out := make([]string, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return rowLess(out[i], out[j]) })
	return out
}

// SortCells ordena las celdas por fila (según SortRows), bahía y posición. Ordena en sitio.
func SortCells(cells []*entity.Cell) {
	sort.SliceStable(cells, func(i, j int) bool {
		a, b := cells[i], cells[j]
		if normalizeRow(a.Row) != normalizeRow(b.Row) {
			return rowLess(a.Row, b.Row)
		}
		if a.Bay != b.Bay {
			return a.Bay < b.Bay
		}
		return a.Position < b.Position
	})
}

// NewCell construye una celda AVAILABLE con rol y marca de pasillo fijados por su fila.
func NewCell(id, warehouseID, row string, bay, position, capacity int) *entity.Cell {
	class, _ := ClassifyRow(row)
	return &entity.Cell{
		ID:          id,
		WarehouseID: warehouseID,
		Row:         normalizeRow(row),
		Bay:         bay,
		Position:    position,
		Capacity:    capacity,
		Status:      entity.CellStatusAvailable,
		Role:        class,
		IsPassage:   class == entity.RowClassPassage,
	}
}

// Reference devuelve la referencia canónica de la celda.
func Reference(cell *entity.Cell) string {
	return FormatReference(cell.Row, cell.Bay, cell.Position)
}
