package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento sobre asignaciones.
const (
	MovementTypeReceipt  = "RECEIPT"  // ingreso de mercadería
	MovementTypeDispatch = "DISPATCH" // salida por despacho
)

// Movement registra un cambio en la cantidad total de un lote (ingresos y despachos).
// Las transiciones de calidad no cambian el total y se auditan aparte.
type Movement struct {
	ID            string
	TransactionID string
	LotID         string
	AllocationID  string
	ProductID     string
	WarehouseID   string
	CellID        string
	Type          string
	Quantity      decimal.Decimal // positivo ingreso, negativo despacho
	Weight        decimal.Decimal
	Packages      int
	Reference     string
	Date          time.Time
	CreatedBy     string
}
