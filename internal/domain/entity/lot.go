package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot es un lote de producto recibido con una orden de ingreso.
// ReceivedQuantity es la referencia de la invariante de conservación.
type Lot struct {
	ID               string
	EntryOrderID     string
	EntryOrderNo     string
	Supplier         string
	ProductID        string
	WarehouseID      string
	LotSeries        string
	ExpirationDate   *time.Time
	ReceivedQuantity decimal.Decimal
	ReceivedAt       time.Time
	ReceivedBy       string
}
