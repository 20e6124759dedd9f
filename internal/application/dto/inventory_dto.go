package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptPlacementRequest cantidad ubicada en una celda al recibir.
type ReceiptPlacementRequest struct {
	CellID   string          `json:"cell_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Weight   decimal.Decimal `json:"weight"`
	Packages int             `json:"packages"`
	Volume   decimal.Decimal `json:"volume"`
}

// ReceiptRequest body para POST /api/inventory/receipts.
type ReceiptRequest struct {
	WarehouseID    string                    `json:"warehouse_id"`
	ProductID      string                    `json:"product_id"`
	EntryOrderID   string                    `json:"entry_order_id,omitempty"`
	EntryOrderNo   string                    `json:"entry_order_no"`
	Supplier       string                    `json:"supplier,omitempty"`
	LotSeries      string                    `json:"lot_series"`
	ExpirationDate *time.Time                `json:"expiration_date,omitempty"`
	Placements     []ReceiptPlacementRequest `json:"placements"`
}

// AllocationResponse salida de una asignación de inventario.
type AllocationResponse struct {
	ID              string          `json:"id"`
	LotID           string          `json:"lot_id"`
	ProductID       string          `json:"product_id"`
	WarehouseID     string          `json:"warehouse_id"`
	EntryOrderID    string          `json:"entry_order_id"`
	LotSeries       string          `json:"lot_series"`
	CellID          string          `json:"cell_id"`
	CellRef         string          `json:"cell_ref"`
	Quantity        decimal.Decimal `json:"quantity"`
	PackageQuantity int             `json:"package_quantity"`
	Weight          decimal.Decimal `json:"weight"`
	Volume          decimal.Decimal `json:"volume"`
	QualityStatus   string          `json:"quality_status"`
	AllocatedAt     time.Time       `json:"allocated_at"`
	AllocatedBy     string          `json:"allocated_by"`
	Version         int64           `json:"version"`
}

// LotResponse salida de un lote recibido.
type LotResponse struct {
	ID               string          `json:"id"`
	EntryOrderID     string          `json:"entry_order_id"`
	EntryOrderNo     string          `json:"entry_order_no"`
	Supplier         string          `json:"supplier,omitempty"`
	ProductID        string          `json:"product_id"`
	WarehouseID      string          `json:"warehouse_id"`
	LotSeries        string          `json:"lot_series"`
	ExpirationDate   *time.Time      `json:"expiration_date,omitempty"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	ReceivedAt       time.Time       `json:"received_at"`
	ReceivedBy       string          `json:"received_by"`
}

// ReceiptResponse lote creado y sus asignaciones en cuarentena.
type ReceiptResponse struct {
	Lot         LotResponse          `json:"lot"`
	Allocations []AllocationResponse `json:"allocations"`
}

// LotBalanceResponse saldo de conservación de un lote.
type LotBalanceResponse struct {
	LotID       string                     `json:"lot_id"`
	LotSeries   string                     `json:"lot_series"`
	Received    decimal.Decimal            `json:"received"`
	Live        decimal.Decimal            `json:"live"`
	Dispatched  decimal.Decimal            `json:"dispatched"`
	Balanced    bool                       `json:"balanced"`
	Allocations int                        `json:"allocations"`
	ByStatus    map[string]decimal.Decimal `json:"by_status"`
}
