package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DispatchPlanLineResponse una línea de la propuesta FIFO.
type DispatchPlanLineResponse struct {
	AllocationID      string          `json:"allocation_id"`
	Version           int64           `json:"version"`
	CellRef           string          `json:"cell_ref"`
	EntryOrderNo      string          `json:"entry_order_no"`
	LotSeries         string          `json:"lot_series"`
	Supplier          string          `json:"supplier,omitempty"`
	ExpirationDate    *time.Time      `json:"expiration_date,omitempty"`
	AllocatedQuantity decimal.Decimal `json:"allocated_quantity"`
	SuggestedWeight   decimal.Decimal `json:"suggested_weight"`
	SuggestedPackages int             `json:"suggested_packages"`
}

// DispatchPlanResponse propuesta de despacho. partial_fulfillment indica faltante.
type DispatchPlanResponse struct {
	Lines              []DispatchPlanLineResponse `json:"lines"`
	Requested          decimal.Decimal            `json:"requested"`
	Allocated          decimal.Decimal            `json:"allocated"`
	Shortfall          decimal.Decimal            `json:"shortfall"`
	PartialFulfillment bool                       `json:"partial_fulfillment"`
}

// DispatchSelectionRequest extracción sobre una asignación; expected_version viene del plan.
type DispatchSelectionRequest struct {
	InventoryID      string          `json:"inventory_id"`
	SelectedQuantity decimal.Decimal `json:"selected_quantity"`
	SelectedWeight   decimal.Decimal `json:"selected_weight"`
	SelectedPackages int             `json:"selected_packages"`
	ExpectedVersion  int64           `json:"expected_version,omitempty"`
}

// CommitDispatchRequest body para POST /api/dispatch/commit.
type CommitDispatchRequest struct {
	Selections []DispatchSelectionRequest `json:"selections"`
	Reference  string                     `json:"reference,omitempty"`
}

// CommitDispatchLineResponse resultado por asignación.
type CommitDispatchLineResponse struct {
	AllocationID string          `json:"allocation_id"`
	CellRef      string          `json:"cell_ref"`
	Quantity     decimal.Decimal `json:"quantity"`
	Weight       decimal.Decimal `json:"weight"`
	Packages     int             `json:"packages"`
	Depleted     bool            `json:"depleted"`
}

// CommitDispatchResponse despacho confirmado.
type CommitDispatchResponse struct {
	TransactionID string                       `json:"transaction_id"`
	Lines         []CommitDispatchLineResponse `json:"lines"`
	Total         decimal.Decimal              `json:"total"`
}
