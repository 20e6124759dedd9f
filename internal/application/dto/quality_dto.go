package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransitionRequest body para POST /api/quality/transitions.
// destination_cell_id es obligatorio para RETURNS, SAMPLES y REJECTED.
type TransitionRequest struct {
	AllocationID      string          `json:"allocation_id"`
	Target            string          `json:"target"`
	Quantity          decimal.Decimal `json:"quantity"`
	Weight            decimal.Decimal `json:"weight"`
	Packages          int             `json:"packages"`
	Volume            decimal.Decimal `json:"volume"`
	DestinationCellID string          `json:"destination_cell_id,omitempty"`
	Reason            string          `json:"reason,omitempty"`
	Notes             string          `json:"notes,omitempty"`
}

// BulkTransitionRequest body para POST /api/quality/transitions/bulk.
type BulkTransitionRequest struct {
	Items []TransitionRequest `json:"items"`
}

// TransitionResponse asignaciones vivas tras la transición.
type TransitionResponse struct {
	AuditID     string               `json:"audit_id"`
	Full        bool                 `json:"full"`
	Allocations []AllocationResponse `json:"allocations"`
}

// BulkItemResponse resultado de un elemento; status es "ok" o "error".
type BulkItemResponse struct {
	AllocationID string              `json:"allocation_id"`
	Status       string              `json:"status"`
	Result       *TransitionResponse `json:"result,omitempty"`
	Error        *ErrorResponse      `json:"error,omitempty"`
}

// BulkTransitionResponse resultados por elemento, en el orden recibido.
type BulkTransitionResponse struct {
	Applied int                `json:"applied"`
	Failed  int                `json:"failed"`
	Items   []BulkItemResponse `json:"items"`
}

// QualityTransitionResponse registro de auditoría.
type QualityTransitionResponse struct {
	ID              string          `json:"id"`
	AllocationID    string          `json:"allocation_id"`
	NewAllocationID string          `json:"new_allocation_id,omitempty"`
	FromStatus      string          `json:"from_status"`
	ToStatus        string          `json:"to_status"`
	FromCellID      string          `json:"from_cell_id"`
	ToCellID        string          `json:"to_cell_id"`
	MovedQuantity   decimal.Decimal `json:"moved_quantity"`
	MovedWeight     decimal.Decimal `json:"moved_weight"`
	MovedPackages   int             `json:"moved_packages"`
	MovedVolume     decimal.Decimal `json:"moved_volume"`
	Reason          string          `json:"reason,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Actor           string          `json:"actor"`
	CreatedAt       time.Time       `json:"created_at"`
}
