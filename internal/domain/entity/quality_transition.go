package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// QualityTransition es el registro de auditoría de un cambio de estado de calidad.
type QualityTransition struct {
	ID              string
	AllocationID    string
	WarehouseID     string
	NewAllocationID string // vacío en movimientos totales
	FromStatus      QualityStatus
	ToStatus        QualityStatus
	FromCellID      string
	ToCellID        string
	MovedQuantity   decimal.Decimal
	MovedWeight     decimal.Decimal
	MovedPackages   int
	MovedVolume     decimal.Decimal
	Reason          string
	Notes           string
	Actor           string
	CreatedAt       time.Time
}

// DispatchSelection es una extracción propuesta sobre una asignación.
// ExpectedVersion (opcional) es la versión que vio el plan; 0 desactiva la verificación.
type DispatchSelection struct {
	InventoryID      string
	SelectedQuantity decimal.Decimal
	SelectedWeight   decimal.Decimal
	SelectedPackages int
	ExpectedVersion  int64
}
