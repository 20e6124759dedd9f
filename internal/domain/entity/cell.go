package entity

import "time"

// Estados físicos de una celda.
const (
	CellStatusAvailable = "AVAILABLE" // libre para asignar
	CellStatusOccupied  = "OCCUPIED"  // tiene mercadería
	CellStatusDamaged   = "DAMAGED"   // fuera de servicio
	CellStatusExpired   = "EXPIRED"   // bloqueada por vencimiento
)

// RowClass clasifica una fila del almacén según su rol.
type RowClass string

const (
	RowClassStandard RowClass = "STANDARD"
	RowClassPassage  RowClass = "PASSAGE"
	RowClassReturns  RowClass = "RETURNS"
	RowClassSamples  RowClass = "SAMPLES"
	RowClassRejected RowClass = "REJECTED"
)

// Cell representa una posición física direccionable (fila/bahía/posición) dentro de un almacén.
// Capacity y CurrentUsage se expresan en bultos; Capacity = 0 significa sin límite.
type Cell struct {
	ID           string
	WarehouseID  string
	Row          string
	Bay          int
	Position     int
	Capacity     int
	CurrentUsage int
	Status       string
	Role         RowClass
	IsPassage    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
