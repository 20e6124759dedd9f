package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// QualityStatus estado de calidad de una asignación (no es global al lote).
type QualityStatus string

const (
	QualityQuarantine QualityStatus = "QUARANTINE" // estado inicial al recibir
	QualityApproved   QualityStatus = "APPROVED"
	QualityReturns    QualityStatus = "RETURNS"
	QualitySamples    QualityStatus = "SAMPLES"
	QualityRejected   QualityStatus = "REJECTED"
)

// Valid informa si el estado pertenece al ciclo de vida conocido.
func (s QualityStatus) Valid() bool {
	switch s {
	case QualityQuarantine, QualityApproved, QualityReturns, QualitySamples, QualityRejected:
		return true
	}
	return false
}

// Measures agrupa las cuatro magnitudes que viajan juntas cuando se mueve parte de un lote.
type Measures struct {
	Quantity decimal.Decimal
	Weight   decimal.Decimal
	Packages int
	Volume   decimal.Decimal
}

// IsZero es verdadero cuando las cuatro magnitudes son cero.
func (m Measures) IsZero() bool {
	return m.Quantity.IsZero() && m.Weight.IsZero() && m.Packages == 0 && m.Volume.IsZero()
}

// Sub resta o de m magnitud por magnitud.
func (m Measures) Sub(o Measures) Measures {
	return Measures{
		Quantity: m.Quantity.Sub(o.Quantity),
		Weight:   m.Weight.Sub(o.Weight),
		Packages: m.Packages - o.Packages,
		Volume:   m.Volume.Sub(o.Volume),
	}
}

// InventoryAllocation es la ubicación de una cantidad de un lote de producto en una celda.
// Version se incrementa en cada actualización (control optimista de concurrencia).
type InventoryAllocation struct {
	ID              string
	LotID           string
	ProductID       string
	WarehouseID     string
	EntryOrderID    string
	LotSeries       string
	CellID          string
	CellRef         string
	Quantity        decimal.Decimal
	PackageQuantity int
	Weight          decimal.Decimal
	Volume          decimal.Decimal
	QualityStatus   QualityStatus
	AllocatedAt     time.Time
	AllocatedBy     string
	Version         int64
	UpdatedAt       time.Time
}

// Measures devuelve las magnitudes actuales de la asignación.
func (a *InventoryAllocation) Measures() Measures {
	return Measures{Quantity: a.Quantity, Weight: a.Weight, Packages: a.PackageQuantity, Volume: a.Volume}
}

// SetMeasures reemplaza las magnitudes de la asignación.
func (a *InventoryAllocation) SetMeasures(m Measures) {
	a.Quantity = m.Quantity
	a.Weight = m.Weight
	a.PackageQuantity = m.Packages
	a.Volume = m.Volume
}

// IsDepleted indica que la asignación ya no tiene cantidad, peso ni bultos y debe eliminarse.
func (a *InventoryAllocation) IsDepleted() bool {
	return a.Quantity.IsZero() && a.Weight.IsZero() && a.PackageQuantity == 0
}

// FIFOCandidate es la proyección de solo lectura que usa el planificador de despacho.
// Se deriva de inventory_allocations + lots y nunca se persiste.
type FIFOCandidate struct {
	AllocationID      string
	Version           int64
	CellRef           string
	EntryOrderNo      string
	LotSeries         string
	Supplier          string
	ExpirationDate    *time.Time
	AllocatedAt       time.Time
	AvailableQuantity decimal.Decimal
	AvailableWeight   decimal.Decimal
	AvailablePackages int
}
