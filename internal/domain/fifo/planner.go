// Package fifo implementa el planificador de despacho por vencimiento más próximo y el
// recorrido equivalente sobre celdas destino para transiciones de calidad.
package fifo

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/warehouse"
)

// PlanLine es una línea del plan: cuánto tomar de una asignación.
// SuggestedWeight y SuggestedPackages son proporcionales a la cantidad tomada.
type PlanLine struct {
	AllocationID      string
	Version           int64
	CellRef           string
	EntryOrderNo      string
	LotSeries         string
	Supplier          string
	ExpirationDate    *time.Time
	AllocatedQuantity decimal.Decimal
	SuggestedWeight   decimal.Decimal
	SuggestedPackages int
}

// PlanResult es la propuesta de despacho. Es solo consultiva: no modifica nada.
// PartialFulfillment es true cuando los candidatos no alcanzan (Shortfall > 0).
type PlanResult struct {
	Lines              []PlanLine
	Requested          decimal.Decimal
	Allocated          decimal.Decimal
	Shortfall          decimal.Decimal
	PartialFulfillment bool
}

// SortCandidates ordena por vencimiento ascendente (sin vencimiento al final),
// luego por fecha de asignación y por último por id para un orden estable.
func SortCandidates(cs []entity.FIFOCandidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		switch {
		case a.ExpirationDate == nil && b.ExpirationDate != nil:
			return false
		case a.ExpirationDate != nil && b.ExpirationDate == nil:
			return true
		case a.ExpirationDate != nil && !a.ExpirationDate.Equal(*b.ExpirationDate):
			return a.ExpirationDate.Before(*b.ExpirationDate)
		}
		if !a.AllocatedAt.Equal(b.AllocatedAt) {
			return a.AllocatedAt.Before(b.AllocatedAt)
		}
		return a.AllocationID < b.AllocationID
	})
}

// Plan recorre los candidatos en orden FIFO tomando min(pendiente, disponible) de cada uno
// hasta cubrir requested o agotar candidatos. Los candidatos sin disponible se ignoran.
// El slice de entrada no se modifica.
func Plan(candidates []entity.FIFOCandidate, requested decimal.Decimal) PlanResult {
	res := PlanResult{Requested: requested, Allocated: decimal.Zero, Shortfall: decimal.Zero}
	if !requested.IsPositive() {
		return res
	}

	sorted := make([]entity.FIFOCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.AvailableQuantity.IsPositive() {
			sorted = append(sorted, c)
		}
	}
	SortCandidates(sorted)

	remaining := requested
	for _, c := range sorted {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, c.AvailableQuantity)
		weight, packages := proportional(c, take)
		res.Lines = append(res.Lines, PlanLine{
			AllocationID:      c.AllocationID,
			Version:           c.Version,
			CellRef:           c.CellRef,
			EntryOrderNo:      c.EntryOrderNo,
			LotSeries:         c.LotSeries,
			Supplier:          c.Supplier,
			ExpirationDate:    c.ExpirationDate,
			AllocatedQuantity: take,
			SuggestedWeight:   weight,
			SuggestedPackages: packages,
		})
		res.Allocated = res.Allocated.Add(take)
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		res.Shortfall = remaining
		res.PartialFulfillment = true
	}
	return res
}

// proportional reparte peso y bultos según la fracción tomada; si se toma todo, todo.
func proportional(c entity.FIFOCandidate, take decimal.Decimal) (decimal.Decimal, int) {
	if take.Equal(c.AvailableQuantity) {
		return c.AvailableWeight, c.AvailablePackages
	}
	ratio := take.Div(c.AvailableQuantity)
	weight := c.AvailableWeight.Mul(ratio).Round(3)
	packages := int(decimal.NewFromInt(int64(c.AvailablePackages)).Mul(ratio).Floor().IntPart())
	return weight, packages
}

// DestinationLine es una celda propuesta y los bultos que recibiría.
type DestinationLine struct {
	CellID   string
	CellRef  string
	Packages int
}

// DestinationPlan es la propuesta de celdas destino para una transición de calidad.
type DestinationPlan struct {
	Lines     []DestinationLine
	Requested int
	Shortfall int
}

// PlanDestinations recorre las celdas seleccionables en el orden del almacén y toma su
// espacio libre hasta cubrir packages bultos. Celdas sin límite absorben todo lo pendiente.
func PlanDestinations(cells []*entity.Cell, packages int) DestinationPlan {
	res := DestinationPlan{Requested: packages}
	if packages <= 0 {
		return res
	}

	sorted := make([]*entity.Cell, 0, len(cells))
	for _, c := range cells {
		if warehouse.IsSelectable(c) {
			sorted = append(sorted, c)
		}
	}
	warehouse.SortCells(sorted)

	remaining := packages
	for _, c := range sorted {
		if remaining == 0 {
			break
		}
		free := warehouse.FreeRoom(c)
		if free == 0 {
			continue
		}
		take := remaining
		if free > 0 && free < take {
			take = free
		}
		res.Lines = append(res.Lines, DestinationLine{CellID: c.ID, CellRef: warehouse.Reference(c), Packages: take})
		remaining -= take
	}
	res.Shortfall = remaining
	return res
}
