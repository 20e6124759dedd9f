// Package quality contiene la máquina de estados de control de calidad y la primitiva
// de división de lotes que conserva la cantidad total.
package quality

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-core/internal/domain"
	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/warehouse"
)

// transitions: estado actual → destinos permitidos. La capa de datos no impide otras
// transiciones; solo esta tabla las restringe.
var transitions = map[entity.QualityStatus][]entity.QualityStatus{
	entity.QualityQuarantine: {
		entity.QualityApproved,
		entity.QualityReturns,
		entity.QualitySamples,
		entity.QualityRejected,
	},
}

// requiredRow: destino → clase de fila exigida para la celda destino.
// APPROVED no figura: la asignación se queda en su celda.
var requiredRow = map[entity.QualityStatus]entity.RowClass{
	entity.QualityReturns:  entity.RowClassReturns,
	entity.QualitySamples:  entity.RowClassSamples,
	entity.QualityRejected: entity.RowClassRejected,
}

// CanTransition informa si from → to está permitido.
func CanTransition(from, to entity.QualityStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AllowedTargets devuelve los destinos permitidos desde from (vacío para estados terminales).
func AllowedTargets(from entity.QualityStatus) []entity.QualityStatus {
	out := make([]entity.QualityStatus, len(transitions[from]))
	copy(out, transitions[from])
	return out
}

func targetList(from entity.QualityStatus) string {
	targets := AllowedTargets(from)
	if len(targets) == 0 {
		return "ninguno"
	}
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// footprint bultos que ocupará la celda destino: en un movimiento total viaja la
// asignación completa, sin importar los bultos informados.
func footprint(a *entity.InventoryAllocation, m entity.Measures) int {
	if m.Quantity.Equal(a.Quantity) {
		return a.PackageQuantity
	}
	return m.Packages
}

// RequiredRowClass devuelve la clase de fila que exige el destino y si exige celda.
func RequiredRowClass(to entity.QualityStatus) (entity.RowClass, bool) {
	class, ok := requiredRow[to]
	return class, ok
}

// Request describe una transición sobre una asignación.
type Request struct {
	Allocation        *entity.InventoryAllocation
	Target            entity.QualityStatus
	Move              entity.Measures
	DestinationCellID string
	Reason            string
	Notes             string
	Actor             string
}

// Validate aplica, en orden, las verificaciones de transición, cantidades, celda requerida,
// celda destino y motivo. destination es la celda cargada para DestinationCellID (nil si no se envió).
func Validate(req Request, destination *entity.Cell) error {
	a := req.Allocation
	if !CanTransition(a.QualityStatus, req.Target) {
		return domain.NewAllocationError(domain.ErrInvalidTransition, a.ID,
			string(a.QualityStatus)+" → "+string(req.Target)+"; permitidos: "+targetList(a.QualityStatus))
	}
	if err := validateAmounts(a, req.Move); err != nil {
		return err
	}

	if class, needsCell := RequiredRowClass(req.Target); needsCell {
		if req.DestinationCellID == "" {
			return domain.NewAllocationError(domain.ErrCellRequired, a.ID, string(req.Target))
		}
		if destination == nil {
			return domain.NewAllocationError(domain.ErrInvalidDestination, a.ID, "celda "+req.DestinationCellID+" no existe")
		}
		if err := validateDestination(a, destination, class, footprint(a, req.Move)); err != nil {
			return err
		}
	}

	if req.Target != entity.QualityApproved && strings.TrimSpace(req.Reason) == "" {
		return domain.NewAllocationError(domain.ErrReasonRequired, a.ID, string(req.Target))
	}
	return nil
}

func validateAmounts(a *entity.InventoryAllocation, m entity.Measures) error {
	if !m.Quantity.IsPositive() || m.Quantity.GreaterThan(a.Quantity) {
		return domain.NewAmountError(domain.ErrInvalidQuantity, a.ID, "quantity", m.Quantity, a.Quantity)
	}
	if !m.Weight.IsPositive() || m.Weight.GreaterThan(a.Weight) {
		return domain.NewAmountError(domain.ErrInvalidQuantity, a.ID, "weight", m.Weight, a.Weight)
	}
	if m.Packages <= 0 || m.Packages > a.PackageQuantity {
		return domain.NewAmountError(domain.ErrInvalidQuantity, a.ID, "packages",
			decimal.NewFromInt(int64(m.Packages)), decimal.NewFromInt(int64(a.PackageQuantity)))
	}
	if m.Volume.IsNegative() || m.Volume.GreaterThan(a.Volume) {
		return domain.NewAmountError(domain.ErrInvalidQuantity, a.ID, "volume", m.Volume, a.Volume)
	}
	return nil
}

func validateDestination(a *entity.InventoryAllocation, cell *entity.Cell, class entity.RowClass, packages int) error {
	ref := warehouse.Reference(cell)
	if !warehouse.IsSelectable(cell) {
		return domain.NewAllocationError(domain.ErrInvalidDestination, a.ID, "celda "+ref+" no seleccionable ("+cell.Status+")")
	}
	if cell.WarehouseID != a.WarehouseID {
		return domain.NewAllocationError(domain.ErrInvalidDestination, a.ID, "celda "+ref+" pertenece a otro almacén")
	}
	if got, _ := warehouse.ClassifyRow(cell.Row); got != class {
		return domain.NewAllocationError(domain.ErrInvalidDestination, a.ID,
			"celda "+ref+" es "+string(got)+", se requiere "+string(class))
	}
	if !warehouse.HasRoom(cell, packages) {
		return domain.NewAllocationError(domain.ErrInvalidDestination, a.ID, "celda "+ref+" sin capacidad")
	}
	return nil
}

// Outcome es el resultado puro de aplicar una transición ya validada.
type Outcome struct {
	Original     *entity.InventoryAllocation // asignación de origen (mutada)
	Created      *entity.InventoryAllocation // nueva asignación en movimientos parciales
	Deleted      bool                        // el origen quedó en cero y debe eliminarse
	Full         bool
	SourceCellID string
	DestCellID   string
	Footprint    int // bultos que cambian de celda
}

// CellChanged informa si la transición cambia la mercadería de celda.
func (o Outcome) CellChanged() bool {
	return o.SourceCellID != o.DestCellID
}

// Affected devuelve las asignaciones vivas que resultan de la transición.
func (o Outcome) Affected() []*entity.InventoryAllocation {
	var out []*entity.InventoryAllocation
	if !o.Deleted {
		out = append(out, o.Original)
	}
	if o.Created != nil {
		out = append(out, o.Created)
	}
	return out
}

// Split aplica la transición sobre la asignación. Si se mueve toda la cantidad la asignación
// cambia de celda y estado en sitio (mismo id); si no, se crea una nueva con lo movido
// (newID) y el origen se descuenta. destination es nil cuando la asignación no cambia de celda.
func Split(req Request, destination *entity.Cell, newID string, now time.Time) Outcome {
	a := req.Allocation
	out := Outcome{Original: a, SourceCellID: a.CellID, DestCellID: a.CellID}
	if destination != nil {
		out.DestCellID = destination.ID
	}

	if req.Move.Quantity.Equal(a.Quantity) {
		out.Full = true
		out.Footprint = a.PackageQuantity
		if destination != nil {
			a.CellID = destination.ID
			a.CellRef = warehouse.Reference(destination)
		}
		a.QualityStatus = req.Target
		a.UpdatedAt = now
		return out
	}

	created := *a
	created.ID = newID
	created.SetMeasures(req.Move)
	created.QualityStatus = req.Target
	created.AllocatedAt = now
	created.AllocatedBy = req.Actor
	created.Version = 1
	created.UpdatedAt = now
	if destination != nil {
		created.CellID = destination.ID
		created.CellRef = warehouse.Reference(destination)
	}

	a.SetMeasures(a.Measures().Sub(req.Move))
	a.UpdatedAt = now

	out.Created = &created
	out.Deleted = a.Measures().IsZero()
	out.Footprint = req.Move.Packages
	return out
}

// AuditRecord construye el registro de auditoría de la transición.
func AuditRecord(id string, req Request, from entity.QualityStatus, out Outcome, now time.Time) *entity.QualityTransition {
	rec := &entity.QualityTransition{
		ID:            id,
		AllocationID:  out.Original.ID,
		WarehouseID:   out.Original.WarehouseID,
		FromStatus:    from,
		ToStatus:      req.Target,
		FromCellID:    out.SourceCellID,
		ToCellID:      out.DestCellID,
		MovedQuantity: req.Move.Quantity,
		MovedWeight:   req.Move.Weight,
		MovedPackages: req.Move.Packages,
		MovedVolume:   req.Move.Volume,
		Reason:        req.Reason,
		Notes:         req.Notes,
		Actor:         req.Actor,
		CreatedAt:     now,
	}
	if out.Full {
		m := out.Original.Measures()
		rec.MovedQuantity, rec.MovedWeight, rec.MovedPackages, rec.MovedVolume = m.Quantity, m.Weight, m.Packages, m.Volume
	}
	if out.Created != nil {
		rec.NewAllocationID = out.Created.ID
	}
	return rec
}
