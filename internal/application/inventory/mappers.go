package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-core/internal/application/dto"
	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/fifo"
	"github.com/jhoicas/wms-core/internal/domain/quality"
	"github.com/jhoicas/wms-core/internal/domain/warehouse"
)

func ToAllocationResponse(a *entity.InventoryAllocation) dto.AllocationResponse {
	return dto.AllocationResponse{
		ID:              a.ID,
		LotID:           a.LotID,
		ProductID:       a.ProductID,
		WarehouseID:     a.WarehouseID,
		EntryOrderID:    a.EntryOrderID,
		LotSeries:       a.LotSeries,
		CellID:          a.CellID,
		CellRef:         a.CellRef,
		Quantity:        a.Quantity,
		PackageQuantity: a.PackageQuantity,
		Weight:          a.Weight,
		Volume:          a.Volume,
		QualityStatus:   string(a.QualityStatus),
		AllocatedAt:     a.AllocatedAt,
		AllocatedBy:     a.AllocatedBy,
		Version:         a.Version,
	}
}

func ToAllocationResponses(list []*entity.InventoryAllocation) []dto.AllocationResponse {
	out := make([]dto.AllocationResponse, 0, len(list))
	for _, a := range list {
		out = append(out, ToAllocationResponse(a))
	}
	return out
}

func ToLotResponse(l *entity.Lot) dto.LotResponse {
	return dto.LotResponse{
		ID:               l.ID,
		EntryOrderID:     l.EntryOrderID,
		EntryOrderNo:     l.EntryOrderNo,
		Supplier:         l.Supplier,
		ProductID:        l.ProductID,
		WarehouseID:      l.WarehouseID,
		LotSeries:        l.LotSeries,
		ExpirationDate:   l.ExpirationDate,
		ReceivedQuantity: l.ReceivedQuantity,
		ReceivedAt:       l.ReceivedAt,
		ReceivedBy:       l.ReceivedBy,
	}
}

func ToLotBalanceResponse(b *LotBalance) dto.LotBalanceResponse {
	byStatus := make(map[string]decimal.Decimal, len(b.ByStatus))
	for s, q := range b.ByStatus {
		byStatus[string(s)] = q
	}
	return dto.LotBalanceResponse{
		LotID:       b.LotID,
		LotSeries:   b.LotSeries,
		Received:    b.Received,
		Live:        b.Live,
		Dispatched:  b.Dispatched,
		Balanced:    b.Balanced,
		Allocations: b.Allocations,
		ByStatus:    byStatus,
	}
}

func ToPlanResponse(p fifo.PlanResult) dto.DispatchPlanResponse {
	out := dto.DispatchPlanResponse{
		Lines:              make([]dto.DispatchPlanLineResponse, 0, len(p.Lines)),
		Requested:          p.Requested,
		Allocated:          p.Allocated,
		Shortfall:          p.Shortfall,
		PartialFulfillment: p.PartialFulfillment,
	}
	for _, l := range p.Lines {
		out.Lines = append(out.Lines, dto.DispatchPlanLineResponse{
			AllocationID:      l.AllocationID,
			Version:           l.Version,
			CellRef:           l.CellRef,
			EntryOrderNo:      l.EntryOrderNo,
			LotSeries:         l.LotSeries,
			Supplier:          l.Supplier,
			ExpirationDate:    l.ExpirationDate,
			AllocatedQuantity: l.AllocatedQuantity,
			SuggestedWeight:   l.SuggestedWeight,
			SuggestedPackages: l.SuggestedPackages,
		})
	}
	return out
}

func ToTransitionResponse(r *TransitionResult) *dto.TransitionResponse {
	return &dto.TransitionResponse{
		AuditID:     r.AuditID,
		Full:        r.Full,
		Allocations: ToAllocationResponses(r.Allocations),
	}
}

func ToQualityTransitionResponses(list []*entity.QualityTransition) []dto.QualityTransitionResponse {
	out := make([]dto.QualityTransitionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.QualityTransitionResponse{
			ID:              t.ID,
			AllocationID:    t.AllocationID,
			NewAllocationID: t.NewAllocationID,
			FromStatus:      string(t.FromStatus),
			ToStatus:        string(t.ToStatus),
			FromCellID:      t.FromCellID,
			ToCellID:        t.ToCellID,
			MovedQuantity:   t.MovedQuantity,
			MovedWeight:     t.MovedWeight,
			MovedPackages:   t.MovedPackages,
			MovedVolume:     t.MovedVolume,
			Reason:          t.Reason,
			Notes:           t.Notes,
			Actor:           t.Actor,
			CreatedAt:       t.CreatedAt,
		})
	}
	return out
}

func ToWarehouseResponse(w *entity.Warehouse) dto.WarehouseResponse {
	return dto.WarehouseResponse{ID: w.ID, Name: w.Name, Address: w.Address, CreatedAt: w.CreatedAt}
}

func ToCellResponse(c *entity.Cell) dto.CellResponse {
	return dto.CellResponse{
		ID:           c.ID,
		Reference:    warehouse.Reference(c),
		Row:          c.Row,
		Bay:          c.Bay,
		Position:     c.Position,
		Capacity:     c.Capacity,
		CurrentUsage: c.CurrentUsage,
		Status:       c.Status,
		Role:         string(c.Role),
		IsPassage:    c.IsPassage,
		Selectable:   warehouse.IsSelectable(c),
	}
}

func ToCellResponses(list []*entity.Cell) []dto.CellResponse {
	out := make([]dto.CellResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToCellResponse(c))
	}
	return out
}

func ToWarehouseMapResponse(warehouseID string, rows []RowMap) dto.WarehouseMapResponse {
	out := dto.WarehouseMapResponse{WarehouseID: warehouseID, Rows: make([]dto.RowMapResponse, 0, len(rows))}
	for _, r := range rows {
		out.Rows = append(out.Rows, dto.RowMapResponse{
			Row:   r.Row,
			Class: string(r.Class),
			Known: r.Known,
			Cells: ToCellResponses(r.Cells),
		})
	}
	return out
}

func ToDestinationResponse(target entity.QualityStatus, p fifo.DestinationPlan) dto.DestinationSuggestionResponse {
	out := dto.DestinationSuggestionResponse{
		Target:    string(target),
		Lines:     make([]dto.DestinationLineResponse, 0, len(p.Lines)),
		Requested: p.Requested,
		Shortfall: p.Shortfall,
	}
	if class, ok := quality.RequiredRowClass(target); ok {
		out.Row, _ = warehouse.RowFor(class)
	}
	for _, l := range p.Lines {
		out.Lines = append(out.Lines, dto.DestinationLineResponse{CellID: l.CellID, CellRef: l.CellRef, Packages: l.Packages})
	}
	return out
}
