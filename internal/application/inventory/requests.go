package inventory

import (
	"context"

	"github.com/jhoicas/wms-core/internal/application/dto"
	"github.com/jhoicas/wms-core/internal/domain/entity"
)

// ReceiveFromRequest adapta el request HTTP al caso de uso Receive(ctx, ReceiptInput).
func (uc *ReceiptUseCase) ReceiveFromRequest(ctx context.Context, userID string, in dto.ReceiptRequest) (*dto.ReceiptResponse, error) {
	input := ReceiptInput{
		WarehouseID:    in.WarehouseID,
		ProductID:      in.ProductID,
		EntryOrderID:   in.EntryOrderID,
		EntryOrderNo:   in.EntryOrderNo,
		Supplier:       in.Supplier,
		LotSeries:      in.LotSeries,
		ExpirationDate: in.ExpirationDate,
		Actor:          userID,
	}
	for _, p := range in.Placements {
		input.Placements = append(input.Placements, Placement{
			CellID:   p.CellID,
			Quantity: p.Quantity,
			Weight:   p.Weight,
			Packages: p.Packages,
			Volume:   p.Volume,
		})
	}
	res, err := uc.Receive(ctx, input)
	if err != nil {
		return nil, err
	}
	return &dto.ReceiptResponse{
		Lot:         ToLotResponse(res.Lot),
		Allocations: ToAllocationResponses(res.Allocations),
	}, nil
}

// CommitFromRequest adapta el request HTTP al caso de uso Commit(ctx, CommitInput).
func (uc *DispatchUseCase) CommitFromRequest(ctx context.Context, userID, scope string, in dto.CommitDispatchRequest) (*dto.CommitDispatchResponse, error) {
	input := CommitInput{Reference: in.Reference, Actor: userID, Scope: scope}
	for _, s := range in.Selections {
		input.Selections = append(input.Selections, entity.DispatchSelection{
			InventoryID:      s.InventoryID,
			SelectedQuantity: s.SelectedQuantity,
			SelectedWeight:   s.SelectedWeight,
			SelectedPackages: s.SelectedPackages,
			ExpectedVersion:  s.ExpectedVersion,
		})
	}
	res, err := uc.Commit(ctx, input)
	if err != nil {
		return nil, err
	}
	out := &dto.CommitDispatchResponse{
		TransactionID: res.TransactionID,
		Total:         res.Total,
		Lines:         make([]dto.CommitDispatchLineResponse, 0, len(res.Lines)),
	}
	for _, l := range res.Lines {
		out.Lines = append(out.Lines, dto.CommitDispatchLineResponse{
			AllocationID: l.AllocationID,
			CellRef:      l.CellRef,
			Quantity:     l.Quantity,
			Weight:       l.Weight,
			Packages:     l.Packages,
			Depleted:     l.Depleted,
		})
	}
	return out, nil
}

// TransitionInputFromRequest construye la entrada de una transición a partir del body HTTP.
func TransitionInputFromRequest(userID, scope string, in dto.TransitionRequest) TransitionInput {
	return TransitionInput{
		AllocationID:      in.AllocationID,
		Target:            entity.QualityStatus(in.Target),
		Quantity:          in.Quantity,
		Weight:            in.Weight,
		Packages:          in.Packages,
		Volume:            in.Volume,
		DestinationCellID: in.DestinationCellID,
		Reason:            in.Reason,
		Notes:             in.Notes,
		Actor:             userID,
		Scope:             scope,
	}
}

// ExecuteTransitionFromRequest adapta el request HTTP al caso de uso ExecuteTransition.
func (uc *QualityUseCase) ExecuteTransitionFromRequest(ctx context.Context, userID, scope string, in dto.TransitionRequest) (*dto.TransitionResponse, error) {
	res, err := uc.ExecuteTransition(ctx, TransitionInputFromRequest(userID, scope, in))
	if err != nil {
		return nil, err
	}
	return ToTransitionResponse(res), nil
}
