package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-core/internal/domain"
	"github.com/jhoicas/wms-core/internal/domain/entity"
	"github.com/jhoicas/wms-core/internal/domain/quality"
	"github.com/jhoicas/wms-core/internal/domain/repository"
)

// QualityUseCase ejecuta transiciones de control de calidad sobre asignaciones.
type QualityUseCase struct {
	txRunner  TxRunner
	auditRepo repository.QualityAuditRepository
	log       zerolog.Logger
	rec       Recorder
	now       func() time.Time
}

// NewQualityUseCase construye el caso de uso.
func NewQualityUseCase(txRunner TxRunner, auditRepo repository.QualityAuditRepository, log zerolog.Logger, rec Recorder) *QualityUseCase {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &QualityUseCase{txRunner: txRunner, auditRepo: auditRepo, log: log, rec: rec, now: time.Now}
}

// TransitionInput entrada de una transición. DestinationCellID se ignora para APPROVED.
type TransitionInput struct {
	AllocationID      string
	Target            entity.QualityStatus
	Quantity          decimal.Decimal
	Weight            decimal.Decimal
	Packages          int
	Volume            decimal.Decimal
	DestinationCellID string
	Reason            string
	Notes             string
	Actor             string
	Scope             string // almacén al que está limitado el operador; vacío = todos
}

// TransitionResult asignaciones vivas tras la transición y el id del registro de auditoría.
type TransitionResult struct {
	Allocations []*entity.InventoryAllocation
	AuditID     string
	Full        bool
}

// BulkItemResult resultado de un elemento de una transición masiva.
type BulkItemResult struct {
	AllocationID string
	Result       *TransitionResult
	Err          error
}

// ExecuteTransition aplica la transición en una sola transacción: bloquea la asignación y las
// celdas involucradas, valida, divide o mueve, ajusta la ocupación y registra la auditoría.
func (uc *QualityUseCase) ExecuteTransition(ctx context.Context, in TransitionInput) (res *TransitionResult, err error) {
	defer observe(ctx, uc.rec, OpTransition, time.Now(), &err)
	return uc.execute(ctx, in)
}

func (uc *QualityUseCase) execute(ctx context.Context, in TransitionInput) (*TransitionResult, error) {
	if in.AllocationID == "" || in.Actor == "" {
		return nil, domain.ErrInvalidInput
	}
	destID := in.DestinationCellID
	if _, needsCell := quality.RequiredRowClass(in.Target); !needsCell {
		destID = ""
	}

	var res *TransitionResult
	var out quality.Outcome
	var from entity.QualityStatus
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		a, err := repos.Allocations.GetForUpdate(ctx, in.AllocationID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.NewAllocationError(domain.ErrNotFound, in.AllocationID, "asignación inexistente")
		}
		if err := checkScope(a, in.Scope); err != nil {
			return err
		}
		from = a.QualityStatus

		cells, err := lockCells(ctx, repos.Cells, a.CellID, destID)
		if err != nil {
			return err
		}
		var dest *entity.Cell
		if destID != "" {
			dest = cells[destID]
		}

		req := quality.Request{
			Allocation:        a,
			Target:            in.Target,
			Move:              entity.Measures{Quantity: in.Quantity, Weight: in.Weight, Packages: in.Packages, Volume: in.Volume},
			DestinationCellID: destID,
			Reason:            in.Reason,
			Notes:             in.Notes,
			Actor:             in.Actor,
		}
		if err := quality.Validate(req, dest); err != nil {
			return err
		}

		now := uc.now()
		out = quality.Split(req, dest, uuid.New().String(), now)

		if out.Created != nil {
			if err := repos.Allocations.Create(ctx, out.Created); err != nil {
				return err
			}
		}
		if out.Deleted {
			if err := repos.Allocations.Delete(ctx, a.ID); err != nil {
				return err
			}
		} else if err := repos.Allocations.Update(ctx, a); err != nil {
			return err
		}

		if out.CellChanged() {
			if src := cells[out.SourceCellID]; src != nil {
				src.CurrentUsage -= out.Footprint
				if src.CurrentUsage < 0 {
					src.CurrentUsage = 0
				}
				src.UpdatedAt = now
				if err := repos.Cells.UpdateOccupancy(ctx, src); err != nil {
					return err
				}
			}
			dest.CurrentUsage += out.Footprint
			dest.Status = entity.CellStatusOccupied
			dest.UpdatedAt = now
			if err := repos.Cells.UpdateOccupancy(ctx, dest); err != nil {
				return err
			}
		}

		audit := quality.AuditRecord(uuid.New().String(), req, from, out, now)
		if err := repos.Audits.Create(ctx, audit); err != nil {
			return err
		}
		res = &TransitionResult{Allocations: out.Affected(), AuditID: audit.ID, Full: out.Full}
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("allocation_id", in.AllocationID).Str("target", string(in.Target)).Msg("transición rechazada")
		return nil, err
	}

	ev := uc.log.Info().
		Str("allocation_id", in.AllocationID).
		Str("from", string(from)).
		Str("to", string(in.Target)).
		Str("quantity", in.Quantity.String()).
		Bool("full", out.Full).
		Str("actor", in.Actor)
	if out.Created != nil {
		ev = ev.Str("new_allocation_id", out.Created.ID)
	}
	ev.Msg("transición de calidad aplicada")
	return res, nil
}

// lockCells bloquea las celdas indicadas en orden de id. Las vacías se omiten.
func lockCells(ctx context.Context, repo repository.CellRepository, ids ...string) (map[string]*entity.Cell, error) {
	uniq := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		dup := false
		for _, u := range uniq {
			if u == id {
				dup = true
				break
			}
		}
		if !dup {
			uniq = append(uniq, id)
		}
	}
	sort.Strings(uniq)

	out := make(map[string]*entity.Cell, len(uniq))
	for _, id := range uniq {
		c, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = c
	}
	return out, nil
}

// BulkTransition ejecuta cada elemento en su propia transacción. Un fallo no revierte los
// elementos ya confirmados. Si el contexto se cancela, los elementos pendientes reciben ctx.Err().
func (uc *QualityUseCase) BulkTransition(ctx context.Context, items []TransitionInput) []BulkItemResult {
	start := time.Now()
	results := make([]BulkItemResult, len(items))
	ok := 0
	for i, in := range items {
		results[i].AllocationID = in.AllocationID
		if err := ctx.Err(); err != nil {
			for j := i; j < len(items); j++ {
				results[j] = BulkItemResult{AllocationID: items[j].AllocationID, Err: err}
			}
			break
		}
		r, err := uc.ExecuteTransition(ctx, in)
		results[i].Result, results[i].Err = r, err
		if err == nil {
			ok++
		}
	}

	uc.rec.Observe(ctx, OpBulkTransition, ok == len(items), time.Since(start))
	uc.log.Info().
		Int("items", len(items)).
		Int("applied", ok).
		Int("failed", len(items)-ok).
		Msg("transición masiva finalizada")
	return results
}

// History devuelve la auditoría de una asignación, más reciente primero.
// Con scope no vacío, registros de otro almacén devuelven domain.ErrForbidden.
func (uc *QualityUseCase) History(ctx context.Context, allocationID, scope string) ([]*entity.QualityTransition, error) {
	if allocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.auditRepo.ListByAllocation(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	for _, rec := range list {
		if scope != "" && rec.WarehouseID != scope {
			return nil, domain.NewAllocationError(domain.ErrForbidden, allocationID, "la asignación pertenece a otro almacén")
		}
	}
	return list, nil
}
