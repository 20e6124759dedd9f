package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/wms-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback: ningún cambio queda aplicado.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}

// Recorder registra el resultado y la duración de cada operación del motor.
type Recorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
	// CountShortfall se invoca cada vez que un plan FIFO no cubre lo solicitado.
	CountShortfall(ctx context.Context, warehouseID string)
}

// Nombres de operación usados en métricas y logs.
const (
	OpReceive        = "receive"
	OpPlan           = "dispatch_plan"
	OpCommit         = "dispatch_commit"
	OpTransition     = "quality_transition"
	OpBulkTransition = "quality_transition_bulk"
	OpCreateLayout   = "create_layout"
)

// NopRecorder descarta las métricas.
type NopRecorder struct{}

func (NopRecorder) Observe(context.Context, string, bool, time.Duration) {}
func (NopRecorder) CountShortfall(context.Context, string)               {}

func observe(ctx context.Context, rec Recorder, op string, start time.Time, err *error) {
	rec.Observe(ctx, op, *err == nil, time.Since(start))
}
