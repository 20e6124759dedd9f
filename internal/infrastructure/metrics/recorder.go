package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/wms-core/internal/application/inventory"
)

var _ inventory.Recorder = (*PrometheusRecorder)(nil)

// PrometheusRecorder publica el resultado y la duración de cada operación del almacén.
type PrometheusRecorder struct {
	registry  *prometheus.Registry
	ops       *prometheus.CounterVec
	durations *prometheus.HistogramVec
	shortfall *prometheus.CounterVec
}

// NewPrometheusRecorder registra las métricas en un registry propio (más los colectores de Go y proceso).
func NewPrometheusRecorder() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	r := &PrometheusRecorder{
		registry: reg,
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wms_operations_total",
			Help: "Operaciones del almacén por resultado.",
		}, []string{"operation", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wms_operation_duration_seconds",
			Help:    "Duración de las operaciones del almacén.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		shortfall: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wms_plan_shortfall_total",
			Help: "Planes de despacho que no cubrieron la cantidad pedida.",
		}, []string{"warehouse_id"}),
	}
	reg.MustRegister(
		r.ops, r.durations, r.shortfall,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Observe registra el resultado de una operación.
func (r *PrometheusRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.ops.WithLabelValues(operation, status).Inc()
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

// CountShortfall cuenta un plan con faltante.
func (r *PrometheusRecorder) CountShortfall(_ context.Context, warehouseID string) {
	r.shortfall.WithLabelValues(warehouseID).Inc()
}

// Handler expone el registry en formato texto de Prometheus.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry para tests y para registrar colectores adicionales.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}
