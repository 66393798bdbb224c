package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sarchlab/wavesim/sim"
)

// MetricsHook counts what a domain records and exports the counts in the
// Prometheus format.
type MetricsHook struct {
	registry *prometheus.Registry

	samples     *prometheus.CounterVec
	ticks       prometheus.Counter
	virtualTime prometheus.Gauge
}

// NewMetricsHook creates a MetricsHook with its own registry.
func NewMetricsHook() *MetricsHook {
	h := &MetricsHook{
		registry: prometheus.NewRegistry(),
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wavesim_samples_total",
			Help: "Samples recorded, by node label",
		}, []string{"label"}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wavesim_ticks_total",
			Help: "Clock ticks completed",
		}),
		virtualTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wavesim_virtual_time",
			Help: "Timestamp of the latest recorded sample",
		}),
	}

	h.registry.MustRegister(h.samples, h.ticks, h.virtualTime)

	return h
}

// Func updates the metrics.
func (h *MetricsHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosSample:
		entry, ok := ctx.Item.(sim.TraceEntry)
		if !ok {
			return
		}

		h.samples.WithLabelValues(entry.Label).Inc()
		h.virtualTime.Set(float64(entry.Time))
	case sim.HookPosAfterTick:
		h.ticks.Inc()
	}
}

// Handler serves the metrics.
func (h *MetricsHook) Handler() http.Handler {
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})
}
