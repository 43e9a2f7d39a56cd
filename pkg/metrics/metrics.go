// Package metrics exports explorer activity to Prometheus.
//
// A [Registry] implements the observability hook interfaces, so installing
// it with [Registry.Install] is all that is needed to count loads, frames,
// settles, gestures and exports. [Registry.Handler] serves the metrics
// over HTTP.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/depscope/pkg/buildinfo"
	"github.com/matzehuels/depscope/pkg/observability"
)

// Registry holds all depscope metrics on a private Prometheus registry.
type Registry struct {
	GraphsLoaded   prometheus.Counter
	GraphNodes     prometheus.Gauge
	GraphEdges     prometheus.Gauge
	Ticks          prometheus.Counter
	Energy         prometheus.Gauge
	Settles        prometheus.Counter
	SettleTicks    prometheus.Histogram
	SettleDuration prometheus.Histogram
	Stops          prometheus.Counter

	Gestures     *prometheus.CounterVec
	DragDuration prometheus.Histogram
	ZoomScale    prometheus.Gauge

	Exports        *prometheus.CounterVec
	ExportDuration *prometheus.HistogramVec

	BuildInfo *prometheus.GaugeVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric initialized.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	f := promauto.With(r.registry)

	r.GraphsLoaded = f.NewCounter(prometheus.CounterOpts{
		Name: "depscope_graphs_loaded_total",
		Help: "Graphs installed into a layout simulation",
	})
	r.GraphNodes = f.NewGauge(prometheus.GaugeOpts{
		Name: "depscope_graph_nodes",
		Help: "Nodes in the most recently loaded graph",
	})
	r.GraphEdges = f.NewGauge(prometheus.GaugeOpts{
		Name: "depscope_graph_edges",
		Help: "Simulated edges in the most recently loaded graph",
	})
	r.Ticks = f.NewCounter(prometheus.CounterOpts{
		Name: "depscope_simulation_ticks_total",
		Help: "Physics steps run",
	})
	r.Energy = f.NewGauge(prometheus.GaugeOpts{
		Name: "depscope_simulation_energy",
		Help: "Total kinetic energy after the latest step",
	})
	r.Settles = f.NewCounter(prometheus.CounterOpts{
		Name: "depscope_simulation_settles_total",
		Help: "Times a simulation came to rest",
	})
	r.SettleTicks = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "depscope_simulation_settle_ticks",
		Help:    "Steps from wake-up to rest",
		Buckets: prometheus.ExponentialBuckets(10, 2, 8),
	})
	r.SettleDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "depscope_simulation_settle_duration_seconds",
		Help:    "Wall time from wake-up to rest",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})
	r.Stops = f.NewCounter(prometheus.CounterOpts{
		Name: "depscope_simulation_stops_total",
		Help: "Simulations torn down",
	})

	r.Gestures = f.NewCounterVec(prometheus.CounterOpts{
		Name: "depscope_gestures_total",
		Help: "Recognized pointer gestures",
	}, []string{"kind"}) // click, double_click, drag
	r.DragDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "depscope_drag_duration_seconds",
		Help:    "Duration of node drags",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5},
	})
	r.ZoomScale = f.NewGauge(prometheus.GaugeOpts{
		Name: "depscope_zoom_scale",
		Help: "Current camera scale",
	})

	r.Exports = f.NewCounterVec(prometheus.CounterOpts{
		Name: "depscope_exports_total",
		Help: "Static exports by format and status",
	}, []string{"format", "status"})
	r.ExportDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "depscope_export_duration_seconds",
		Help:    "Static export latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"format"})

	r.BuildInfo = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "depscope_build_info",
		Help: "Build metadata; always 1",
	}, []string{"version", "commit", "go_version"})
	info := buildinfo.Get()
	r.BuildInfo.WithLabelValues(info.Version, info.Commit, info.GoVersion).Set(1)

	return r
}

// Prometheus returns the underlying Prometheus registry.
func (r *Registry) Prometheus() *prometheus.Registry { return r.registry }

// Install registers r as the global simulation, interaction and export
// hooks.
func (r *Registry) Install() {
	observability.SetSimulationHooks(r)
	observability.SetInteractionHooks(r)
	observability.SetExportHooks(r)
}

func (r *Registry) OnLoad(_ string, nodes, edges int) {
	r.GraphsLoaded.Inc()
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

func (r *Registry) OnTick(_ string, _ int, energy float64) {
	r.Ticks.Inc()
	r.Energy.Set(energy)
}

func (r *Registry) OnSettle(_ string, ticks int, energy float64, elapsed time.Duration) {
	r.Settles.Inc()
	r.Energy.Set(energy)
	r.SettleTicks.Observe(float64(ticks))
	r.SettleDuration.Observe(elapsed.Seconds())
}

func (r *Registry) OnStop(string) { r.Stops.Inc() }

func (r *Registry) OnClick(string) { r.Gestures.WithLabelValues("click").Inc() }

func (r *Registry) OnDoubleClick(string) { r.Gestures.WithLabelValues("double_click").Inc() }

func (r *Registry) OnDragEnd(_ string, d time.Duration) {
	r.Gestures.WithLabelValues("drag").Inc()
	r.DragDuration.Observe(d.Seconds())
}

func (r *Registry) OnZoom(scale float64) { r.ZoomScale.Set(scale) }

func (r *Registry) OnExportStart(context.Context, string, int) {}

func (r *Registry) OnExportComplete(_ context.Context, format string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.Exports.WithLabelValues(format, status).Inc()
	r.ExportDuration.WithLabelValues(format).Observe(d.Seconds())
}

// Handler serves /metrics and /healthz.
func (r *Registry) Handler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// Serve listens on addr until ctx is cancelled.
func (r *Registry) Serve(ctx context.Context, addr string, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if logger != nil {
		logger.Info("serving metrics", "addr", addr)
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
