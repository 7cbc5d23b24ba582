// Package metrics expone contadores del ledger y del servidor HTTP en formato Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventory-predictor/internal/application/ports"
)

var _ ports.LedgerMetrics = (*Registry)(nil)

const namespace = "inventory"

// HubStats lo que el registro lee del hub de notificaciones.
type HubStats interface {
	Clients() int
	Dropped() int64
}

// Registry registro propio (no el global) con las métricas de la aplicación.
type Registry struct {
	registry *prometheus.Registry

	movements        *prometheus.CounterVec
	statusChanges    *prometheus.CounterVec
	alertTransitions *prometheus.CounterVec
	sales            *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New crea el registro con los colectores de runtime de Go y de proceso.
func New() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.movements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "movements_total",
		Help:      "Stock movements applied, by movement type.",
	}, []string{"kind"})

	r.statusChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_changes_total",
		Help:      "Stock status transitions caused by movements or threshold edits.",
	}, []string{"from", "to"})

	r.alertTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alert_transitions_total",
		Help:      "Alerts opened or resolved by the ledger.",
	}, []string{"transition"})

	r.sales = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_transactions_total",
		Help:      "Sales transactions recorded, by transaction type.",
	}, []string{"type"})

	r.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served.",
	}, []string{"method", "route", "status"})

	r.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	r.registry.MustRegister(
		r.movements, r.statusChanges, r.alertTransitions, r.sales,
		r.httpRequests, r.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// WatchHub publica clientes conectados y mensajes descartados del hub.
func (r *Registry) WatchHub(h HubStats) {
	r.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "clients",
			Help:      "Connected push clients.",
		}, func() float64 { return float64(h.Clients()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "dropped_total",
			Help:      "Notifications dropped because a client queue was full.",
		}, func() float64 { return float64(h.Dropped()) }),
	)
}

func (r *Registry) MovementApplied(kind string) { r.movements.WithLabelValues(kind).Inc() }

func (r *Registry) StatusChanged(from, to string) { r.statusChanges.WithLabelValues(from, to).Inc() }

func (r *Registry) AlertTransition(transition string) {
	r.alertTransitions.WithLabelValues(transition).Inc()
}

func (r *Registry) SaleRecorded(transactionType string) {
	r.sales.WithLabelValues(transactionType).Inc()
}

// ObserveRequest registra una petición HTTP. route es el patrón (/api/v1/inventory/:id), no la URL.
func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler endpoint de scraping.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer acceso de solo lectura (tests).
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }
