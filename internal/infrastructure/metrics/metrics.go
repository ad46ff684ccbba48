package metrics

import (
	"net/http"

	"bloodbank-inventory/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bloodbank"

// Result labels
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics holds the inventory collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	lowStockThreshold int

	issuances   *prometheus.CounterVec
	collections *prometheus.CounterVec
	transitions *prometheus.CounterVec
	stockUnits  *prometheus.GaugeVec
	lowStock    *prometheus.GaugeVec
}

// New creates a registry with process collectors plus the inventory metrics
func New(lowStockThreshold int) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry:          reg,
		lowStockThreshold: lowStockThreshold,
		issuances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "issuances_total",
			Help:      "Blood bag issuance attempts by result.",
		}, []string{"result"}),
		collections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collections_total",
			Help:      "Recorded blood collections by result.",
		}, []string{"result"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bag_transitions_total",
			Help:      "Committed bag status transitions.",
		}, []string{"from", "to"}),
		stockUnits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stock_available_units",
			Help:      "Available units per blood group as of the last committed recount.",
		}, []string{"blood_group"}),
		lowStock: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stock_low",
			Help:      "1 when the blood group is below the low-stock threshold.",
		}, []string{"blood_group"}),
	}

	reg.MustRegister(m.issuances, m.collections, m.transitions, m.stockUnits, m.lowStock)
	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveIssuance(err error) {
	if m == nil {
		return
	}
	m.issuances.WithLabelValues(resultLabel(err)).Inc()
}

func (m *Metrics) ObserveCollection(err error) {
	if m == nil {
		return
	}
	m.collections.WithLabelValues(resultLabel(err)).Inc()
}

func (m *Metrics) ObserveTransition(from, to entity.BagStatus) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(from), string(to)).Inc()
}

// ObserveStock publishes a committed summary row
func (m *Metrics) ObserveStock(summary *entity.StockSummary) {
	if m == nil || summary == nil {
		return
	}
	group := string(summary.BloodGroup)
	m.stockUnits.WithLabelValues(group).Set(float64(summary.Units))
	low := 0.0
	if summary.IsLow(m.lowStockThreshold) {
		low = 1
	}
	m.lowStock.WithLabelValues(group).Set(low)
}

func resultLabel(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}
