package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Module provides the Prometheus metrics instruments.
var Module = fx.Provide(NewMetrics)

// Metrics exposes Prometheus observability primitives for invoicing.
type Metrics struct {
	invoicesCreated  prometheus.Counter
	invoicesRejected *prometheus.CounterVec
	invoiceTotal     prometheus.Histogram
}

// NewMetrics registers and returns Prometheus metrics for telemetry.
func NewMetrics() *Metrics {
	invoicesCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "facturo_invoices_created_total",
		Help: "Counts invoices successfully persisted.",
	})

	invoicesRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "facturo_invoices_rejected_total",
		Help: "Counts invoice creation rejections by reason.",
	}, []string{"reason"})

	invoiceTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "facturo_invoice_total_cents",
		Help:    "Grand totals of persisted invoices, in cents.",
		Buckets: prometheus.ExponentialBuckets(100, 4, 10),
	})

	prometheus.MustRegister(invoicesCreated, invoicesRejected, invoiceTotal)

	return &Metrics{
		invoicesCreated:  invoicesCreated,
		invoicesRejected: invoicesRejected,
		invoiceTotal:     invoiceTotal,
	}
}

// InvoiceCreated records a persisted invoice and its grand total.
func (m *Metrics) InvoiceCreated(totalCents int64) {
	if m == nil {
		return
	}
	m.invoicesCreated.Inc()
	m.invoiceTotal.Observe(float64(totalCents))
}

// InvoiceRejected records a creation attempt aborted before persistence.
func (m *Metrics) InvoiceRejected(reason string) {
	if m == nil {
		return
	}
	m.invoicesRejected.WithLabelValues(reason).Inc()
}
