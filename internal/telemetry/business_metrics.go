package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for invoicing activity.
// Counters carry a business_id label for per-business dashboards.
// A nil *BusinessMetrics is valid and records nothing.
type BusinessMetrics struct {
	// Invoices
	InvoicesCreated *prometheus.CounterVec
	InvoicesPaid    *prometheus.CounterVec
	InvoicesVoided  *prometheus.CounterVec
	InvoiceValue    *prometheus.HistogramVec

	// Documents
	DocumentsRendered *prometheus.CounterVec
	RenderDuration    *prometheus.HistogramVec
	DocumentCache     *prometheus.CounterVec

	// Delivery notes
	DeliveriesCreated *prometheus.CounterVec

	// Accounts
	Signups     prometheus.Counter
	Logins      prometheus.Counter
	LoginFailed prometheus.Counter

	// Email delivery
	EmailSent   *prometheus.CounterVec
	EmailFailed *prometheus.CounterVec
}

// NewBusinessMetrics creates the metrics and registers them with reg
// (prometheus.DefaultRegisterer when nil).
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "fakturo"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	subsystem := "business"

	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, labels)
	}

	return &BusinessMetrics{
		InvoicesCreated: counter("invoices_created_total", "Total invoices created", "business_id"),
		InvoicesPaid:    counter("invoices_paid_total", "Total invoices marked paid", "business_id"),
		InvoicesVoided:  counter("invoices_voided_total", "Total invoices voided", "business_id"),
		InvoiceValue: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "invoice_grand_total",
			Help:      "Grand total of created invoices in the invoice currency",
			Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 50000},
		}, []string{"currency"}),

		DocumentsRendered: counter("documents_rendered_total", "Total PDFs rendered", "template", "language"),
		RenderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "document_render_duration_seconds",
			Help:      "PDF render latency including QR encoding",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"template"}),
		DocumentCache: counter("document_cache_total", "Rendered document cache lookups", "result"),

		DeliveriesCreated: counter("deliveries_created_total", "Total delivery notes created", "business_id"),

		Signups: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "signups_total", Help: "Total business registrations",
		}),
		Logins: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "logins_total", Help: "Total successful logins",
		}),
		LoginFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "login_failed_total", Help: "Total rejected logins",
		}),

		EmailSent:   counter("emails_sent_total", "Total emails sent", "type"),
		EmailFailed: counter("emails_failed_total", "Total emails that failed to send", "type"),
	}
}

func (m *BusinessMetrics) InvoiceCreated(businessID, currency string, grandTotal float64) {
	if m == nil {
		return
	}
	m.InvoicesCreated.WithLabelValues(businessID).Inc()
	m.InvoiceValue.WithLabelValues(currency).Observe(grandTotal)
}

func (m *BusinessMetrics) InvoicePaid(businessID string) {
	if m == nil {
		return
	}
	m.InvoicesPaid.WithLabelValues(businessID).Inc()
}

func (m *BusinessMetrics) InvoiceVoided(businessID string) {
	if m == nil {
		return
	}
	m.InvoicesVoided.WithLabelValues(businessID).Inc()
}

func (m *BusinessMetrics) DocumentRendered(template, language string, d time.Duration) {
	if m == nil {
		return
	}
	m.DocumentsRendered.WithLabelValues(template, language).Inc()
	m.RenderDuration.WithLabelValues(template).Observe(d.Seconds())
}

// CacheLookup records a document cache hit or miss.
func (m *BusinessMetrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.DocumentCache.WithLabelValues(result).Inc()
}

func (m *BusinessMetrics) DeliveryCreated(businessID string) {
	if m == nil {
		return
	}
	m.DeliveriesCreated.WithLabelValues(businessID).Inc()
}

func (m *BusinessMetrics) Signup() {
	if m == nil {
		return
	}
	m.Signups.Inc()
}

func (m *BusinessMetrics) Login(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.Logins.Inc()
	} else {
		m.LoginFailed.Inc()
	}
}

// Email records the outcome of sending one message of kind.
func (m *BusinessMetrics) Email(kind string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.EmailFailed.WithLabelValues(kind).Inc()
		return
	}
	m.EmailSent.WithLabelValues(kind).Inc()
}
