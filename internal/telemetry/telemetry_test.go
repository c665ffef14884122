package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBusinessMetrics("test", reg)

	m.InvoiceCreated("biz-1", "USD", 125.5)
	m.InvoiceCreated("biz-1", "USD", 10)
	m.InvoicePaid("biz-1")
	m.InvoiceVoided("biz-2")
	m.DocumentRendered("receipt", "es", 30*time.Millisecond)
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)
	m.Email("invoice", nil)
	m.Email("invoice", errors.New("smtp down"))
	m.Login(true)
	m.Login(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.InvoicesCreated.WithLabelValues("biz-1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvoicesPaid.WithLabelValues("biz-1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvoicesVoided.WithLabelValues("biz-2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsRendered.WithLabelValues("receipt", "es")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentCache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocumentCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmailSent.WithLabelValues("invoice")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmailFailed.WithLabelValues("invoice")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Logins))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginFailed))
}

func TestBusinessMetrics_Nil(t *testing.T) {
	var m *BusinessMetrics
	assert.NotPanics(t, func() {
		m.InvoiceCreated("b", "USD", 1)
		m.DocumentRendered("classic", "en", time.Second)
		m.CacheLookup(true)
		m.Email("invoice", nil)
		m.Signup()
	})
}

func TestInitSentry_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	flush, err := InitSentry(SentryConfig{Enabled: false}, logger)
	require.NoError(t, err)
	flush()
	assert.False(t, IsEnabled())

	flush, err = InitSentry(SentryConfig{Enabled: true}, logger)
	require.NoError(t, err)
	flush()
	assert.False(t, IsEnabled(), "missing DSN disables capture")

	ctx, finish := StartSpan(context.Background(), "document.render", "classic")
	finish()
	assert.NotNil(t, ctx)
	CaptureErrorFromContext(ctx, errors.New("ignored"), nil)
}

func TestScrubRequest(t *testing.T) {
	req := &sentry.Request{
		URL: "https://api.fakturo.test/api/invoices",
		Headers: map[string]string{
			"authorization": "Bearer eyJhbGciOi",
			"Cookie":        "theme=dark",
			"Accept":        "application/json",
		},
		Cookies: "theme=dark",
		Data:    `{"password":"hunter2"}`,
	}

	scrubRequest(req)

	assert.Equal(t, "[redacted]", req.Headers["authorization"])
	assert.Equal(t, "[redacted]", req.Headers["Cookie"])
	assert.Equal(t, "application/json", req.Headers["Accept"])
	assert.Empty(t, req.Cookies)
	assert.Empty(t, req.Data)
	assert.NotPanics(t, func() { scrubRequest(nil) })
}
