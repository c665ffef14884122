package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/email"
	"github.com/dukerupert/fakturo/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env.Error
}

func TestErrorResponse_StatusAndCode(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "invoice not found",
			err:     domain.NotFound("invoice.get", "invoice", "abc"),
			status:  http.StatusNotFound,
			code:    domain.ENOTFOUND,
			message: "invoice not found: abc",
		},
		{
			name:    "paid invoice edit",
			err:     fmt.Errorf("update: %w", domain.ErrInvoiceLocked),
			status:  http.StatusConflict,
			code:    domain.ECONFLICT,
			message: domain.ErrInvoiceLocked.Message,
		},
		{
			name:    "no line items",
			err:     domain.ErrInvoiceNoItems,
			status:  http.StatusBadRequest,
			code:    domain.EINVALID,
			message: domain.ErrInvoiceNoItems.Message,
		},
		{
			name:   "other business",
			err:    domain.ErrBusinessMismatch,
			status: http.StatusForbidden,
			code:   domain.EFORBIDDEN,
		},
		{
			name:   "missing session",
			err:    domain.ErrSessionRequired,
			status: http.StatusUnauthorized,
			code:   domain.EUNAUTHORIZED,
		},
		{
			name:   "storage rejects image type",
			err:    storage.ErrUnsupportedImage("application/zip"),
			status: http.StatusBadRequest,
			code:   domain.EINVALID,
		},
		{
			name:   "email without recipient",
			err:    email.ErrNoRecipient,
			status: http.StatusBadRequest,
			code:   domain.EINVALID,
		},
		{
			name:    "plain error is internal",
			err:     errors.New("pgx: connection refused 10.0.0.5:5432"),
			status:  http.StatusInternalServerError,
			code:    domain.EINTERNAL,
			message: internalMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
			rec := httptest.NewRecorder()

			ErrorResponse(rec, req, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			body := decodeEnvelope(t, rec)
			assert.Equal(t, tt.code, body.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			}
			assert.NotContains(t, body.Message, "10.0.0.5")
		})
	}
}

func TestErrorResponse_PlainTextForBrowsers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/public/invoices/abc", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	ErrorResponse(rec, req, domain.NotFound("invoice.public", "invoice", "abc"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "invoice not found")
}

func TestValidationErrorResponse(t *testing.T) {
	t.Run("fields are reported", func(t *testing.T) {
		err := domain.NewValidationError("item.create", "name", "This field is required")
		err = domain.AddFieldError(err, "unit_price", "Must be at least 0")

		rec := httptest.NewRecorder()
		ValidationErrorResponse(rec, httptest.NewRequest(http.MethodPost, "/api/items", nil), err)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.Equal(t, domain.EINVALID, body.Code)
		assert.Equal(t, map[string]string{
			"name":       "This field is required",
			"unit_price": "Must be at least 0",
		}, body.Fields)
	})

	t.Run("other errors fall through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ValidationErrorResponse(rec, httptest.NewRequest(http.MethodGet, "/api/clients/1", nil),
			domain.NotFound("client.get", "client", "1"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, decodeEnvelope(t, rec).Fields)
	})
}

func TestShortcutResponses(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter, *http.Request)
		status int
	}{
		{"not found", NotFoundResponse, http.StatusNotFound},
		{"unauthorized", UnauthorizedResponse, http.StatusUnauthorized},
		{"forbidden", ForbiddenResponse, http.StatusForbidden},
		{"internal", func(w http.ResponseWriter, r *http.Request) {
			InternalErrorResponse(w, r, errors.New("boom"))
		}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAcceptsJSON(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		accept      string
		contentType string
		want        bool
	}{
		{name: "api path", path: "/api/invoices", want: true},
		{name: "accept header", path: "/public/invoices/1", accept: "application/json; charset=utf-8", want: true},
		{name: "json body", path: "/public/invoices/1", contentType: "application/json", want: true},
		{name: "json suffix", path: "/public/deliveries/1.json", want: true},
		{name: "browser", path: "/public/invoices/1", accept: "text/html"},
		{name: "bare", path: "/public/invoices/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			assert.Equal(t, tt.want, acceptsJSON(req))
		})
	}
}
