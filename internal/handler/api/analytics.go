package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/handler"
)

// AnalyticsHandler serves the dashboard summary and the spreadsheet export.
type AnalyticsHandler struct {
	service domain.AnalyticsService
}

func NewAnalyticsHandler(service domain.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// analyticsRange reads from and to. Zero bounds are defaulted by the service.
func analyticsRange(r *http.Request) (domain.AnalyticsRange, error) {
	var rng domain.AnalyticsRange
	from, err := handler.QueryDate(r, "from", false)
	if err != nil {
		return rng, err
	}
	to, err := handler.QueryDate(r, "to", true)
	if err != nil {
		return rng, err
	}
	if from != nil {
		rng.From = *from
	}
	if to != nil {
		rng.To = *to
	}
	return rng, nil
}

// Summary handles GET /api/invoices/analytics/summary?from=&to=
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	rng, err := analyticsRange(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), rng)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, summary)
}

// Export handles GET /api/invoices/export?from=&to=
func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	rng, err := analyticsRange(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	sheet, err := h.service.Export(r.Context(), rng)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", domain.SpreadsheetContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sheet.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(sheet.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(sheet.Data)
}
