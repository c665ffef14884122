package api

import (
	"net/http"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/handler"
)

// BusinessHandler serves the signed-in business profile and branding.
type BusinessHandler struct {
	service domain.BusinessService
}

func NewBusinessHandler(service domain.BusinessService) *BusinessHandler {
	return &BusinessHandler{service: service}
}

// Get handles GET /api/business
func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, b)
}

// Update handles PUT /api/business
func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateBusinessParams
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	b, err := h.service.Update(r.Context(), req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, b)
}

// UpdateInvoiceSettings handles PUT /api/business/invoice-settings
func (h *BusinessHandler) UpdateInvoiceSettings(w http.ResponseWriter, r *http.Request) {
	var req domain.InvoiceSettings
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	b, err := h.service.UpdateInvoiceSettings(r.Context(), req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, b)
}

// UploadLogo handles POST /api/business/logo (multipart, field "file")
func (h *BusinessHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	upload, file, err := formFile(w, r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	defer file.Close()

	b, err := h.service.UploadLogo(r.Context(), upload)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, b)
}
