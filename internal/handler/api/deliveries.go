package api

import (
	"net/http"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/handler"
)

// DeliveryHandler serves delivery notes.
type DeliveryHandler struct {
	service domain.DeliveryService
}

func NewDeliveryHandler(service domain.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{service: service}
}

type notesRequest struct {
	Notes string `json:"notes" validate:"max=5000"`
}

// List handles GET /api/deliveries
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := handler.ListParams(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	notes, err := h.service.List(r.Context(), params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if notes == nil {
		notes = []*domain.DeliveryNote{}
	}
	handler.JSON(w, http.StatusOK, notes)
}

// Create handles POST /api/deliveries. Member invoices are marked shipped.
func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDeliveryParams
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	view, err := h.service.Create(r.Context(), req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusCreated, view)
}

// Get handles GET /api/deliveries/{id}
func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	view, err := h.service.Get(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, view)
}

// UpdateNotes handles PUT /api/deliveries/{id}/notes
func (h *DeliveryHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req notesRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	note, err := h.service.UpdateNotes(r.Context(), id, req.Notes)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, note)
}

// RemoveInvoice handles DELETE /api/deliveries/{id}/invoices/{invoiceID}
func (h *DeliveryHandler) RemoveInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	invoiceID, err := handler.PathUUID(r, "invoiceID")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	note, err := h.service.RemoveInvoice(r.Context(), id, invoiceID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, note)
}

// Delete handles DELETE /api/deliveries/{id}
func (h *DeliveryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.NoContent(w)
}
