package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/handler"
)

// InvoiceHandler serves invoice lifecycle, documents and email.
type InvoiceHandler struct {
	invoices  domain.InvoiceService
	documents domain.DocumentService
}

func NewInvoiceHandler(invoices domain.InvoiceService, documents domain.DocumentService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, documents: documents}
}

type paidRequest struct {
	Paid bool `json:"paid"`
}

type deliveryStatusRequest struct {
	Status domain.DeliveryStatus `json:"status" validate:"required,oneof=pending shipped delivered returned"`
}

// invoiceFilter reads paid, deleted, status, client, from, to, limit and
// offset from the query string.
func invoiceFilter(r *http.Request) (domain.InvoiceFilter, error) {
	var f domain.InvoiceFilter
	var err error

	if f.IsPaid, err = handler.QueryBool(r, "paid"); err != nil {
		return f, err
	}
	if f.Deleted, err = handler.QueryBool(r, "deleted"); err != nil {
		return f, err
	}
	if f.IssuedFrom, err = handler.QueryDate(r, "from", false); err != nil {
		return f, err
	}
	if f.IssuedTo, err = handler.QueryDate(r, "to", true); err != nil {
		return f, err
	}
	if f.Limit, err = handler.QueryInt(r, "limit", 0); err != nil {
		return f, err
	}
	if f.Offset, err = handler.QueryInt(r, "offset", 0); err != nil {
		return f, err
	}
	q := r.URL.Query()
	f.DeliveryStatus = domain.DeliveryStatus(q.Get("status"))
	f.ClientName = q.Get("client")
	return f, nil
}

// List handles GET /api/invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := invoiceFilter(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	invoices, err := h.invoices.List(r.Context(), filter)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if invoices == nil {
		invoices = []*domain.Invoice{}
	}
	handler.JSON(w, http.StatusOK, invoices)
}

// Create handles POST /api/invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.InvoiceParams
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	inv, err := h.invoices.Create(r.Context(), req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusCreated, inv)
}

// Preview handles POST /api/invoices/preview. Nothing is saved.
func (h *InvoiceHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req domain.InvoiceParams
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	totals, err := h.invoices.Preview(r.Context(), req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, totals)
}

// Get handles GET /api/invoices/{id}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	inv, err := h.invoices.Get(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, inv)
}

// Update handles PUT /api/invoices/{id}
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req domain.InvoiceParams
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	inv, err := h.invoices.Update(r.Context(), id, req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, inv)
}

// UpdateClient handles PUT /api/invoices/{id}/client
func (h *InvoiceHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req domain.ClientSnapshot
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	inv, err := h.invoices.UpdateClient(r.Context(), id, req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, inv)
}

// SetPaid handles POST /api/invoices/{id}/paid with {"paid": true}
func (h *InvoiceHandler) SetPaid(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req paidRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	inv, err := h.invoices.SetPaid(r.Context(), id, req.Paid)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, inv)
}

// SetDeliveryStatus handles POST /api/invoices/{id}/delivery-status
func (h *InvoiceHandler) SetDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req deliveryStatusRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	inv, err := h.invoices.SetDeliveryStatus(r.Context(), id, req.Status)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, inv)
}

// Void handles DELETE /api/invoices/{id}. The invoice is kept and marked
// voided.
func (h *InvoiceHandler) Void(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.invoices.Void(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.NoContent(w)
}

// PDF handles GET /api/invoices/{id}/pdf?style=&lang=&download=1
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	doc, err := h.documents.RenderInvoice(r.Context(), id, renderOptions(r))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	writePDF(w, r, doc)
}

// Send handles POST /api/invoices/{id}/send
func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req domain.SendInvoiceParams
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.documents.SendInvoice(r.Context(), id, req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.NoContent(w)
}

func renderOptions(r *http.Request) domain.RenderOptions {
	q := r.URL.Query()
	return domain.RenderOptions{Template: q.Get("style"), Language: q.Get("lang")}
}

// writePDF sends doc inline, or as an attachment when download is set.
func writePDF(w http.ResponseWriter, r *http.Request, doc *domain.RenderedDocument) {
	disposition := "inline"
	if d, _ := strconv.ParseBool(r.URL.Query().Get("download")); d {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	if doc.Pages > 0 {
		w.Header().Set("X-Page-Count", strconv.Itoa(doc.Pages))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Data)
}
