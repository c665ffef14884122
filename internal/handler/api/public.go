package api

import (
	"net/http"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/handler"
)

// PublicHandler serves the unauthenticated share links printed on PDFs
// and sent by email. Responses never include cost data.
type PublicHandler struct {
	documents  domain.DocumentService
	deliveries domain.DeliveryService
}

func NewPublicHandler(documents domain.DocumentService, deliveries domain.DeliveryService) *PublicHandler {
	return &PublicHandler{documents: documents, deliveries: deliveries}
}

// publicBusiness is the issuer subset shown on a shared invoice.
type publicBusiness struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Phone    string         `json:"phone,omitempty"`
	Website  string         `json:"website,omitempty"`
	TaxID    string         `json:"taxId,omitempty"`
	Address  domain.Address `json:"address"`
	Currency string         `json:"currency"`
	LogoURL  string         `json:"logoUrl,omitempty"`
}

type publicInvoiceResponse struct {
	Invoice  *domain.Invoice `json:"invoice"`
	Business publicBusiness  `json:"business"`
}

// Invoice handles GET /public/invoices/{id}
func (h *PublicHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	inv, b, err := h.documents.PublicInvoice(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, publicInvoiceResponse{
		Invoice: inv,
		Business: publicBusiness{
			Name:     b.Name,
			Email:    b.Email,
			Phone:    b.Phone,
			Website:  b.Website,
			TaxID:    b.TaxID,
			Address:  b.Address,
			Currency: b.Currency,
			LogoURL:  b.LogoURL,
		},
	})
}

// InvoicePDF handles GET /public/invoices/{id}/pdf?style=&lang=
func (h *PublicHandler) InvoicePDF(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	doc, err := h.documents.RenderPublic(r.Context(), id, renderOptions(r))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	writePDF(w, r, doc)
}

// Delivery handles GET /public/deliveries/{id}
func (h *PublicHandler) Delivery(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	view, err := h.deliveries.GetPublic(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, view)
}
