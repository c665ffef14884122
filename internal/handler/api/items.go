package api

import (
	"net/http"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/handler"
	"github.com/shopspring/decimal"
)

// ItemHandler serves the product and service catalog.
type ItemHandler struct {
	service domain.ItemService
}

func NewItemHandler(service domain.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

type stockRequest struct {
	Delta decimal.Decimal `json:"delta"`
}

func writeItems(w http.ResponseWriter, items []*domain.Item) {
	if items == nil {
		items = []*domain.Item{}
	}
	handler.JSON(w, http.StatusOK, items)
}

// List handles GET /api/items?q=&limit=&offset=
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := handler.ListParams(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	items, err := h.service.List(r.Context(), params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	writeItems(w, items)
}

// Search handles GET /api/items/search?q=&limit= for the invoice item picker
func (h *ItemHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, err := handler.QueryInt(r, "limit", 0)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	items, err := h.service.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	writeItems(w, items)
}

// Create handles POST /api/items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.ItemParams
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	it, err := h.service.Create(r.Context(), req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusCreated, it)
}

// Get handles GET /api/items/{id}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	it, err := h.service.Get(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, it)
}

// Update handles PUT /api/items/{id}
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req domain.ItemParams
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	it, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, it)
}

// Delete handles DELETE /api/items/{id}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// AdjustStock handles POST /api/items/{id}/stock with {"delta": "-2"}
func (h *ItemHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req stockRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	it, err := h.service.AdjustStock(r.Context(), id, req.Delta)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, it)
}

// UploadImage handles POST /api/items/{id}/image (multipart, field "file")
func (h *ItemHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	upload, file, err := formFile(w, r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	defer file.Close()

	it, err := h.service.UploadImage(r.Context(), id, upload)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, it)
}
