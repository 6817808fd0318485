package web

import (
	"net/http"

	"pdv/internal/core"

	"github.com/go-chi/chi/v5"
)

// ── Categories ───────────────────────────────────────────────────────────────

func (h *Handler) apiCreateCategory(w http.ResponseWriter, r *http.Request) {
	var body categoryBody
	if !decodeJSON(w, r, &body) {
		return
	}
	c, err := h.svc.CreateCategory(r.Context(), core.CategoryInput{Name: body.Name, Description: body.Description})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, c)
}

func (h *Handler) apiListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context(), queryPage(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, categories)
}

func (h *Handler) apiGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	c, err := h.svc.GetCategory(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, c)
}

func (h *Handler) apiUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var body categoryBody
	if !decodeJSON(w, r, &body) {
		return
	}
	c, err := h.svc.UpdateCategory(r.Context(), id, core.CategoryInput{Name: body.Name, Description: body.Description})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, c)
}

func (h *Handler) apiDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Products ─────────────────────────────────────────────────────────────────

func (h *Handler) apiCreateProduct(w http.ResponseWriter, r *http.Request) {
	var body productCreateBody
	if !decodeJSON(w, r, &body) {
		return
	}
	in, err := body.toInput()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	p, err := h.svc.CreateProduct(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, p)
}

// apiListProducts handles GET /api/v1/produtos.
// Query: pagina, por_pagina, nome, codigo_barras, sku, unidade_medida, categoria_id, status,
// preco_venda_min, preco_venda_max, preco_custo_min, preco_custo_max (cents).
func (h *Handler) apiListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := core.ProductFilter{
		Name:         q.Get("nome"),
		Barcode:      q.Get("codigo_barras"),
		SKU:          q.Get("sku"),
		MinSalePrice: queryCents(r, "preco_venda_min"),
		MaxSalePrice: queryCents(r, "preco_venda_max"),
		MinCostPrice: queryCents(r, "preco_custo_min"),
		MaxCostPrice: queryCents(r, "preco_custo_max"),
	}
	if v := q.Get("unidade_medida"); v != "" {
		u := core.ProductUnit(v)
		f.Unit = &u
	}
	if v := q.Get("status"); v != "" {
		s := core.ProductStatus(v)
		f.Status = &s
	}
	var err error
	if f.CategoryID, err = parseOptionalUUID("categoria_id", q.Get("categoria_id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	result, err := h.svc.ListProducts(r.Context(), f, queryPage(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) apiGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

func (h *Handler) apiGetProductByBarcode(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProductByBarcode(r.Context(), chi.URLParam(r, "codigo"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

func (h *Handler) apiGetProductBySKU(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProductBySKU(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

func (h *Handler) apiUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var body productUpdateBody
	if !decodeJSON(w, r, &body) {
		return
	}
	patch, err := body.toPatch()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	p, err := h.svc.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

func (h *Handler) apiDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiInactivateProduct handles POST /api/v1/produtos/{id}/inativar. Body: { atualizado_por? }
func (h *Handler) apiInactivateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var body actorBody
	if r.ContentLength != 0 && !decodeJSON(w, r, &body) {
		return
	}
	p, err := h.svc.InactivateProduct(r.Context(), id, body.UpdatedBy)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

// apiSearchProducts handles GET /api/v1/produtos/search?q=&limit=.
func (h *Handler) apiSearchProducts(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeErrorResponse(w, r, http.StatusBadRequest, errorResponse{Error: "q: is required", Code: "VALIDATION_ERROR", Field: "q"})
		return
	}
	products, err := h.svc.SearchProducts(r.Context(), term, queryInt(r, "limit", 10))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, products)
}

func (h *Handler) apiProductStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetProductStats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, stats)
}

// queryCents reads an optional integer-cents query parameter. Malformed values are ignored.
func queryCents(r *http.Request, name string) *core.Cents {
	v := queryInt(r, name, -1)
	if v < 0 {
		return nil
	}
	c := core.Cents(v)
	return &c
}
