package web

import (
	"net/http"

	"pdv/internal/core"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) apiCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body customerCreateBody
	if !decodeJSON(w, r, &body) {
		return
	}
	in, err := body.toInput()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	c, err := h.svc.CreateCustomer(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, c)
}

// apiListCustomers handles GET /api/v1/clientes.
// Query: pagina, por_pagina, nome, tipo, status, cidade, estado, cpf_cnpj, email.
func (h *Handler) apiListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := core.CustomerFilter{
		Name:     q.Get("nome"),
		City:     q.Get("cidade"),
		State:    q.Get("estado"),
		Document: q.Get("cpf_cnpj"),
		Email:    q.Get("email"),
	}
	if v := q.Get("tipo"); v != "" {
		t := core.CustomerType(v)
		f.Type = &t
	}
	if v := q.Get("status"); v != "" {
		s := core.CustomerStatus(v)
		f.Status = &s
	}

	result, err := h.svc.ListCustomers(r.Context(), f, queryPage(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) apiGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	c, err := h.svc.GetCustomer(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, c)
}

func (h *Handler) apiGetCustomerByDocument(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCustomerByDocument(r.Context(), chi.URLParam(r, "documento"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, c)
}

func (h *Handler) apiGetCustomerByEmail(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCustomerByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, c)
}

func (h *Handler) apiUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var body customerUpdateBody
	if !decodeJSON(w, r, &body) {
		return
	}
	patch, err := body.toPatch()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	c, err := h.svc.UpdateCustomer(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, c)
}

func (h *Handler) apiDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomer(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiInactivateCustomer handles POST /api/v1/clientes/{id}/inativar. Body: { atualizado_por? }
func (h *Handler) apiInactivateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var body actorBody
	if r.ContentLength != 0 && !decodeJSON(w, r, &body) {
		return
	}
	c, err := h.svc.InactivateCustomer(r.Context(), id, body.UpdatedBy)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, c)
}

// apiSearchCustomers handles GET /api/v1/clientes/buscar/{termo}?limit=.
func (h *Handler) apiSearchCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.SearchCustomers(r.Context(), chi.URLParam(r, "termo"), queryInt(r, "limit", 10))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, customers)
}

func (h *Handler) apiCustomerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetCustomerStats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, stats)
}
