package web

import (
	"net/http"

	"pdv/internal/app"
	"pdv/internal/core"

	"github.com/go-chi/chi/v5"
)

// apiCreateSale handles POST /api/v1/vendas.
// Body: { cliente_id?, vendedor_id?, desconto_total?, observacoes?, criado_por?,
// itens: [{produto_id, quantidade, preco_unitario, desconto_item?}],
// pagamentos: [{forma_pagamento, valor_pago, valor_recebido?, numero_transacao?, numero_autorizacao?}] }
func (h *Handler) apiCreateSale(w http.ResponseWriter, r *http.Request) {
	var body saleCreateBody
	if !decodeJSON(w, r, &body) {
		return
	}
	in, err := body.toInput()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	result, err := h.svc.CreateSale(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, result.Sale)
}

// apiListSales handles GET /api/v1/vendas.
// Query: pagina, por_pagina, data_inicio, data_fim, cliente_id, vendedor_id, status, numero_venda.
func (h *Handler) apiListSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		f   core.SaleFilter
		err error
	)
	if f.From, f.To, err = queryDateRange(r); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if f.CustomerID, err = parseOptionalUUID("cliente_id", q.Get("cliente_id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if f.SalespersonID, err = parseOptionalUUID("vendedor_id", q.Get("vendedor_id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if f.Status, err = parseSaleStatus(q.Get("status")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	f.SaleNumber = q.Get("numero_venda")

	result, err := h.svc.ListSales(r.Context(), app.ListSalesRequest{Filter: f, Page: queryPage(r)})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiGetSale handles GET /api/v1/vendas/{id}. The id may also be a sale number.
func (h *Handler) apiGetSale(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Sale)
}

// apiGetSaleByNumber handles GET /api/v1/vendas/numero/{numero}.
func (h *Handler) apiGetSaleByNumber(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetSaleByNumber(r.Context(), chi.URLParam(r, "numero"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Sale)
}

// apiUpdateSale handles PUT /api/v1/vendas/{id}.
// Body: { status?, observacoes?, atualizado_por? }
func (h *Handler) apiUpdateSale(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var body saleUpdateBody
	if !decodeJSON(w, r, &body) {
		return
	}
	req := app.UpdateSaleRequest{Notes: body.Notes, UpdatedBy: body.UpdatedBy}
	if body.Status != nil {
		st := core.SaleStatus(*body.Status)
		req.Status = &st
	}

	result, err := h.svc.UpdateSale(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Sale)
}

// apiCancelSale handles DELETE /api/v1/vendas/{id}: the sale is kept with status cancelada.
// The optional query parameter atualizado_por records who cancelled it.
func (h *Handler) apiCancelSale(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.CancelSale(r.Context(), id, r.URL.Query().Get("atualizado_por"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Sale)
}

// apiSalesSummary handles GET /api/v1/vendas/resumo/vendas?data_inicio&data_fim&status.
func (h *Handler) apiSalesSummary(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryDateRange(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	status, err := parseSaleStatus(r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	summary, err := h.svc.GetSalesSummary(r.Context(), app.SummaryRequest{From: from, To: to, Status: status})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, summary)
}

// apiCustomerHistory handles GET /api/v1/vendas/cliente/{id}/historico.
func (h *Handler) apiCustomerHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetCustomerHistory(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiSalespersonSales handles GET /api/v1/vendas/vendedor/{id}/vendas?data_inicio&data_fim.
func (h *Handler) apiSalespersonSales(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	from, to, err := queryDateRange(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	result, err := h.svc.GetSalespersonSales(r.Context(), app.SalespersonSalesRequest{SalespersonID: id, From: from, To: to})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// parseSaleStatus parses an optional status filter.
func parseSaleStatus(v string) (*core.SaleStatus, error) {
	if v == "" {
		return nil, nil
	}
	st := core.SaleStatus(v)
	if !st.Valid() {
		return nil, &core.ValidationError{Field: "status", Message: "unknown sale status " + v}
	}
	return &st, nil
}
