package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pdv/internal/app"
	"pdv/internal/core"
	"pdv/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Handler holds the ApplicationService behind the chi router.
type Handler struct {
	svc app.ApplicationService
}

// Options configures the router. A nil Metrics disables instrumentation and /metrics.
type Options struct {
	AllowedOrigins []string
	Metrics        *metrics.Metrics
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(recoverer)
	r.Use(opts.Metrics.Middleware)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(middleware.CleanPath)

	// ── Health / metrics ──────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequestSize(1 << 20)) // 1 MB

		// ── Sales ─────────────────────────────────────────────────────────────
		r.Route("/vendas", func(r chi.Router) {
			r.Post("/", h.apiCreateSale)
			r.Get("/", h.apiListSales)
			r.Get("/resumo/vendas", h.apiSalesSummary)
			r.Get("/numero/{numero}", h.apiGetSaleByNumber)
			r.Get("/cliente/{id}/historico", h.apiCustomerHistory)
			r.Get("/vendedor/{id}/vendas", h.apiSalespersonSales)
			r.Get("/{id}", h.apiGetSale)
			r.Put("/{id}", h.apiUpdateSale)
			r.Delete("/{id}", h.apiCancelSale)
		})

		// ── Catalog ───────────────────────────────────────────────────────────
		r.Route("/categorias", func(r chi.Router) {
			r.Post("/", h.apiCreateCategory)
			r.Get("/", h.apiListCategories)
			r.Get("/{id}", h.apiGetCategory)
			r.Put("/{id}", h.apiUpdateCategory)
			r.Delete("/{id}", h.apiDeleteCategory)
		})
		r.Route("/produtos", func(r chi.Router) {
			r.Post("/", h.apiCreateProduct)
			r.Get("/", h.apiListProducts)
			r.Get("/search", h.apiSearchProducts)
			r.Get("/stats", h.apiProductStats)
			r.Get("/codigo-barras/{codigo}", h.apiGetProductByBarcode)
			r.Get("/sku/{sku}", h.apiGetProductBySKU)
			r.Get("/{id}", h.apiGetProduct)
			r.Put("/{id}", h.apiUpdateProduct)
			r.Delete("/{id}", h.apiDeleteProduct)
			r.Post("/{id}/inativar", h.apiInactivateProduct)
		})

		// ── Customers ─────────────────────────────────────────────────────────
		r.Route("/clientes", func(r chi.Router) {
			r.Post("/", h.apiCreateCustomer)
			r.Get("/", h.apiListCustomers)
			r.Get("/buscar/{termo}", h.apiSearchCustomers)
			r.Get("/stats/resumo", h.apiCustomerStats)
			r.Get("/cpf-cnpj/{documento}", h.apiGetCustomerByDocument)
			r.Get("/email/{email}", h.apiGetCustomerByEmail)
			r.Get("/{id}", h.apiGetCustomer)
			r.Put("/{id}", h.apiUpdateCustomer)
			r.Delete("/{id}", h.apiDeleteCustomer)
			r.Post("/{id}/inativar", h.apiInactivateCustomer)
		})

		r.Get("/schemas", h.apiListSchemas)
		r.Get("/schemas/{name}", h.apiGetSchema)
	})

	return r
}

// health reports service status and database reachability.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
	if err := h.svc.Ping(r.Context()); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(response{Status: "degraded", Database: "unreachable"})
		return
	}
	writeJSON(w, response{Status: "ok", Database: "ok"})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by the RequestSize middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// ── Parameter helpers ────────────────────────────────────────────────────────

// uuidParam parses the named URL parameter, writing a 400 when it is not a UUID.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, errorResponse{
			Error: name + ": invalid UUID",
			Code:  "VALIDATION_ERROR",
			Field: name,
		})
		return uuid.Nil, false
	}
	return id, true
}

// queryPage reads pagina and por_pagina; missing or malformed values fall back to defaults.
func queryPage(r *http.Request) core.Page {
	q := r.URL.Query()
	number, _ := strconv.Atoi(q.Get("pagina"))
	perPage, _ := strconv.Atoi(q.Get("por_pagina"))
	return core.Page{Number: number, PerPage: perPage}.Normalize()
}

func queryInt(r *http.Request, name string, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil {
		return v
	}
	return def
}

// parseDate parses an optional YYYY-MM-DD value.
func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, &core.ValidationError{Field: field, Message: "expected YYYY-MM-DD, got " + strconv.Quote(value)}
	}
	return &t, nil
}

// parseOptionalUUID parses an optional UUID value.
func parseOptionalUUID(field, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, &core.ValidationError{Field: field, Message: "invalid UUID " + strconv.Quote(value)}
	}
	return &id, nil
}

// queryDateRange reads data_inicio and data_fim.
func queryDateRange(r *http.Request) (from, to *time.Time, err error) {
	q := r.URL.Query()
	if from, err = parseDate("data_inicio", q.Get("data_inicio")); err != nil {
		return nil, nil, err
	}
	if to, err = parseDate("data_fim", q.Get("data_fim")); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
