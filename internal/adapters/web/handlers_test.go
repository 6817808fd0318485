package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pdv/internal/app"
	"pdv/internal/core"
	"pdv/internal/metrics"

	"github.com/google/uuid"
)

// fakeApp implements the subset of app.ApplicationService the tests exercise.
// Calling any other method panics through the nil embedded interface.
type fakeApp struct {
	app.ApplicationService

	pingErr     error
	sales       map[uuid.UUID]*core.Sale
	lastList    app.ListSalesRequest
	lastSummary app.SummaryRequest
	customerErr error
}

func newFakeApp() *fakeApp {
	return &fakeApp{sales: map[uuid.UUID]*core.Sale{}}
}

func (f *fakeApp) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeApp) CreateSale(ctx context.Context, req app.CreateSaleRequest) (*app.SaleResult, error) {
	sale, err := core.BuildSale(req)
	if err != nil {
		return nil, err
	}
	sale.ID = uuid.New()
	sale.SaleNumber = "20240115-0001"
	f.sales[sale.ID] = sale
	return &app.SaleResult{Sale: sale}, nil
}

func (f *fakeApp) GetSale(ctx context.Context, ref string) (*app.SaleResult, error) {
	for _, s := range f.sales {
		if s.ID.String() == ref || s.SaleNumber == ref {
			return &app.SaleResult{Sale: s}, nil
		}
	}
	return nil, fmt.Errorf("sale %s: %w", ref, core.ErrNotFound)
}

func (f *fakeApp) ListSales(ctx context.Context, req app.ListSalesRequest) (*app.SaleListResult, error) {
	f.lastList = req
	return &app.SaleListResult{Sales: []core.Sale{}, Page: req.Page.Number, PerPage: req.Page.PerPage}, nil
}

func (f *fakeApp) GetSalesSummary(ctx context.Context, req app.SummaryRequest) (*core.SaleSummary, error) {
	f.lastSummary = req
	return core.NewSaleSummary(core.SaleStatusCompleted, 2, 3000,
		map[core.SaleStatus]int{core.SaleStatusCompleted: 2, core.SaleStatusCancelled: 0}, nil), nil
}

func (f *fakeApp) CreateCustomer(ctx context.Context, in core.CustomerInput) (*core.Customer, error) {
	if f.customerErr != nil {
		return nil, f.customerErr
	}
	return &core.Customer{ID: uuid.New(), Name: in.Name, Type: in.Type, Status: core.CustomerActive}, nil
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

const validSaleBody = `{
	"desconto_total": 0,
	"itens": [{"produto_id": "6f1c2a54-0d3e-4c57-9b7e-3a6f1f0b2c11", "quantidade": 2, "preco_unitario": 1000}],
	"pagamentos": [{"forma_pagamento": "dinheiro", "valor_pago": 2000, "valor_recebido": 5000}]
}`

func TestHealth(t *testing.T) {
	f := newFakeApp()
	h := NewHandler(f, Options{})

	rec := do(t, h, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}

	f.pingErr = errors.New("connection refused")
	rec = do(t, h, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestCreateSale(t *testing.T) {
	h := NewHandler(newFakeApp(), Options{})

	rec := do(t, h, http.MethodPost, "/api/v1/vendas", validSaleBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var sale core.Sale
	if err := json.Unmarshal(rec.Body.Bytes(), &sale); err != nil {
		t.Fatal(err)
	}
	if sale.TotalDue != 2000 {
		t.Errorf("total_venda = %d, want 2000", sale.TotalDue)
	}
	if len(sale.Payments) != 1 || sale.Payments[0].Change != 3000 {
		t.Errorf("payments = %+v, want one cash payment with troco 3000", sale.Payments)
	}
	if sale.Status != core.SaleStatusCompleted {
		t.Errorf("status = %s, want concluida", sale.Status)
	}
}

func TestCreateSaleErrors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantError string
		wantField string
	}{
		{
			name:      "payment mismatch",
			body:      strings.Replace(validSaleBody, `"valor_pago": 2000`, `"valor_pago": 1500`, 1),
			wantCode:  http.StatusBadRequest,
			wantError: "VALIDATION_ERROR",
			wantField: "pagamentos",
		},
		{
			name:      "no items",
			body:      `{"itens": [], "pagamentos": [{"forma_pagamento": "pix", "valor_pago": 100}]}`,
			wantCode:  http.StatusBadRequest,
			wantError: "VALIDATION_ERROR",
			wantField: "itens",
		},
		{
			name:      "bad product id",
			body:      `{"itens": [{"produto_id": "x", "quantidade": 1, "preco_unitario": 1}], "pagamentos": []}`,
			wantCode:  http.StatusBadRequest,
			wantError: "VALIDATION_ERROR",
			wantField: "itens[0].produto_id",
		},
		{
			name:      "malformed json",
			body:      `{"itens": [`,
			wantCode:  http.StatusBadRequest,
			wantError: "BAD_REQUEST",
		},
		{
			name:      "unknown field",
			body:      `{"itens": [], "pagamentos": [], "loja": 1}`,
			wantCode:  http.StatusBadRequest,
			wantError: "BAD_REQUEST",
		},
	}
	h := NewHandler(newFakeApp(), Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/vendas", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			resp := decodeError(t, rec)
			if resp.Code != tt.wantError {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantError)
			}
			if tt.wantField != "" && resp.Field != tt.wantField {
				t.Errorf("field = %q, want %q", resp.Field, tt.wantField)
			}
			if resp.RequestID == "" {
				t.Error("error response missing request_id")
			}
		})
	}
}

func TestCreateSaleBodyTooLarge(t *testing.T) {
	h := NewHandler(newFakeApp(), Options{})
	body := `{"observacoes": "` + strings.Repeat("a", 2<<20) + `"}`
	rec := do(t, h, http.MethodPost, "/api/v1/vendas", body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestGetSale(t *testing.T) {
	f := newFakeApp()
	h := NewHandler(f, Options{})
	created := do(t, h, http.MethodPost, "/api/v1/vendas", validSaleBody)
	var sale core.Sale
	if err := json.Unmarshal(created.Body.Bytes(), &sale); err != nil {
		t.Fatal(err)
	}

	if rec := do(t, h, http.MethodGet, "/api/v1/vendas/"+sale.ID.String(), ""); rec.Code != http.StatusOK {
		t.Errorf("get by id status = %d", rec.Code)
	}
	rec := do(t, h, http.MethodGet, "/api/v1/vendas/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing sale status = %d, want 404", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", resp.Code)
	}
}

func TestListSalesQuery(t *testing.T) {
	f := newFakeApp()
	h := NewHandler(f, Options{})

	rec := do(t, h, http.MethodGet, "/api/v1/vendas?pagina=2&por_pagina=500&status=concluida&data_inicio=2024-01-01&numero_venda=0115", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	got := f.lastList
	if got.Page.Number != 2 || got.Page.PerPage != core.MaxPerPage {
		t.Errorf("page = %+v, want 2/%d", got.Page, core.MaxPerPage)
	}
	if got.Filter.Status == nil || *got.Filter.Status != core.SaleStatusCompleted {
		t.Errorf("status filter = %v", got.Filter.Status)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if got.Filter.From == nil || !got.Filter.From.Equal(want) {
		t.Errorf("from = %v, want %v", got.Filter.From, want)
	}
	if got.Filter.To != nil {
		t.Errorf("to = %v, want nil", got.Filter.To)
	}
	if got.Filter.SaleNumber != "0115" {
		t.Errorf("sale number filter = %q", got.Filter.SaleNumber)
	}

	for _, q := range []string{"status=aberta", "data_fim=15/01/2024", "cliente_id=abc"} {
		if rec := do(t, h, http.MethodGet, "/api/v1/vendas?"+q, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestSalesSummary(t *testing.T) {
	f := newFakeApp()
	h := NewHandler(f, Options{})

	rec := do(t, h, http.MethodGet, "/api/v1/vendas/resumo/vendas?data_inicio=2024-01-15&data_fim=2024-01-15", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["total_vendas"] != float64(2) {
		t.Errorf("total_vendas = %v, want 2", body["total_vendas"])
	}
	if body["ticket_medio"] != "1500" {
		t.Errorf("ticket_medio = %v, want \"1500\"", body["ticket_medio"])
	}
	byStatus, _ := body["vendas_por_status"].(map[string]any)
	if _, ok := byStatus["cancelada"]; ok {
		t.Error("zero-count status should be omitted from vendas_por_status")
	}
	if f.lastSummary.From == nil || f.lastSummary.To == nil {
		t.Error("summary dates not forwarded")
	}
}

func TestInvalidUUIDParam(t *testing.T) {
	h := NewHandler(newFakeApp(), Options{})
	rec := do(t, h, http.MethodDelete, "/api/v1/vendas/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Field != "id" {
		t.Errorf("field = %q, want id", resp.Field)
	}
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"conflict", fmt.Errorf("document 12345678901 already registered: %w", core.ErrConflict), http.StatusConflict, "CONFLICT"},
		{"validation", &core.ValidationError{Field: "cpf_cnpj", Message: "bad"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"internal", errors.New("dial tcp: secret-host:5432 refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeApp()
			f.customerErr = tt.err
			h := NewHandler(f, Options{})
			rec := do(t, h, http.MethodPost, "/api/v1/clientes", `{"nome": "Maria Silva", "cpf_cnpj": "123.456.789-01"}`)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			resp := decodeError(t, rec)
			if resp.Code != tt.wantBody {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantBody)
			}
			if tt.wantCode == http.StatusInternalServerError && strings.Contains(resp.Error, "secret-host") {
				t.Error("internal error details leaked to client")
			}
		})
	}
}

func TestSchemas(t *testing.T) {
	h := NewHandler(newFakeApp(), Options{})

	rec := do(t, h, http.MethodGet, "/api/v1/schemas/venda", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var schema struct {
		Properties           map[string]json.RawMessage `json:"properties"`
		Required             []string                   `json:"required"`
		AdditionalProperties *bool                      `json:"additionalProperties"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &schema); err != nil {
		t.Fatalf("decode schema: %v", err)
	}
	for _, prop := range []string{"itens", "pagamentos", "desconto_total"} {
		if _, ok := schema.Properties[prop]; !ok {
			t.Errorf("schema missing property %q", prop)
		}
	}
	if schema.AdditionalProperties == nil || *schema.AdditionalProperties {
		t.Error("schema should forbid additional properties")
	}

	if rec := do(t, h, http.MethodGet, "/api/v1/schemas/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown schema status = %d, want 404", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/schemas", "")
	var names []string
	if err := json.Unmarshal(rec.Body.Bytes(), &names); err != nil {
		t.Fatal(err)
	}
	if len(names) != len(requestSchemas) {
		t.Errorf("listed %d schemas, want %d", len(names), len(requestSchemas))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := NewHandler(newFakeApp(), Options{})
	if rec := do(t, h, http.MethodGet, "/api/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health without metrics: status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/metrics", ""); rec.Code != http.StatusNotFound {
		t.Errorf("metrics disabled: status = %d, want 404", rec.Code)
	}

	h = NewHandler(newFakeApp(), Options{Metrics: metrics.New()})
	do(t, h, http.MethodGet, "/api/health", "")
	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `route="/api/health"`) {
		t.Error("metrics output missing health route sample")
	}
}

func TestCORS(t *testing.T) {
	h := NewHandler(newFakeApp(), Options{AllowedOrigins: []string{"http://caixa.local"}})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://caixa.local")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://caixa.local" {
		t.Errorf("Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected Allow-Origin %q for unlisted origin", got)
	}
}

func TestRequestID(t *testing.T) {
	h := NewHandler(newFakeApp(), Options{})

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"caller id kept", "caixa-01-0042", true},
		{"missing id generated", "", false},
		{"unsafe id replaced", "bad id; drop", false},
		{"overlong id replaced", strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/vendas/not-a-uuid", nil)
			if tt.header != "" {
				req.Header.Set("X-Request-ID", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get("X-Request-ID")
			if tt.keep && got != tt.header {
				t.Errorf("X-Request-ID = %q, want %q", got, tt.header)
			}
			if !tt.keep {
				if _, err := uuid.Parse(got); err != nil {
					t.Errorf("X-Request-ID = %q, want a generated UUID", got)
				}
			}
			if resp := decodeError(t, rec); resp.RequestID != got {
				t.Errorf("body request_id = %q, header %q", resp.RequestID, got)
			}
		})
	}
}

func TestRecovererWritesJSON(t *testing.T) {
	h := requestID(recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Code != "INTERNAL_ERROR" || resp.RequestID != "req-1" {
		t.Errorf("response = %+v", resp)
	}
}
