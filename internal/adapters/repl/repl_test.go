package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"pdv/internal/app"
	"pdv/internal/core"

	"github.com/google/uuid"
)

type fakeApp struct {
	app.ApplicationService

	product     core.Product
	customer    core.Customer
	created     *app.CreateSaleRequest
	cancelledBy string
}

func newFakeApp() *fakeApp {
	return &fakeApp{
		product:  core.Product{ID: uuid.New(), Name: "Cafe 500g", Barcode: "7891000100101", SKU: "CAFE-500", SalePrice: 1890},
		customer: core.Customer{ID: uuid.New(), Name: "Maria Souza", Document: "52998224725"},
	}
}

func (f *fakeApp) GetProductByBarcode(ctx context.Context, barcode string) (*core.Product, error) {
	if barcode == f.product.Barcode {
		return &f.product, nil
	}
	return nil, fmt.Errorf("product %s: %w", barcode, core.ErrNotFound)
}

func (f *fakeApp) GetProductBySKU(ctx context.Context, sku string) (*core.Product, error) {
	if sku == f.product.SKU {
		return &f.product, nil
	}
	return nil, fmt.Errorf("product %s: %w", sku, core.ErrNotFound)
}

func (f *fakeApp) GetProduct(ctx context.Context, id uuid.UUID) (*core.Product, error) {
	if id == f.product.ID {
		return &f.product, nil
	}
	return nil, fmt.Errorf("product %s: %w", id, core.ErrNotFound)
}

func (f *fakeApp) GetCustomerByDocument(ctx context.Context, doc string) (*core.Customer, error) {
	if doc == f.customer.Document {
		return &f.customer, nil
	}
	return nil, fmt.Errorf("customer %s: %w", doc, core.ErrNotFound)
}

func (f *fakeApp) SearchProducts(ctx context.Context, term string, limit int) ([]core.Product, error) {
	return []core.Product{f.product}, nil
}

func (f *fakeApp) CreateSale(ctx context.Context, req app.CreateSaleRequest) (*app.SaleResult, error) {
	f.created = &req
	sale, err := core.BuildSale(req)
	if err != nil {
		return nil, err
	}
	sale.SaleNumber = "20240115-0001"
	sale.CreatedAt = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	for i := range sale.Items {
		sale.Items[i].ProductName = f.product.Name
	}
	return &app.SaleResult{Sale: sale}, nil
}

func (f *fakeApp) CancelSale(ctx context.Context, id uuid.UUID, actor string) (*app.SaleResult, error) {
	f.cancelledBy = actor
	return &app.SaleResult{Sale: &core.Sale{ID: id, SaleNumber: "20240115-0001", Status: core.SaleStatusCancelled}}, nil
}

func runSession(t *testing.T, svc app.ApplicationService, input string) string {
	t.Helper()
	var out bytes.Buffer
	Run(context.Background(), svc, bufio.NewReader(strings.NewReader(input)), &out, "caixa-01")
	return out.String()
}

func TestRun_NewSaleWithChange(t *testing.T) {
	svc := newFakeApp()
	input := strings.Join([]string{
		"/nova-venda",
		"7891000100101 2",
		"CAFE-500 1 10,00 1,00",
		"fim",
		"2,80",        // sale discount
		"52998224725", // customer
		"pix 20",
		"dinheiro 24,00 50",
		"/sair",
	}, "\n") + "\n"

	out := runSession(t, svc, input)

	if svc.created == nil {
		t.Fatalf("sale not created; output:\n%s", out)
	}
	req := svc.created
	if len(req.Items) != 2 || req.Items[0].UnitPrice != 1890 || req.Items[1].Discount != 100 {
		t.Errorf("items: %+v", req.Items)
	}
	if req.DiscountTotal != 280 {
		t.Errorf("discount: got %d", req.DiscountTotal)
	}
	if req.CustomerID == nil || *req.CustomerID != svc.customer.ID {
		t.Error("customer not attached")
	}
	if req.CreatedBy != "caixa-01" {
		t.Errorf("created by: got %q", req.CreatedBy)
	}
	if len(req.Payments) != 2 || req.Payments[1].Tendered == nil || *req.Payments[1].Tendered != 5000 {
		t.Errorf("payments: %+v", req.Payments)
	}
	// 2*18.90 + 9.00 - 2.80 = 44.00
	if !strings.Contains(out, "TOTAL: 44.00") {
		t.Errorf("total not shown:\n%s", out)
	}
	if !strings.Contains(out, "Change: 26.00") {
		t.Errorf("change not shown:\n%s", out)
	}
	if !strings.Contains(out, "VENDA 20240115-0001") {
		t.Errorf("receipt not printed:\n%s", out)
	}
}

func TestRun_NewSaleDefaultsToRemaining(t *testing.T) {
	svc := newFakeApp()
	out := runSession(t, svc, "/nova-venda\nCAFE-500 1\nfim\n\n\ncartao_debito\n/sair\n")

	if svc.created == nil {
		t.Fatalf("sale not created; output:\n%s", out)
	}
	if p := svc.created.Payments; len(p) != 1 || p[0].Amount != 1890 {
		t.Errorf("payments: %+v", p)
	}
}

func TestRun_NewSaleRejectsBadInput(t *testing.T) {
	svc := newFakeApp()
	input := strings.Join([]string{
		"/nova-venda",
		"0000 1",     // unknown product
		"CAFE-500",   // missing quantity
		"CAFE-500 0", // bad quantity
		"CAFE-500 1",
		"fim",
		"",
		"",
		"cheque 18.90", // unknown method
		"pix 30",       // above remaining
		"cancelar",
		"/sair",
	}, "\n") + "\n"

	out := runSession(t, svc, input)

	if svc.created != nil {
		t.Fatal("sale should not be created")
	}
	for _, want := range []string{"product 0000", "invalid format", "invalid quantity", "Unknown method", "exceeds remaining", "Sale cancelled."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_NoItems(t *testing.T) {
	svc := newFakeApp()
	out := runSession(t, svc, "/nova-venda\nfim\n/sair\n")
	if !strings.Contains(out, "No items entered") || svc.created != nil {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRun_CancelUsesOperator(t *testing.T) {
	svc := newFakeApp()
	runSession(t, svc, "/cancelar "+uuid.NewString()+"\n/sair\n")
	if svc.cancelledBy != "caixa-01" {
		t.Errorf("cancelled by: got %q", svc.cancelledBy)
	}
}

func TestRun_MiscCommands(t *testing.T) {
	svc := newFakeApp()
	out := runSession(t, svc, "hello\n/produtos cafe\n/bogus\n/help\n")

	for _, want := range []string{"Commands start with '/'", "CAFE-500", "Unknown command: /bogus", "/nova-venda", "Ate logo!"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_InputEndsDuringSale(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"while entering items", "/nova-venda\n7891000100101 1\n"},
		{"at sale discount", "/nova-venda\nCAFE-500 1\nfim\n"},
		{"at customer", "/nova-venda\nCAFE-500 1\nfim\n\n"},
		{"while paying", "/nova-venda\nCAFE-500 2\nfim\n\n\npix 10\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newFakeApp()
			done := make(chan string, 1)
			go func() {
				var out bytes.Buffer
				Run(context.Background(), svc, bufio.NewReader(strings.NewReader(tc.input)), &out, "caixa-01")
				done <- out.String()
			}()

			select {
			case out := <-done:
				if svc.created != nil {
					t.Error("sale should not be created")
				}
				if !strings.Contains(out, "Sale cancelled.") || !strings.Contains(out, "Ate logo!") {
					t.Errorf("unexpected output:\n%s", out)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("Run did not return after input ended")
			}
		})
	}
}
