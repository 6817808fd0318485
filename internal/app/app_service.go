package app

import (
	"context"
	"errors"
	"fmt"

	"pdv/internal/core"
	"pdv/internal/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type appService struct {
	pool      *pgxpool.Pool
	sales     core.SaleService
	products  core.ProductService
	customers core.CustomerService
	metrics   *metrics.Metrics
}

// NewAppService constructs an appService that satisfies ApplicationService.
// m may be nil when metrics are disabled.
func NewAppService(
	pool *pgxpool.Pool,
	sales core.SaleService,
	products core.ProductService,
	customers core.CustomerService,
	m *metrics.Metrics,
) ApplicationService {
	return &appService{
		pool:      pool,
		sales:     sales,
		products:  products,
		customers: customers,
		metrics:   m,
	}
}

func (s *appService) Ping(ctx context.Context) error {
	if s.pool == nil {
		return fmt.Errorf("database pool not configured")
	}
	return s.pool.Ping(ctx)
}

// ── Sales ────────────────────────────────────────────────────────────────────

// CreateSale builds and persists a sale, recording the outcome in metrics.
func (s *appService) CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResult, error) {
	sale, err := s.sales.CreateSale(ctx, req)
	if err != nil {
		s.metrics.SaleRejected(rejectReason(err))
		return nil, err
	}
	s.metrics.SaleCreated(int64(sale.TotalDue))
	return &SaleResult{Sale: sale}, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, core.ErrValidation):
		return "validation"
	case errors.Is(err, core.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

// GetSale resolves ref as a UUID first, then as a sale number.
func (s *appService) GetSale(ctx context.Context, ref string) (*SaleResult, error) {
	var (
		sale *core.Sale
		err  error
	)
	if id, perr := uuid.Parse(ref); perr == nil {
		sale, err = s.sales.GetSale(ctx, id)
	} else {
		sale, err = s.sales.GetSaleByNumber(ctx, ref)
	}
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) GetSaleByNumber(ctx context.Context, number string) (*SaleResult, error) {
	sale, err := s.sales.GetSaleByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) ListSales(ctx context.Context, req ListSalesRequest) (*SaleListResult, error) {
	page := req.Page.Normalize()
	sales, total, err := s.sales.ListSales(ctx, req.Filter, page)
	if err != nil {
		return nil, err
	}
	return &SaleListResult{
		Sales:      sales,
		Total:      total,
		Page:       page.Number,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages(total),
	}, nil
}

func (s *appService) UpdateSale(ctx context.Context, id uuid.UUID, req UpdateSaleRequest) (*SaleResult, error) {
	sale, err := s.sales.UpdateSale(ctx, id, core.UpdateSaleInput{
		Status:    req.Status,
		Notes:     req.Notes,
		UpdatedBy: req.UpdatedBy,
	})
	if err != nil {
		return nil, err
	}
	s.recordCancellation(sale)
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) CancelSale(ctx context.Context, id uuid.UUID, actor string) (*SaleResult, error) {
	sale, err := s.sales.CancelSale(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	s.recordCancellation(sale)
	return &SaleResult{Sale: sale}, nil
}

// recordCancellation counts a sale only when this update moved it into cancelada.
func (s *appService) recordCancellation(sale *core.Sale) {
	if sale.Status == core.SaleStatusCancelled && sale.PreviousStatus != core.SaleStatusCancelled {
		s.metrics.SaleCancelled()
	}
}

func (s *appService) GetSalesSummary(ctx context.Context, req SummaryRequest) (*core.SaleSummary, error) {
	return s.sales.Summary(ctx, core.SummaryFilter{From: req.From, To: req.To, Status: req.Status})
}

func (s *appService) GetCustomerHistory(ctx context.Context, customerID uuid.UUID) (*SaleListResult, error) {
	sales, err := s.sales.CustomerHistory(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return singlePage(sales), nil
}

func (s *appService) GetSalespersonSales(ctx context.Context, req SalespersonSalesRequest) (*SaleListResult, error) {
	sales, err := s.sales.SalespersonSales(ctx, req.SalespersonID, req.From, req.To)
	if err != nil {
		return nil, err
	}
	return singlePage(sales), nil
}

// singlePage wraps an unpaginated listing.
func singlePage(sales []core.Sale) *SaleListResult {
	n := len(sales)
	pages := 0
	if n > 0 {
		pages = 1
	}
	return &SaleListResult{Sales: sales, Total: n, Page: 1, PerPage: n, TotalPages: pages}
}

// ── Catalog ──────────────────────────────────────────────────────────────────

func (s *appService) CreateCategory(ctx context.Context, in core.CategoryInput) (*core.Category, error) {
	return s.products.CreateCategory(ctx, in)
}

func (s *appService) ListCategories(ctx context.Context, page core.Page) ([]core.Category, error) {
	return s.products.GetCategories(ctx, page)
}

func (s *appService) GetCategory(ctx context.Context, id uuid.UUID) (*core.Category, error) {
	return s.products.GetCategory(ctx, id)
}

func (s *appService) UpdateCategory(ctx context.Context, id uuid.UUID, in core.CategoryInput) (*core.Category, error) {
	return s.products.UpdateCategory(ctx, id, in)
}

func (s *appService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.products.DeleteCategory(ctx, id)
}

func (s *appService) CreateProduct(ctx context.Context, in core.ProductInput) (*core.Product, error) {
	return s.products.CreateProduct(ctx, in)
}

func (s *appService) GetProduct(ctx context.Context, id uuid.UUID) (*core.Product, error) {
	return s.products.GetProduct(ctx, id)
}

func (s *appService) GetProductByBarcode(ctx context.Context, barcode string) (*core.Product, error) {
	return s.products.GetProductByBarcode(ctx, barcode)
}

func (s *appService) GetProductBySKU(ctx context.Context, sku string) (*core.Product, error) {
	return s.products.GetProductBySKU(ctx, sku)
}

func (s *appService) ListProducts(ctx context.Context, f core.ProductFilter, page core.Page) (*ProductListResult, error) {
	page = page.Normalize()
	products, total, err := s.products.GetProducts(ctx, f, page)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{
		Products:   products,
		Total:      total,
		Page:       page.Number,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages(total),
	}, nil
}

func (s *appService) UpdateProduct(ctx context.Context, id uuid.UUID, patch core.ProductPatch) (*core.Product, error) {
	return s.products.UpdateProduct(ctx, id, patch)
}

func (s *appService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.products.DeleteProduct(ctx, id)
}

func (s *appService) InactivateProduct(ctx context.Context, id uuid.UUID, actor string) (*core.Product, error) {
	return s.products.InactivateProduct(ctx, id, actor)
}

func (s *appService) SearchProducts(ctx context.Context, term string, limit int) ([]core.Product, error) {
	return s.products.SearchProducts(ctx, term, limit)
}

func (s *appService) GetProductStats(ctx context.Context) (*core.ProductStats, error) {
	return s.products.GetProductStats(ctx)
}

// ── Customers ────────────────────────────────────────────────────────────────

func (s *appService) CreateCustomer(ctx context.Context, in core.CustomerInput) (*core.Customer, error) {
	return s.customers.CreateCustomer(ctx, in)
}

func (s *appService) GetCustomer(ctx context.Context, id uuid.UUID) (*core.Customer, error) {
	return s.customers.GetCustomer(ctx, id)
}

func (s *appService) GetCustomerByDocument(ctx context.Context, document string) (*core.Customer, error) {
	return s.customers.GetCustomerByDocument(ctx, document)
}

func (s *appService) GetCustomerByEmail(ctx context.Context, email string) (*core.Customer, error) {
	return s.customers.GetCustomerByEmail(ctx, email)
}

func (s *appService) ListCustomers(ctx context.Context, f core.CustomerFilter, page core.Page) (*CustomerListResult, error) {
	page = page.Normalize()
	customers, total, err := s.customers.GetCustomers(ctx, f, page)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{
		Customers:  customers,
		Total:      total,
		Page:       page.Number,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages(total),
	}, nil
}

func (s *appService) UpdateCustomer(ctx context.Context, id uuid.UUID, patch core.CustomerPatch) (*core.Customer, error) {
	return s.customers.UpdateCustomer(ctx, id, patch)
}

func (s *appService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return s.customers.DeleteCustomer(ctx, id)
}

func (s *appService) InactivateCustomer(ctx context.Context, id uuid.UUID, actor string) (*core.Customer, error) {
	return s.customers.InactivateCustomer(ctx, id, actor)
}

func (s *appService) SearchCustomers(ctx context.Context, term string, limit int) ([]core.Customer, error) {
	return s.customers.SearchCustomers(ctx, term, limit)
}

func (s *appService) GetCustomerStats(ctx context.Context) (*core.CustomerStats, error) {
	return s.customers.GetCustomerStats(ctx)
}
