package app

import (
	"context"

	"pdv/internal/core"

	"github.com/google/uuid"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println and no display logic of any kind.
type ApplicationService interface {
	// ── Sales ──

	// CreateSale builds and persists a completed sale with its items and payments.
	CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResult, error)

	// GetSale returns a sale by UUID or by sale number (YYYYMMDD-NNNN).
	GetSale(ctx context.Context, ref string) (*SaleResult, error)

	// GetSaleByNumber returns a sale by its sale number.
	GetSaleByNumber(ctx context.Context, number string) (*SaleResult, error)

	// ListSales returns one page of sales matching the filter, newest first.
	ListSales(ctx context.Context, req ListSalesRequest) (*SaleListResult, error)

	// UpdateSale changes the status and/or notes of a sale.
	UpdateSale(ctx context.Context, id uuid.UUID, req UpdateSaleRequest) (*SaleResult, error)

	// CancelSale moves a sale to cancelada. Sales are never physically deleted.
	CancelSale(ctx context.Context, id uuid.UUID, actor string) (*SaleResult, error)

	// GetSalesSummary returns the sales report for a period.
	GetSalesSummary(ctx context.Context, req SummaryRequest) (*core.SaleSummary, error)

	// GetCustomerHistory returns the completed sales of a customer.
	GetCustomerHistory(ctx context.Context, customerID uuid.UUID) (*SaleListResult, error)

	// GetSalespersonSales returns the completed sales of a salesperson within an optional period.
	GetSalespersonSales(ctx context.Context, req SalespersonSalesRequest) (*SaleListResult, error)

	// ── Catalog ──

	CreateCategory(ctx context.Context, in core.CategoryInput) (*core.Category, error)
	ListCategories(ctx context.Context, page core.Page) ([]core.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*core.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in core.CategoryInput) (*core.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, in core.ProductInput) (*core.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*core.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*core.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*core.Product, error)
	ListProducts(ctx context.Context, f core.ProductFilter, page core.Page) (*ProductListResult, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch core.ProductPatch) (*core.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	InactivateProduct(ctx context.Context, id uuid.UUID, actor string) (*core.Product, error)
	SearchProducts(ctx context.Context, term string, limit int) ([]core.Product, error)
	GetProductStats(ctx context.Context) (*core.ProductStats, error)

	// ── Customers ──

	CreateCustomer(ctx context.Context, in core.CustomerInput) (*core.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*core.Customer, error)
	GetCustomerByDocument(ctx context.Context, document string) (*core.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*core.Customer, error)
	ListCustomers(ctx context.Context, f core.CustomerFilter, page core.Page) (*CustomerListResult, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, patch core.CustomerPatch) (*core.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	InactivateCustomer(ctx context.Context, id uuid.UUID, actor string) (*core.Customer, error)
	SearchCustomers(ctx context.Context, term string, limit int) ([]core.Customer, error)
	GetCustomerStats(ctx context.Context) (*core.CustomerStats, error)

	// Ping verifies database connectivity for health checks.
	Ping(ctx context.Context) error
}
