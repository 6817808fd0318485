package app

import (
	"time"

	"pdv/internal/core"

	"github.com/google/uuid"
)

// CreateSaleRequest is the input for creating a sale.
type CreateSaleRequest = core.CreateSaleInput

// ListSalesRequest is the input for ListSales.
type ListSalesRequest struct {
	Filter core.SaleFilter
	Page   core.Page
}

// UpdateSaleRequest is the input for UpdateSale. Nil fields are left unchanged.
type UpdateSaleRequest struct {
	Status    *core.SaleStatus
	Notes     *string
	UpdatedBy string
}

// SummaryRequest is the input for GetSalesSummary. Dates are inclusive calendar days.
type SummaryRequest struct {
	From   *time.Time
	To     *time.Time
	Status *core.SaleStatus
}

// SalespersonSalesRequest is the input for GetSalespersonSales.
type SalespersonSalesRequest struct {
	SalespersonID uuid.UUID
	From          *time.Time
	To            *time.Time
}
