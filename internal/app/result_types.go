package app

import "pdv/internal/core"

// SaleResult is returned by single-sale operations.
type SaleResult struct {
	Sale *core.Sale
}

// SaleListResult is a page of sales.
type SaleListResult struct {
	Sales      []core.Sale `json:"vendas"`
	Total      int         `json:"total"`
	Page       int         `json:"pagina"`
	PerPage    int         `json:"por_pagina"`
	TotalPages int         `json:"total_paginas"`
}

// ProductListResult is a page of products.
type ProductListResult struct {
	Products   []core.Product `json:"produtos"`
	Total      int            `json:"total"`
	Page       int            `json:"pagina"`
	PerPage    int            `json:"por_pagina"`
	TotalPages int            `json:"total_paginas"`
}

// CustomerListResult is a page of customers.
type CustomerListResult struct {
	Customers  []core.Customer `json:"clientes"`
	Total      int             `json:"total"`
	Page       int             `json:"pagina"`
	PerPage    int             `json:"por_pagina"`
	TotalPages int             `json:"total_paginas"`
}
