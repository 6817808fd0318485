package core

import (
	"time"

	"github.com/google/uuid"
)

type ProductUnit string

const (
	UnitPiece   ProductUnit = "unidade"
	UnitKg      ProductUnit = "kg"
	UnitGram    ProductUnit = "g"
	UnitMeter   ProductUnit = "m"
	UnitCm      ProductUnit = "cm"
	UnitMm      ProductUnit = "mm"
	UnitLiter   ProductUnit = "l"
	UnitMl      ProductUnit = "ml"
	UnitBox     ProductUnit = "caixa"
	UnitPackage ProductUnit = "pacote"
)

func (u ProductUnit) Valid() bool {
	switch u {
	case UnitPiece, UnitKg, UnitGram, UnitMeter, UnitCm, UnitMm, UnitLiter, UnitMl, UnitBox, UnitPackage:
		return true
	}
	return false
}

type ProductStatus string

const (
	ProductActive    ProductStatus = "ativo"
	ProductInactive  ProductStatus = "inativo"
	ProductSoldOut   ProductStatus = "esgotado"
	ProductPromotion ProductStatus = "promocao"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductActive, ProductInactive, ProductSoldOut, ProductPromotion:
		return true
	}
	return false
}

// Category groups products for browsing and reporting.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"nome"`
	Description string     `json:"descricao"`
	CreatedAt   time.Time  `json:"data_criacao"`
	UpdatedAt   *time.Time `json:"data_atualizacao,omitempty"`
}

// CategoryInput is used to create or replace a category.
type CategoryInput struct {
	Name        string
	Description string
}

// Product is a catalog entry. Barcode and SKU are unique when set.
type Product struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"nome"`
	Description  string        `json:"descricao"`
	Barcode      string        `json:"codigo_barras"`
	SKU          string        `json:"sku"`
	SalePrice    Cents         `json:"preco_venda"`
	CostPrice    Cents         `json:"preco_custo"`
	Unit         ProductUnit   `json:"unidade_medida"`
	CategoryID   *uuid.UUID    `json:"categoria_id,omitempty"`
	CategoryName string        `json:"categoria_nome,omitempty"` // joined from categorias
	Status       ProductStatus `json:"status"`
	ImageURL     string        `json:"imagem_url"`
	Notes        string        `json:"observacoes"`
	CreatedAt    time.Time     `json:"data_criacao"`
	UpdatedAt    *time.Time    `json:"data_atualizacao,omitempty"`
	CreatedBy    string        `json:"criado_por"`
	UpdatedBy    string        `json:"atualizado_por"`
}

// ProductInput creates a product. Empty Unit and Status default to unidade/ativo.
type ProductInput struct {
	Name        string
	Description string
	Barcode     string
	SKU         string
	SalePrice   Cents
	CostPrice   Cents
	Unit        ProductUnit
	CategoryID  *uuid.UUID
	Status      ProductStatus
	ImageURL    string
	Notes       string
	CreatedBy   string
}

// ProductPatch is a partial product update; nil fields are left unchanged.
// ClearCategory removes the category link.
type ProductPatch struct {
	Name          *string
	Description   *string
	Barcode       *string
	SKU           *string
	SalePrice     *Cents
	CostPrice     *Cents
	Unit          *ProductUnit
	CategoryID    *uuid.UUID
	ClearCategory bool
	Status        *ProductStatus
	ImageURL      *string
	Notes         *string
	UpdatedBy     string
}

// ProductFilter narrows ListProducts. Zero values mean "no filter".
type ProductFilter struct {
	Name         string
	Barcode      string
	SKU          string
	Unit         *ProductUnit
	CategoryID   *uuid.UUID
	Status       *ProductStatus
	MinSalePrice *Cents
	MaxSalePrice *Cents
	MinCostPrice *Cents
	MaxCostPrice *Cents
}

// ProductStats is the catalog report.
type ProductStats struct {
	Total          int                   `json:"total_produtos"`
	ByStatus       map[ProductStatus]int `json:"por_status"`
	ByCategory     map[string]int        `json:"por_categoria"`
	TotalSaleValue Cents                 `json:"valor_total_estoque_venda"`
	TotalCostValue Cents                 `json:"valor_total_estoque_custo"`
}

// ProductSnapshot is the product data frozen onto a sale item.
type ProductSnapshot struct {
	Name    string
	Barcode string
	SKU     string
}
