package core

import (
	"time"

	"github.com/google/uuid"
)

type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pendente"
	SaleStatusCompleted SaleStatus = "concluida"
	SaleStatusCancelled SaleStatus = "cancelada"
	SaleStatusReversed  SaleStatus = "estornada"
)

// SaleStatuses lists every status in display order.
var SaleStatuses = []SaleStatus{SaleStatusPending, SaleStatusCompleted, SaleStatusCancelled, SaleStatusReversed}

func (s SaleStatus) Valid() bool {
	switch s {
	case SaleStatusPending, SaleStatusCompleted, SaleStatusCancelled, SaleStatusReversed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "dinheiro"
	PaymentCreditCard  PaymentMethod = "cartao_credito"
	PaymentDebitCard   PaymentMethod = "cartao_debito"
	PaymentPIX         PaymentMethod = "pix"
	PaymentGiftCard    PaymentMethod = "vale_presente"
	PaymentStoreCredit PaymentMethod = "crediario"
)

// PaymentMethods lists every payment method in display order.
var PaymentMethods = []PaymentMethod{
	PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPIX, PaymentGiftCard, PaymentStoreCredit,
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPIX, PaymentGiftCard, PaymentStoreCredit:
		return true
	}
	return false
}

// Sale is the PDV sale aggregate: header, items and payments.
// Invariant: TotalDue = Subtotal - DiscountTotal.
type Sale struct {
	ID            uuid.UUID     `json:"id"`
	SaleNumber    string        `json:"numero_venda"`
	CustomerID    *uuid.UUID    `json:"cliente_id,omitempty"`
	SalespersonID *uuid.UUID    `json:"vendedor_id,omitempty"`
	Subtotal      Cents         `json:"subtotal"`
	DiscountTotal Cents         `json:"desconto_total"`
	TotalDue      Cents         `json:"total_venda"`
	Status        SaleStatus    `json:"status"`
	Notes         string        `json:"observacoes"`
	CreatedAt     time.Time     `json:"data_criacao"`
	UpdatedAt     *time.Time    `json:"data_atualizacao,omitempty"`
	CreatedBy     string        `json:"criado_por"`
	UpdatedBy     string        `json:"atualizado_por"`
	Items         []SaleItem    `json:"itens"`
	Payments      []SalePayment `json:"pagamentos"`

	// PreviousStatus is set only on the sale returned by UpdateSale.
	PreviousStatus SaleStatus `json:"-"`
}

// SaleItem is one product line. Product name, barcode and SKU are a snapshot taken
// when the sale was created and never follow later catalog changes.
type SaleItem struct {
	ID          uuid.UUID `json:"id"`
	SaleID      uuid.UUID `json:"venda_id"`
	ProductID   uuid.UUID `json:"produto_id"`
	Quantity    int64     `json:"quantidade"`
	UnitPrice   Cents     `json:"preco_unitario"`
	Discount    Cents     `json:"desconto_item"`
	Subtotal    Cents     `json:"subtotal_item"`
	ProductName string    `json:"nome_produto"`
	Barcode     string    `json:"codigo_barras"`
	SKU         string    `json:"sku"`
	CreatedAt   time.Time `json:"data_criacao"`
}

// SalePayment is one tender applied to a sale. Tendered and Change only carry
// meaning for cash.
type SalePayment struct {
	ID                  uuid.UUID     `json:"id"`
	SaleID              uuid.UUID     `json:"venda_id"`
	Method              PaymentMethod `json:"forma_pagamento"`
	Amount              Cents         `json:"valor_pago"`
	Tendered            *Cents        `json:"valor_recebido,omitempty"`
	Change              Cents         `json:"troco"`
	TransactionNumber   string        `json:"numero_transacao"`
	AuthorizationNumber string        `json:"numero_autorizacao"`
	CreatedAt           time.Time     `json:"data_criacao"`
}

// SaleItemInput is a requested line item.
type SaleItemInput struct {
	ProductID uuid.UUID
	Quantity  int64
	UnitPrice Cents
	Discount  Cents
}

// SalePaymentInput is a requested tender. Tendered is optional and only used for cash.
type SalePaymentInput struct {
	Method              PaymentMethod
	Amount              Cents
	Tendered            *Cents
	TransactionNumber   string
	AuthorizationNumber string
}

// CreateSaleInput carries everything needed to build and persist a sale.
type CreateSaleInput struct {
	CustomerID    *uuid.UUID
	SalespersonID *uuid.UUID
	DiscountTotal Cents
	Notes         string
	CreatedBy     string
	Items         []SaleItemInput
	Payments      []SalePaymentInput
}

// SaleFilter narrows ListSales. Zero values mean "no filter".
// From and To are inclusive calendar days.
type SaleFilter struct {
	From          *time.Time
	To            *time.Time
	CustomerID    *uuid.UUID
	SalespersonID *uuid.UUID
	Status        *SaleStatus
	SaleNumber    string
}

// UpdateSaleInput is a partial update of the mutable sale header fields.
type UpdateSaleInput struct {
	Status    *SaleStatus
	Notes     *string
	UpdatedBy string
}
