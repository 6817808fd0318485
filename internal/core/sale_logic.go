package core

import (
	"fmt"
	"unicode/utf8"
)

const maxReferenceLen = 100

// SaleTotals is the result of aggregating the line items of one sale.
type SaleTotals struct {
	Items         []SaleItem
	Subtotal      Cents
	DiscountTotal Cents
	TotalDue      Cents
}

// AggregateItems validates the line items and computes every item subtotal, the sale
// subtotal and the total due after the sale-level discount.
//
// An item discount larger than the item's gross amount is accepted and produces a
// negative item subtotal; the bound is deliberately not enforced.
func AggregateItems(items []SaleItemInput, saleDiscount Cents) (*SaleTotals, error) {
	if len(items) == 0 {
		return nil, invalid("itens", "sale must have at least one item")
	}
	if saleDiscount < 0 {
		return nil, invalid("desconto_total", "must be >= 0, got %d", saleDiscount)
	}

	totals := &SaleTotals{
		Items:         make([]SaleItem, 0, len(items)),
		DiscountTotal: saleDiscount,
	}
	for i, in := range items {
		field := fmt.Sprintf("itens[%d]", i)
		if in.Quantity <= 0 {
			return nil, invalid(field+".quantidade", "must be > 0, got %d", in.Quantity)
		}
		if in.UnitPrice < 0 {
			return nil, invalid(field+".preco_unitario", "must be >= 0, got %d", in.UnitPrice)
		}
		if in.Discount < 0 {
			return nil, invalid(field+".desconto_item", "must be >= 0, got %d", in.Discount)
		}

		subtotal := Cents(in.Quantity)*in.UnitPrice - in.Discount
		totals.Subtotal += subtotal
		totals.Items = append(totals.Items, SaleItem{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
			Discount:  in.Discount,
			Subtotal:  subtotal,
		})
	}
	totals.TotalDue = totals.Subtotal - saleDiscount
	return totals, nil
}

// ReconcilePayments checks that the payments cover totalDue exactly and computes the
// change of each cash tender. Insufficient cash (negative change) is not rejected.
func ReconcilePayments(payments []SalePaymentInput, totalDue Cents) ([]SalePayment, error) {
	if len(payments) == 0 {
		return nil, invalid("pagamentos", "at least one payment must be given")
	}

	out := make([]SalePayment, 0, len(payments))
	var paid Cents
	for i, in := range payments {
		field := fmt.Sprintf("pagamentos[%d]", i)
		if !in.Method.Valid() {
			return nil, invalid(field+".forma_pagamento", "unknown payment method %q", in.Method)
		}
		if in.Amount <= 0 {
			return nil, invalid(field+".valor_pago", "must be > 0, got %d", in.Amount)
		}
		if utf8.RuneCountInString(in.TransactionNumber) > maxReferenceLen {
			return nil, invalid(field+".numero_transacao", "must be at most %d characters", maxReferenceLen)
		}
		if utf8.RuneCountInString(in.AuthorizationNumber) > maxReferenceLen {
			return nil, invalid(field+".numero_autorizacao", "must be at most %d characters", maxReferenceLen)
		}

		p := SalePayment{
			Method:              in.Method,
			Amount:              in.Amount,
			TransactionNumber:   in.TransactionNumber,
			AuthorizationNumber: in.AuthorizationNumber,
		}
		if in.Tendered != nil {
			tendered := *in.Tendered
			p.Tendered = &tendered
		}
		p.Change = CashChange(in.Method, in.Amount, in.Tendered)

		paid += in.Amount
		out = append(out, p)
	}

	if paid != totalDue {
		return nil, &PaymentMismatchError{Paid: paid, Due: totalDue}
	}
	return out, nil
}

// CashChange returns tendered - amount for a cash payment with a tendered value, else 0.
// A supplied tendered of zero is a value like any other; the result may be negative.
func CashChange(method PaymentMethod, amount Cents, tendered *Cents) Cents {
	if method != PaymentCash || tendered == nil {
		return 0
	}
	return *tendered - amount
}

// BuildSale runs the computing stage of a sale: it aggregates items, reconciles
// payments against the computed total and returns an unsaved Completed sale.
// Identifiers, sale number, timestamps and product snapshots are assigned on persist.
func BuildSale(in CreateSaleInput) (*Sale, error) {
	if utf8.RuneCountInString(in.CreatedBy) > maxReferenceLen {
		return nil, invalid("criado_por", "must be at most %d characters", maxReferenceLen)
	}

	totals, err := AggregateItems(in.Items, in.DiscountTotal)
	if err != nil {
		return nil, err
	}
	payments, err := ReconcilePayments(in.Payments, totals.TotalDue)
	if err != nil {
		return nil, err
	}

	return &Sale{
		CustomerID:    in.CustomerID,
		SalespersonID: in.SalespersonID,
		Subtotal:      totals.Subtotal,
		DiscountTotal: totals.DiscountTotal,
		TotalDue:      totals.TotalDue,
		Status:        SaleStatusCompleted,
		Notes:         in.Notes,
		CreatedBy:     in.CreatedBy,
		Items:         totals.Items,
		Payments:      payments,
	}, nil
}
