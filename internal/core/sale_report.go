package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryFilter selects the sales that enter a summary.
// From and To are inclusive calendar days; a nil Status means Completed sales only.
type SummaryFilter struct {
	From   *time.Time
	To     *time.Time
	Status *SaleStatus
}

// PaymentMethodTotal aggregates the tenders of one payment method.
type PaymentMethodTotal struct {
	Count  int   `json:"quantidade"`
	Amount Cents `json:"valor"`
}

// SaleSummary is the sales report for a period.
//
// SalesCount, TotalAmount, AverageTicket and ByPaymentMethod cover the sales with the
// selected status. ByStatus covers every sale in the period and only lists statuses
// with at least one sale.
type SaleSummary struct {
	Status          SaleStatus                           `json:"status"`
	SalesCount      int                                  `json:"total_vendas"`
	TotalAmount     Cents                                `json:"valor_total"`
	AverageTicket   decimal.Decimal                      `json:"ticket_medio"`
	ByStatus        map[SaleStatus]int                   `json:"vendas_por_status"`
	ByPaymentMethod map[PaymentMethod]PaymentMethodTotal `json:"vendas_por_forma_pagamento"`
}

// NewSaleSummary assembles a summary from raw aggregates, computing the average ticket
// and dropping empty histogram buckets.
func NewSaleSummary(status SaleStatus, count int, total Cents, byStatus map[SaleStatus]int, byMethod map[PaymentMethod]PaymentMethodTotal) *SaleSummary {
	s := &SaleSummary{
		Status:          status,
		SalesCount:      count,
		TotalAmount:     total,
		AverageTicket:   AverageCents(total, count),
		ByStatus:        make(map[SaleStatus]int),
		ByPaymentMethod: make(map[PaymentMethod]PaymentMethodTotal),
	}
	for st, n := range byStatus {
		if n > 0 {
			s.ByStatus[st] = n
		}
	}
	for m, t := range byMethod {
		if t.Count > 0 {
			s.ByPaymentMethod[m] = t
		}
	}
	return s
}

// dayRange converts inclusive calendar days into the half-open timestamp range
// [from 00:00, to+1 00:00) in loc. Only the date part of from and to is used.
// Nil bounds stay nil.
func dayRange(from, to *time.Time, loc *time.Location) (start, end *time.Time) {
	if from != nil {
		d := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
		start = &d
	}
	if to != nil {
		d := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
		end = &d
	}
	return start, end
}
