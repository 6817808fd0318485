package core

import (
	"testing"
	"time"
)

func TestNewSaleSummary(t *testing.T) {
	byStatus := map[SaleStatus]int{
		SaleStatusCompleted: 3,
		SaleStatusCancelled: 1,
		SaleStatusPending:   0,
	}
	byMethod := map[PaymentMethod]PaymentMethodTotal{
		PaymentCash: {Count: 2, Amount: 3000},
		PaymentPIX:  {Count: 0, Amount: 0},
	}

	s := NewSaleSummary(SaleStatusCompleted, 3, 10000, byStatus, byMethod)

	if s.AverageTicket.String() != "3333.33" {
		t.Errorf("average ticket: got %s", s.AverageTicket)
	}
	if _, ok := s.ByStatus[SaleStatusPending]; ok {
		t.Error("empty status bucket should be dropped")
	}
	if s.ByStatus[SaleStatusCancelled] != 1 {
		t.Errorf("cancelled bucket: got %d", s.ByStatus[SaleStatusCancelled])
	}
	if _, ok := s.ByPaymentMethod[PaymentPIX]; ok {
		t.Error("empty method bucket should be dropped")
	}
}

func TestNewSaleSummary_Empty(t *testing.T) {
	s := NewSaleSummary(SaleStatusCompleted, 0, 0, nil, nil)
	if !s.AverageTicket.IsZero() {
		t.Errorf("average of no sales: got %s", s.AverageTicket)
	}
	if s.ByStatus == nil || s.ByPaymentMethod == nil {
		t.Error("maps should be non-nil for JSON output")
	}
}

func TestDayRange(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	from := time.Date(2024, time.May, 1, 22, 30, 0, 0, time.UTC)
	to := time.Date(2024, time.May, 3, 1, 0, 0, 0, time.UTC)

	start, end := dayRange(&from, &to, loc)
	if want := time.Date(2024, time.May, 1, 0, 0, 0, 0, loc); !start.Equal(want) {
		t.Errorf("start: got %v, want %v", start, want)
	}
	if want := time.Date(2024, time.May, 4, 0, 0, 0, 0, loc); !end.Equal(want) {
		t.Errorf("end: got %v, want %v", end, want)
	}

	start, end = dayRange(nil, nil, loc)
	if start != nil || end != nil {
		t.Error("nil bounds should stay nil")
	}
}

func TestSaleDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	// 01:30 UTC is still the previous evening in BRT.
	ts := time.Date(2024, time.June, 10, 1, 30, 0, 0, time.UTC)
	got := saleDay(ts, loc)
	if got.Format("2006-01-02") != "2024-06-09" {
		t.Errorf("got %s", got.Format("2006-01-02"))
	}
}
