package core

import (
	"fmt"
	"time"
)

const saleNumberDayLayout = "20060102"

// FormatSaleNumber renders the human-readable sale number YYYYMMDD-NNNN for the
// seq-th sale (1-based) of the given day. Sequences above 9999 keep growing in width.
func FormatSaleNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("%s-%04d", day.Format(saleNumberDayLayout), seq)
}

// NextSaleNumber returns the number of the sale that follows createdToday sales on day.
func NextSaleNumber(day time.Time, createdToday int64) string {
	return FormatSaleNumber(day, createdToday+1)
}

// saleDay truncates t to its calendar day in loc.
func saleDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
