package dto

import (
	"encoding/json"
	"time"

	domainpricing "rentprice/internal/domain/pricing"
)

// CalendarDay is one priced day. Price keeps the currency's minor units,
// e.g. 70.00 for USD and 9800 for JPY.
type CalendarDay struct {
	Date     string      `json:"date"`
	Price    json.Number `json:"price"`
	Currency string      `json:"currency"`
}

func MapCalendar(days []domainpricing.DayPrice) []CalendarDay {
	out := make([]CalendarDay, 0, len(days))
	for _, d := range days {
		out = append(out, CalendarDay{
			Date:     d.Date.Format(time.DateOnly),
			Price:    json.Number(d.Price.String()),
			Currency: d.Price.Currency,
		})
	}
	return out
}
