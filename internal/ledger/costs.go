package ledger

import "github.com/kmoutsos/triphub/internal/domain"

// CostSummary is the trip's spend broken down by record kind, all converted
// into the trip's preferred currency. Settlement records are excluded — a
// repayment is not new spending.
type CostSummary struct {
	Currency      string  `json:"currency"`
	Flights       float64 `json:"flights"`
	Accommodation float64 `json:"accommodation"`
	Transit       float64 `json:"transit"`
	Expenses      float64 `json:"expenses"`
	Total         float64 `json:"total"`
}

// Costs totals every costed record on the trip.
func Costs(trip *domain.Trip, rates Rates) CostSummary {
	cur := trip.Currency()
	s := CostSummary{Currency: cur}

	for _, f := range trip.Flights {
		if f.Cost > 0 {
			s.Flights += Convert(rates, f.Cost, orDefault(f.Currency, cur), cur)
		}
	}
	for _, a := range trip.Accommodations {
		if a.Cost > 0 {
			s.Accommodation += Convert(rates, a.Cost, orDefault(a.Currency, cur), cur)
		}
	}
	for _, t := range trip.Transit {
		if t.Cost > 0 {
			s.Transit += Convert(rates, t.Cost, orDefault(t.Currency, cur), cur)
		}
	}
	for _, e := range trip.Expenses {
		if !e.IsSettlement() {
			s.Expenses += Convert(rates, e.Amount, orDefault(e.Currency, cur), cur)
		}
	}

	s.Flights = round2(s.Flights)
	s.Accommodation = round2(s.Accommodation)
	s.Transit = round2(s.Transit)
	s.Expenses = round2(s.Expenses)
	s.Total = round2(s.Flights + s.Accommodation + s.Transit + s.Expenses)
	return s
}

func orDefault(currency, fallback string) string {
	if currency == "" {
		return fallback
	}
	return currency
}
