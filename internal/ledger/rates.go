// Package ledger computes per-traveller balances from a trip's expense
// history and reduces them to a short list of settling payments.
package ledger

// Rates converts money between currencies. Rate returns how many 'to' units
// one 'from' unit buys. Implementations may be static tables or live
// providers; the settlement algorithm only sees this interface.
type Rates interface {
	Rate(from, to string) float64
}

// StaticRates is a fixed from→to rate matrix.
type StaticRates map[string]map[string]float64

// Rate returns the table entry for from→to, or 0 when either side is
// missing. Callers should treat a non-positive rate as "unknown".
func (r StaticRates) Rate(from, to string) float64 {
	row, ok := r[from]
	if !ok {
		return 0
	}
	return row[to]
}

// DefaultRates returns the built-in CAD/USD/EUR/GBP/JPY/AUD matrix.
// These are snapshot rates, not live ones; swap in a live Rates
// implementation where accuracy matters.
func DefaultRates() StaticRates {
	return StaticRates{
		"CAD": {"CAD": 1, "USD": 0.73, "EUR": 0.68, "GBP": 0.58, "JPY": 110, "AUD": 1.12},
		"USD": {"CAD": 1.37, "USD": 1, "EUR": 0.93, "GBP": 0.79, "JPY": 150, "AUD": 1.53},
		"EUR": {"CAD": 1.47, "USD": 1.07, "EUR": 1, "GBP": 0.85, "JPY": 161, "AUD": 1.64},
		"GBP": {"CAD": 1.73, "USD": 1.26, "EUR": 1.18, "GBP": 1, "JPY": 189, "AUD": 1.93},
		"JPY": {"CAD": 0.0091, "USD": 0.0067, "EUR": 0.0062, "GBP": 0.0053, "JPY": 1, "AUD": 0.010},
		"AUD": {"CAD": 0.89, "USD": 0.65, "EUR": 0.61, "GBP": 0.52, "JPY": 97, "AUD": 1},
	}
}

// KnownCurrency reports whether code appears in the built-in rate matrix.
func KnownCurrency(code string) bool {
	_, ok := DefaultRates()[code]
	return ok
}

// Convert converts amount from one currency to another using rates.
// Same-currency conversion is exact; an unknown pair converts 1:1 rather
// than silently zeroing the amount.
func Convert(rates Rates, amount float64, from, to string) float64 {
	if from == "" || to == "" || from == to {
		return amount
	}
	r := rates.Rate(from, to)
	if r <= 0 {
		return amount
	}
	return amount * r
}
