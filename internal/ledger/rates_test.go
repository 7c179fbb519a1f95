package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kmoutsos/triphub/internal/ledger"
)

func TestConvert(t *testing.T) {
	rates := ledger.DefaultRates()

	assert.InDelta(t, 137, ledger.Convert(rates, 100, "USD", "CAD"), 0.001)
	assert.InDelta(t, 100, ledger.Convert(rates, 100, "CAD", "CAD"), 0.001)
	// empty sides mean "already in the preferred currency"
	assert.InDelta(t, 100, ledger.Convert(rates, 100, "", "CAD"), 0.001)
	// an unknown pair converts 1:1 instead of zeroing the amount
	assert.InDelta(t, 100, ledger.Convert(rates, 100, "CHF", "CAD"), 0.001)
}

func TestKnownCurrency(t *testing.T) {
	assert.True(t, ledger.KnownCurrency("CAD"))
	assert.True(t, ledger.KnownCurrency("JPY"))
	assert.False(t, ledger.KnownCurrency("CHF"))
	assert.False(t, ledger.KnownCurrency(""))
}

// Every currency in the matrix has a rate to every other, and the matrix
// round-trips to roughly 1 within rounding slack.
func TestDefaultRates_MatrixComplete(t *testing.T) {
	rates := ledger.DefaultRates()
	codes := []string{"CAD", "USD", "EUR", "GBP", "JPY", "AUD"}

	for _, from := range codes {
		for _, to := range codes {
			r := rates.Rate(from, to)
			assert.Positive(t, r, "%s->%s", from, to)
			back := rates.Rate(to, from)
			assert.InDelta(t, 1, r*back, 0.1, "%s<->%s round trip", from, to)
		}
	}
}
