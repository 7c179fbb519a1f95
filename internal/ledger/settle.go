package ledger

import (
	"math"
	"sort"

	"github.com/kmoutsos/triphub/internal/domain"
)

// epsilon treats balances within a cent of zero as settled.
const epsilon = 0.01

// settledTolerance is how close a recorded repayment must be to a suggested
// transfer (in preferred-currency units) to mark the suggestion settled.
const settledTolerance = 1.0

// Transfer is one suggested payment: From owes To the given amount in the
// trip's preferred currency. IsSettled flags suggestions that the settlement
// ledger already shows as paid.
type Transfer struct {
	FromID    string  `json:"fromTravellerId"`
	ToID      string  `json:"toTravellerId"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    float64 `json:"amount"`
	IsSettled bool    `json:"isSettled"`
}

// Settle computes the minimal-ish transfer list that zeroes out the trip's
// balances.
//
// Expenses are partitioned into real spending and settlement records (the
// reserved debt category); each partition yields its own per-traveller
// balance vector in the trip's preferred currency, each vector is greedily
// simplified, and a real transfer is flagged settled when the settlement
// ledger holds the reverse payment within settledTolerance.
//
// The greedy pass yields at most n-1 transfers for n unbalanced travellers
// but is not guaranteed globally transaction-minimal.
func Settle(trip *domain.Trip, rates Rates) []Transfer {
	if len(trip.Travellers) == 0 {
		return []Transfer{}
	}

	gross := Balances(trip, rates)
	settled := settlementBalances(trip, rates)

	grossList := simplify(gross)
	settledList := simplify(settled)

	names := make(map[string]string, len(trip.Travellers))
	for _, t := range trip.Travellers {
		names[t.ID] = t.Name
	}

	out := make([]Transfer, 0, len(grossList))
	for _, tr := range grossList {
		for _, s := range settledList {
			// A recorded repayment runs debtor→creditor, which the
			// settlement ledger sees as the payer gaining: endpoints swap.
			if s.FromID == tr.ToID && s.ToID == tr.FromID && math.Abs(s.Amount-tr.Amount) < settledTolerance {
				tr.IsSettled = true
				break
			}
		}
		tr.From = displayName(names, tr.FromID)
		tr.To = displayName(names, tr.ToID)
		out = append(out, tr)
	}
	return out
}

// Balances returns the per-traveller signed balance over real expenses,
// converted into the trip's preferred currency. Positive means the trip owes
// the traveller; negative means the traveller owes the trip.
func Balances(trip *domain.Trip, rates Rates) map[string]float64 {
	return balances(trip, rates, false)
}

// settlementBalances is Balances over the settlement-record partition.
func settlementBalances(trip *domain.Trip, rates Rates) map[string]float64 {
	return balances(trip, rates, true)
}

func balances(trip *domain.Trip, rates Rates, settlements bool) map[string]float64 {
	cur := trip.Currency()
	bal := make(map[string]float64, len(trip.Travellers))
	for _, t := range trip.Travellers {
		bal[t.ID] = 0
	}

	for _, exp := range trip.Expenses {
		if exp.IsSettlement() != settlements {
			continue
		}

		participants := exp.ParticipantsTravellerIDs
		if len(participants) == 0 {
			participants = trip.TravellerIDs()
		}

		converted := Convert(rates, exp.Amount, exp.Currency, cur)

		// The map guard drops ids that are not in the roster: a foreign
		// payer or participant from a bad remote delta cannot move money.
		if _, ok := bal[exp.PaidByTravellerID]; ok {
			bal[exp.PaidByTravellerID] += converted
		}

		for _, pid := range participants {
			if _, ok := bal[pid]; !ok {
				continue
			}
			share := converted / float64(max(1, len(participants)))
			if len(exp.Splits) > 0 {
				share = 0
				for _, sp := range exp.Splits {
					if sp.TravellerID == pid {
						share = Convert(rates, sp.Amount, exp.Currency, cur)
						break
					}
				}
			}
			bal[pid] -= share
		}
	}
	return bal
}

// simplify reduces a balance vector to transfers with a greedy two-pointer
// pass: largest debtor pays largest creditor, advance whichever side hits
// zero first.
func simplify(bal map[string]float64) []Transfer {
	type entry struct {
		id  string
		amt float64
	}

	var creds, debts []entry
	for id, b := range bal {
		switch {
		case b > epsilon:
			creds = append(creds, entry{id, b})
		case b < -epsilon:
			debts = append(debts, entry{id, b})
		}
	}
	// Magnitude order, id as tie-break so output is deterministic.
	sort.Slice(creds, func(i, j int) bool {
		if creds[i].amt != creds[j].amt {
			return creds[i].amt > creds[j].amt
		}
		return creds[i].id < creds[j].id
	})
	sort.Slice(debts, func(i, j int) bool {
		if debts[i].amt != debts[j].amt {
			return debts[i].amt < debts[j].amt
		}
		return debts[i].id < debts[j].id
	})

	var out []Transfer
	d, c := 0, 0
	for d < len(debts) && c < len(creds) {
		amount := math.Min(-debts[d].amt, creds[c].amt)
		out = append(out, Transfer{
			FromID: debts[d].id,
			ToID:   creds[c].id,
			Amount: round2(amount),
		})
		debts[d].amt += amount
		creds[c].amt -= amount
		if debts[d].amt > -epsilon {
			d++
		}
		if creds[c].amt < epsilon {
			c++
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func displayName(names map[string]string, id string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return "?"
}
