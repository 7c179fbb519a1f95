// Package merge applies interpreter delta updates onto the authoritative
// trip snapshot. Flat collections are upserted by id (incoming wins), the
// itinerary is merged day-by-day with items unioned by id, and scalar fields
// present in the delta overwrite unconditionally.
//
// Merging is last-write-wins by design; there is no conflict detection. The
// caller must serialize merges for the same trip — no concurrent writers.
package merge

import "github.com/kmoutsos/triphub/internal/domain"

// Apply merges one trip fragment into trip and returns the result.
// Applying the same fragment twice yields the same collections as applying
// it once: upserts key on record id, so no duplicates arise.
//
// Participant ids referencing travellers outside the post-merge roster are
// dropped from expenses (with their split entries): a remote fallback delta
// with invented ids must not plant unaccountable references. An unknown
// payer id is left in place — the ledger excludes it from balances — so the
// rest of the expense stays usable.
func Apply(trip domain.Trip, d domain.TripDelta) domain.Trip {
	if d.ID != trip.ID {
		return trip
	}

	if d.Name != nil {
		trip.Name = *d.Name
	}
	if d.PreferredCurrency != nil {
		trip.PreferredCurrency = *d.PreferredCurrency
	}
	if d.Notes != nil {
		trip.Notes = *d.Notes
	}

	trip.Travellers = upsertByID(trip.Travellers, d.Travellers, func(t domain.Traveller) string { return t.ID })
	trip.Flights = upsertByID(trip.Flights, d.Flights, func(f domain.Flight) string { return f.ID })
	trip.Accommodations = upsertByID(trip.Accommodations, d.Accommodations, func(a domain.Accommodation) string { return a.ID })
	trip.Transit = upsertByID(trip.Transit, d.Transit, func(t domain.Transit) string { return t.ID })
	trip.Expenses = upsertByID(trip.Expenses, d.Expenses, func(e domain.Expense) string { return e.ID })
	trip.Links = upsertByID(trip.Links, d.Links, func(l domain.Link) string { return l.ID })
	trip.Itinerary = mergeItinerary(trip.Itinerary, d.Itinerary)

	trip.Expenses = sanitizeParticipants(trip)
	return trip
}

// upsertByID overwrites existing records by id and appends new ones,
// preserving the current ordering for records that already exist.
func upsertByID[T any](current, incoming []T, id func(T) string) []T {
	if len(incoming) == 0 {
		return current
	}
	out := make([]T, len(current))
	copy(out, current)

	index := make(map[string]int, len(out))
	for i, rec := range out {
		index[id(rec)] = i
	}
	for _, rec := range incoming {
		if i, ok := index[id(rec)]; ok {
			out[i] = rec
		} else {
			index[id(rec)] = len(out)
			out = append(out, rec)
		}
	}
	return out
}

// mergeItinerary matches incoming day buckets to existing ones by date. A
// matched day takes the incoming scalar fields and unions items by id; an
// unmatched day is appended whole.
func mergeItinerary(current, incoming []domain.ItineraryDay) []domain.ItineraryDay {
	if len(incoming) == 0 {
		return current
	}
	out := make([]domain.ItineraryDay, len(current))
	copy(out, current)

	for _, day := range incoming {
		idx := -1
		for i, d := range out {
			if d.Date == day.Date {
				idx = i
				break
			}
		}
		if idx < 0 {
			out = append(out, day)
			continue
		}
		merged := out[idx]
		if day.City != "" {
			merged.City = day.City
		}
		merged.Items = upsertByID(merged.Items, day.Items, func(it domain.ItineraryItem) string { return it.ID })
		out[idx] = merged
	}
	return out
}

// sanitizeParticipants drops expense participant ids (and their splits) that
// do not reference a roster traveller.
func sanitizeParticipants(trip domain.Trip) []domain.Expense {
	out := make([]domain.Expense, len(trip.Expenses))
	for i, exp := range trip.Expenses {
		kept := exp.ParticipantsTravellerIDs[:0:0]
		for _, pid := range exp.ParticipantsTravellerIDs {
			if trip.HasTraveller(pid) {
				kept = append(kept, pid)
			}
		}
		if len(kept) != len(exp.ParticipantsTravellerIDs) {
			exp.ParticipantsTravellerIDs = kept
			splits := exp.Splits[:0:0]
			for _, sp := range exp.Splits {
				if trip.HasTraveller(sp.TravellerID) {
					splits = append(splits, sp)
				}
			}
			exp.Splits = splits
		}
		out[i] = exp
	}
	return out
}
