package interp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kmoutsos/triphub/internal/domain"
)

// command bundles one interpretation request: the raw text, the trip snapshot
// it runs against, and the injected clock/id dependencies.
type command struct {
	text string
	trip *domain.Trip
	now  time.Time
	ids  domain.IDGen
}

// rule is one recognized command shape. apply reports whether the rule's
// pattern matched; on a match it returns the complete delta update (or a
// user-facing error summary with no trip fragments).
//
// Rules are evaluated in a fixed order and the first match wins, so earlier
// rules must be more specific than later ones: subset-split before even-split
// before the generic "description $amount" catch-all, and the activity
// catch-all dead last.
type rule struct {
	name  string
	apply func(c *command) (domain.DeltaUpdate, bool)
}

// rules returns the ordered cascade. The order is load-bearing and pinned by
// tests; append new shapes where their specificity dictates, not at the end.
func rules() []rule {
	return []rule{
		{name: "subset-split", apply: matchSubsetSplit},
		{name: "even-split", apply: matchEvenSplit},
		{name: "someone-paid", apply: matchSomeonePaid},
		{name: "ride", apply: matchRide},
		{name: "meal", apply: matchMeal},
		{name: "generic-expense", apply: matchGenericExpense},
		{name: "add-traveller", apply: matchAddTraveller},
		{name: "transit", apply: matchTransit},
		{name: "tagged-expense", apply: matchTaggedExpense},
		{name: "flight", apply: matchFlight},
		{name: "stay", apply: matchStay},
		{name: "activity", apply: matchActivity},
	}
}

var (
	subsetSplitRe = regexp.MustCompile(`(?i)^(.+?)\s+\$(\d+(?:\.\d{2})?)\s+split\s+(?:between|with|among)\s+(.+)$`)
	nameSepRe     = regexp.MustCompile(`(?i),|&|\s+and\s+`)

	evenSplitRe = regexp.MustCompile(`(?i)^(.+?)\s+\$(\d+(?:\.\d{2})?)\s+split(?:\s+evenly)?$`)

	someonePaidRe = regexp.MustCompile(`(?i)^(.+?)\s+(?:paid|covered)\s+\$(\d+(?:\.\d{2})?)(?:\s+for\s+(.+?))?$`)

	rideRe = regexp.MustCompile(`(?i)^(?:uber|taxi|lyft|ride)(?:\s+(?:to|from))?\s+(.+?)\s+\$(\d+(?:\.\d{2})?)$`)

	mealRe = regexp.MustCompile(`(?i)^(breakfast|lunch|dinner|brunch)(?:\s+at\s+(.+?))?\s+\$(\d+(?:\.\d{2})?)$`)

	genericExpenseRe = regexp.MustCompile(`(?i)^(.+?)\s*\$(\d+(?:\.\d{2})?)(?:\s+for\s+(.+?))?$`)

	addTravellerRe = regexp.MustCompile(`(?i)^(?:add|new)\s+(?:travell?er|person|guest|member)\s+(.+)$`)

	transitRe = regexp.MustCompile(`(?i)^(?:take\s+)?(train|ferry|bus|ferries)\s+(?:from\s+)?(.+?)\s+to\s+(.+?)(?:\s+(?:on\s+|at\s+)?(.+))?$`)

	taggedExpenseRe = regexp.MustCompile(`(?i)^(?:add\s+|log\s+)?(?:expense\s+(?:for\s+)?|cost\s+(?:of\s+)?)?(?:lunch|dinner|breakfast|brunch|coffee|tea|snacks|drinks|taxi|uber|lyft|rental|car|groceries|food|restaurant|tickets|museum|entry|admission|souvenirs?|shopping|gas|fuel|parking|toll|tips?|hotel|accommodation|insurance)?\s*(.+?)\s+\$(\d+(?:\.\d{2})?).*$`)
	paidByRe      = regexp.MustCompile(`(?i)paid\s+by\s+([a-z]+)`)
	splitClauseRe = regexp.MustCompile(`(?i)(?:split|shared|divided)\s+(?:with|between|among)\s+(.+)$`)

	flightRe = regexp.MustCompile(`(?i)^(?:book\s+|add\s+)?(?:flight|fly)(?:\s+from)?\s+(.+?)\s+(?:to|->|→)\s+(.+?)(?:\s+(?:on|from|starting|leaving)?\s*)?((?:\d{4}-\d{2}-\d{2}|(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t)?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+\d{1,2}).*)?$`)
	monthTokenRe  = regexp.MustCompile(`(?i)(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*`)
	dateRangeSep  = regexp.MustCompile(`(?i)\s*(?:\bto\b|\buntil\b|[-–])\s*`)
	bareNumberRe  = regexp.MustCompile(`^\d+$`)

	stayRe = regexp.MustCompile(`(?i)^(?:book\s+|add\s+)?(?:hotel|stay|room|airbnb|accommodation|hostel)(?:\s+(?:in|at|near))?\s+(.+?)\s+(?:from\s+|starting\s+|on\s+|for\s+)?((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d+(?:(?:-|–|to)\d+)?.*)$`)

	activityRe = regexp.MustCompile(`(?i)^(?:add\s+|visit\s+|see\s+|go\s+to\s+)?(.+?)(?:\s+(?:at|@)\s+)?(\d{1,2}(?::\d{2})?(?:\s*[ap]m)?)(?:\s+(?:on|for)?\s*)?(.+)?$`)
)

// ---- expense shapes --------------------------------------------------------

// matchSubsetSplit handles "<title> $<amt> split between <names>".
// Participants are the resolved names only; unmatched names are ignored.
// When nothing resolves, it returns an error-style summary and no fragments.
// The payer is the first resolved participant.
func matchSubsetSplit(c *command) (domain.DeltaUpdate, bool) {
	m := subsetSplitRe.FindStringSubmatch(c.text)
	if m == nil {
		return domain.DeltaUpdate{}, false
	}
	title := strings.TrimSpace(m[1])
	amount := parseAmount(m[2])

	var participants []string
	var found []string
	for _, raw := range nameSepRe.Split(m[3], -1) {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if t, ok := ResolveTraveller(name, c.trip.Travellers); ok {
			participants = append(participants, t.ID)
			found = append(found, t.Name)
		}
	}

	if len(participants) == 0 {
		return domain.DeltaUpdate{
			Summary: fmt.Sprintf("Could not find travellers: %q. Check spelling?", strings.TrimSpace(m[3])),
		}, true
	}

	exp := c.newExpense(title, amount, domain.CategoryOther, participants[0], participants)
	return c.expenseUpdate(exp, fmt.Sprintf("Split %s ($%s) between %s", title, fmtAmount(amount), strings.Join(found, ", "))), true
}

// matchEvenSplit handles "<title> $<amt> split [evenly]": the whole roster
// participates and the first traveller is the payer.
func matchEvenSplit(c *command) (domain.DeltaUpdate, bool) {
	m := evenSplitRe.FindStringSubmatch(c.text)
	if m == nil {
		return domain.DeltaUpdate{}, false
	}
	title := strings.TrimSpace(m[1])
	amount := parseAmount(m[2])

	participants := c.trip.TravellerIDs()
	exp := c.newExpense(title, amount, domain.CategoryOther, firstOrUnknown(participants), participants)
	return c.expenseUpdate(exp, fmt.Sprintf("Split %s ($%s) evenly among everyone", title, fmtAmount(amount))), true
}

// matchSomeonePaid handles "<name> paid $<amt> [for <reason>]": the named
// traveller covered the amount for the whole roster. An unresolved name
// yields an error-style summary without creating an expense.
func matchSomeonePaid(c *command) (domain.DeltaUpdate, bool) {
	m := someonePaidRe.FindStringSubmatch(c.text)
	if m == nil {
		return domain.DeltaUpdate{}, false
	}
	amount := parseAmount(m[2])
	reason := strings.TrimSpace(m[3])

	payer, ok := ResolveTraveller(m[1], c.trip.Travellers)
	if !ok {
		return domain.DeltaUpdate{
			Summary: fmt.Sprintf("Couldn't find traveller %q. Add them to the trip first.", strings.TrimSpace(m[1])),
		}, true
	}

	title := "Paid by " + payer.Name
	suffix := ""
	if reason != "" {
		title = reason
		suffix = " for " + reason
	}

	exp := c.newExpense(title, amount, domain.CategoryOther, payer.ID, c.trip.TravellerIDs())
	return c.expenseUpdate(exp, fmt.Sprintf("%s paid $%s%s - split evenly among everyone", payer.Name, fmtAmount(amount), suffix)), true
}

// matchRide handles "taxi/uber/lyft/ride [to] <where> $<amt>", split evenly
// across the roster.
func matchRide(c *command) (domain.DeltaUpdate, bool) {
	m := rideRe.FindStringSubmatch(c.text)
	if m == nil {
		return domain.DeltaUpdate{}, false
	}
	amount := parseAmount(m[2])
	title := "Ride"
	if where := strings.TrimSpace(m[1]); where != "" {
		title = "Ride to " + where
	}

	participants := c.trip.TravellerIDs()
	exp := c.newExpense(title, amount, domain.CategoryTransport, firstOrUnknown(participants), participants)
	return c.expenseUpdate(exp, fmt.Sprintf("Added %s ($%s) - split evenly", title, fmtAmount(amount))), true
}

// matchMeal handles "breakfast/lunch/dinner/brunch [at <place>] $<amt>" as a
// food-category expense split evenly across the roster.
func matchMeal(c *command) (domain.DeltaUpdate, bool) {
	m := mealRe.FindStringSubmatch(c.text)
	if m == nil {
		return domain.DeltaUpdate{}, false
	}
	amount := parseAmount(m[3])
	title := strings.ToLower(m[1])
	if place := strings.TrimSpace(m[2]); place != "" {
		title = title + " at " + place
	}
	title = strings.ToUpper(title[:1]) + title[1:]

	participants := c.trip.TravellerIDs()
	exp := c.newExpense(title, amount, domain.CategoryFood, firstOrUnknown(participants), participants)
	return c.expenseUpdate(exp, fmt.Sprintf("Added %s ($%s) - split evenly", title, fmtAmount(amount))), true
}

// matchGenericExpense is the broad "description $amount [for reason]" shape,
// anchored at end of input so trailing clauses ("... paid by Bob") fall
// through to the tagged-expense rule instead.
func matchGenericExpense(c *command) (domain.DeltaUpdate, bool) {
	m := genericExpenseRe.FindStringSubmatch(c.text)
	if m == nil || looksScheduled(c.text) {
		return domain.DeltaUpdate{}, false
	}
	amount := parseAmount(m[2])
	title := strings.TrimSpace(m[1])
	if forWhat := strings.TrimSpace(m[3]); forWhat != "" {
		title = title + " for " + forWhat
	}

	participants := c.trip.TravellerIDs()
	exp := c.newExpense(title, amount, domain.CategoryOther, firstOrUnknown(participants), participants)
	return c.expenseUpdate(exp, fmt.Sprintf("Added expense: %s ($%s) - split evenly", title, fmtAmount(amount))), true
}

// matchTaggedExpense handles expense commands that carry explicit payer or
// participant clauses: "... $<amt> ... paid by <name>", "... split with
// <names>". The payer is folded into the participants; absent clauses default
// to the whole roster with the first participant paying.
func matchTaggedExpense(c *command) (domain.DeltaUpdate, bool) {
	m := taggedExpenseRe.FindStringSubmatch(c.text)
	if m == nil || looksScheduled(c.text) {
		return domain.DeltaUpdate{}, false
	}
	title := strings.TrimSpace(m[1])
	amount := parseAmount(m[2])

	payerID := ""
	if pm := paidByRe.FindStringSubmatch(c.text); pm != nil {
		if t, ok := ResolveTraveller(pm[1], c.trip.Travellers); ok {
			payerID = t.ID
		}
	}

	var participants []string
	if sc := splitClauseRe.FindStringSubmatch(c.text); sc != nil {
		clause := strings.ToLower(sc[1])
		for _, t := range c.trip.Travellers {
			if t.Name != "" && strings.Contains(clause, strings.ToLower(t.Name)) {
				participants = append(participants, t.ID)
			}
		}
		if payerID != "" && !contains(participants, payerID) {
			participants = append(participants, payerID)
		}
	}
	if len(participants) == 0 {
		participants = c.trip.TravellerIDs()
	}
	if payerID == "" {
		payerID = firstOrUnknown(participants)
	}

	exp := c.newExpense(title, amount, domain.CategoryOther, payerID, participants)
	return c.expenseUpdate(exp, fmt.Sprintf("Added expense: %s ($%s)", title, fmtAmount(amount))), true
}

// ---- roster ----------------------------------------------------------------

// matchAddTraveller handles "add traveller <name>".
func matchAddTraveller(c *command) (domain.DeltaUpdate, bool) {
	m := addTravellerRe.FindStringSubmatch(c.text)
	if m == nil {
		return domain.DeltaUpdate{}, false
	}
	name := strings.TrimSpace(m[1])
	t := domain.Traveller{
		ID:     c.ids.NewID("trav"),
		TripID: c.trip.ID,
		Name:   name,
	}
	return domain.DeltaUpdate{
		Summary: "Added traveller: " + name,
		Trips:   []domain.TripDelta{{ID: c.trip.ID, Travellers: []domain.Traveller{t}}},
	}, true
}

// ---- bookings --------------------------------------------------------------

// matchTransit handles "train/ferry/bus <from> to <to> [on/at <date-time>]".
func matchTransit(c *command) (domain.DeltaUpdate, bool) {
	m := transitRe.FindStringSubmatch(c.text)
	if m == nil {
		return domain.DeltaUpdate{}, false
	}
	mode := strings.ToLower(m[1])
	if mode == "ferries" {
		mode = "ferry"
	}
	from := strings.TrimSpace(m[2])
	to := strings.TrimSpace(m[3])
	dt := NormalizeDateTime(m[4], c.now)

	seg := domain.Transit{
		ID:            c.ids.NewID("transit"),
		TripID:        c.trip.ID,
		Type:          domain.TransitType(mode),
		Operator:      strings.ToUpper(mode),
		From:          from,
		To:            to,
		DepartureDate: dt.Date,
		DepartureTime: dt.Time,
		IsBooked:      false,
	}
	return domain.DeltaUpdate{
		Summary: fmt.Sprintf("Added %s: %s → %s", mode, from, to),
		Trips:   []domain.TripDelta{{ID: c.trip.ID, Transit: []domain.Transit{seg}}},
	}, true
}

// matchFlight handles "flight <from> to <to> [on <date[-date]>]". A date
// range produces an outbound and a mirrored return leg sharing one trip
// fragment. Traveller attribution scans the whole input for a roster name.
func matchFlight(c *command) (domain.DeltaUpdate, bool) {
	m := flightRe.FindStringSubmatch(c.text)
	if m == nil {
		return domain.DeltaUpdate{}, false
	}
	fromPlace := ParsePlace(m[1])
	toPlace := ParsePlace(m[2])

	dateStr := strings.TrimSpace(m[3])
	var parts []string
	if isoDateRe.MatchString(dateStr) {
		// A lone ISO date must not be split on its own hyphens.
		parts = []string{dateStr}
	} else {
		parts = dateRangeSep.Split(dateStr, -1)
	}
	dt := NormalizeDateTime(strings.TrimSpace(parts[0]), c.now)

	travellerID := ""
	if t, ok := FindTravellerIn(c.text, c.trip.Travellers); ok {
		travellerID = t.ID
	}

	outbound := domain.Flight{
		ID:               c.ids.NewID("flight"),
		TripID:           c.trip.ID,
		TravellerID:      travellerID,
		Airline:          "Flight",
		FlightNumber:     "TBD",
		DepartureAirport: fromPlace.Code,
		DepartureCity:    fromPlace.City,
		DepartureDate:    dt.Date,
		DepartureTime:    dt.Time,
		ArrivalAirport:   toPlace.Code,
		ArrivalCity:      toPlace.City,
		ArrivalDate:      dt.Date,
		ArrivalTime:      "14:00",
		Status:           domain.FlightPending,
	}
	flights := []domain.Flight{outbound}

	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		retStr := strings.TrimSpace(parts[1])
		// "July 3-18": a bare return day inherits the outbound month.
		if bareNumberRe.MatchString(retStr) {
			if mon := monthTokenRe.FindString(parts[0]); mon != "" {
				retStr = mon + " " + retStr
			}
		}
		rdt := NormalizeDateTime(retStr, c.now)
		ret := outbound
		ret.ID = c.ids.NewID("flight")
		ret.DepartureAirport = toPlace.Code
		ret.DepartureCity = toPlace.City
		ret.ArrivalAirport = fromPlace.Code
		ret.ArrivalCity = fromPlace.City
		ret.DepartureDate = rdt.Date
		ret.ArrivalDate = rdt.Date
		ret.DepartureTime = "10:00"
		ret.ArrivalTime = "14:00"
		flights = append(flights, ret)
	}

	return domain.DeltaUpdate{
		Summary: fmt.Sprintf("Added %d flight(s): %s (%s) <-> %s (%s)",
			len(flights), fromPlace.City, fromPlace.Code, toPlace.City, toPlace.Code),
		Trips: []domain.TripDelta{{ID: c.trip.ID, Flights: flights}},
	}, true
}

// matchStay handles "hotel/stay in <location> <date range>". A range end
// given as a bare day number ("July 4-10") inherits the start's month.
func matchStay(c *command) (domain.DeltaUpdate, bool) {
	m := stayRe.FindStringSubmatch(c.text)
	if m == nil {
		return domain.DeltaUpdate{}, false
	}
	loc := strings.TrimSpace(m[1])
	parts := dateRangeSep.Split(m[2], -1)

	startStr := strings.TrimSpace(parts[0])
	start := NormalizeDateTime(startStr, c.now)
	end := start.Date

	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		endStr := strings.TrimSpace(parts[1])
		if bareNumberRe.MatchString(endStr) {
			if mon := monthTokenRe.FindString(startStr); mon != "" {
				endStr = mon + " " + endStr
			}
		}
		end = NormalizeDateTime(endStr, c.now).Date
	}

	stay := domain.Accommodation{
		ID:           c.ids.NewID("stay"),
		TripID:       c.trip.ID,
		Name:         "Stay in " + loc,
		Address:      loc,
		CheckInDate:  start.Date,
		CheckInTime:  "15:00",
		CheckOutDate: end,
		CheckOutTime: "11:00",
		Currency:     c.trip.Currency(),
		IsBooked:     false,
	}
	return domain.DeltaUpdate{
		Summary: fmt.Sprintf("Added stay: %s (%s to %s)", loc, start.Date, end),
		Trips:   []domain.TripDelta{{ID: c.trip.ID, Accommodations: []domain.Accommodation{stay}}},
	}, true
}

// ---- itinerary -------------------------------------------------------------

// matchActivity is the lowest-priority catch-all for "<title> [at <time>]
// [on <date>]". It refuses inputs that smell like money, transit, or lodging
// so that a formatting quirk in an earlier rule's input still routes to the
// remote fallback instead of becoming a bogus itinerary item.
func matchActivity(c *command) (domain.DeltaUpdate, bool) {
	m := activityRe.FindStringSubmatch(c.text)
	if m == nil {
		return domain.DeltaUpdate{}, false
	}
	title := strings.TrimSpace(m[1])
	lower := strings.ToLower(title)

	excluded := strings.Contains(c.text, "$") ||
		strings.Contains(lower, "paid") ||
		strings.Contains(lower, "cost") ||
		strings.Contains(lower, "split") ||
		strings.Contains(lower, " to ") ||
		strings.Contains(lower, "->") ||
		strings.Contains(lower, "hotel") ||
		strings.Contains(lower, "room") ||
		strings.Contains(lower, "stay") ||
		strings.Contains(lower, "airbnb")
	if excluded {
		return domain.DeltaUpdate{}, false
	}

	dt := NormalizeDateTime(m[3], c.now)
	startTime := normalizeTime(m[2])

	item := domain.ItineraryItem{
		ID:        c.ids.NewID("act"),
		TripID:    c.trip.ID,
		Title:     title,
		Date:      dt.Date,
		StartTime: startTime,
		Category:  "activity",
		Status:    "confirmed",
	}
	day := domain.ItineraryDay{Date: dt.Date, Items: []domain.ItineraryItem{item}}
	return domain.DeltaUpdate{
		Summary: fmt.Sprintf("Added activity: %s on %s at %s", title, dt.Date, startTime),
		Trips:   []domain.TripDelta{{ID: c.trip.ID, Itinerary: []domain.ItineraryDay{day}}},
	}, true
}

// ---- helpers ---------------------------------------------------------------

// newExpense builds an evenly-split expense with the command's defaults:
// trip currency, today's date, and the paid flag set.
func (c *command) newExpense(title string, amount float64, cat domain.ExpenseCategory, payerID string, participants []string) domain.Expense {
	return domain.Expense{
		ID:                       c.ids.NewID("exp"),
		TripID:                   c.trip.ID,
		Title:                    title,
		Amount:                   amount,
		Currency:                 c.trip.Currency(),
		Date:                     c.now.Format("2006-01-02"),
		Category:                 cat,
		PaidByTravellerID:        payerID,
		SplitMethod:              domain.SplitEqual,
		ParticipantsTravellerIDs: participants,
		Splits:                   []domain.ExpenseSplit{},
		IsPaid:                   true,
		PaidAt:                   c.now.Format(time.RFC3339),
	}
}

// expenseUpdate wraps one expense into the delta contract.
func (c *command) expenseUpdate(exp domain.Expense, summary string) domain.DeltaUpdate {
	return domain.DeltaUpdate{
		Summary: summary,
		Trips:   []domain.TripDelta{{ID: c.trip.ID, Expenses: []domain.Expense{exp}}},
	}
}

func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		panic(fmt.Sprintf("interp: amount %q matched pattern but failed to parse: %v", s, err))
	}
	return v
}

// fmtAmount renders an amount the way it reads in chat: "20", "12.5".
func fmtAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func firstOrUnknown(ids []string) string {
	if len(ids) == 0 {
		return "unknown"
	}
	return ids[0]
}

// looksScheduled reports whether text carries an itinerary-style time-of-day
// or month-day fragment ("at 10am", "on July 5"). The broad expense rules
// refuse such inputs: an amount next to a schedule is ambiguous between a
// purchase and an activity, and routing it to the fallback beats guessing.
func looksScheduled(text string) bool {
	return timeBareRe.MatchString(text) || monthDayRe.MatchString(strings.ToLower(text))
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
