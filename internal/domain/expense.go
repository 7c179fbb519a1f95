package domain

// ExpenseCategory classifies an expense. CategoryDebt is reserved for
// settlement records: expenses that record a repayment between two travellers
// rather than real spending. The ledger partitions on it.
type ExpenseCategory string

const (
	CategoryLodging    ExpenseCategory = "lodging"
	CategoryTransport  ExpenseCategory = "transport"
	CategoryFood       ExpenseCategory = "food"
	CategoryActivities ExpenseCategory = "activities"
	CategoryOther      ExpenseCategory = "other"
	CategoryDebt       ExpenseCategory = "debt"
)

// SplitMethod describes how an expense amount is divided across participants.
type SplitMethod string

const (
	SplitEqual   SplitMethod = "equal"
	SplitExact   SplitMethod = "exact"
	SplitPercent SplitMethod = "percent"
	SplitShares  SplitMethod = "shares"
)

// Expense is a cost shared across some subset of the roster.
// When Splits is empty, consumers compute an equal share per participant.
// When Splits is present, the declared amounts must reconcile to Amount
// within 0.01.
type Expense struct {
	ID                       string          `json:"id"`
	TripID                   string          `json:"tripId,omitempty"`
	Title                    string          `json:"title"`
	Category                 ExpenseCategory `json:"category"`
	Date                     string          `json:"date"` // "2006-01-02"
	Amount                   float64         `json:"amount"`
	Currency                 string          `json:"currency"`
	PaidByTravellerID        string          `json:"paidByTravellerId"`
	SplitMethod              SplitMethod     `json:"splitMethod"`
	ParticipantsTravellerIDs []string        `json:"participantsTravellerIds"`
	Splits                   []ExpenseSplit  `json:"splits"`
	IsPaid                   bool            `json:"isPaid"`
	PaidAt                   string          `json:"paidAt,omitempty"`
	Notes                    string          `json:"notes,omitempty"`
}

// IsSettlement reports whether this expense records a repayment rather than
// real spending. The reserved-category comparison lives here and nowhere else.
func (e Expense) IsSettlement() bool {
	return e.Category == CategoryDebt
}

// ExpenseSplit is one participant's declared contribution to an expense.
// Exactly one of Amount, Percent, or Shares is meaningful, depending on the
// expense's SplitMethod.
type ExpenseSplit struct {
	TravellerID string  `json:"travellerId"`
	Amount      float64 `json:"amount,omitempty"`
	Percent     float64 `json:"percent,omitempty"`
	Shares      float64 `json:"shares,omitempty"`
}
