package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Clock supplies "now" to everything that needs it: today-defaults in date
// parsing, message timestamps, lastUpdated stamps. Production uses
// SystemClock; tests inject a fixed time so dates and timestamps are exact.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time in UTC.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant. For tests.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.T }

// IDGen mints record identifiers. Ids must be unique within the trip at the
// moment of creation; the prefix keeps them recognizable by record kind
// ("exp", "flight", "stay", ...).
type IDGen interface {
	NewID(prefix string) string
}

// UUIDGen produces "<prefix>-<uuid>" identifiers.
type UUIDGen struct{}

// NewID returns prefix + "-" + a fresh random UUID.
func (UUIDGen) NewID(prefix string) string { return prefix + "-" + uuid.NewString() }

// SeqGen produces deterministic "<prefix>-1", "<prefix>-2", ... identifiers.
// For tests asserting exact ids. Not safe for concurrent use.
type SeqGen struct {
	n int
}

// NewID returns the next sequential id for prefix.
func (g *SeqGen) NewID(prefix string) string {
	g.n++
	return prefix + "-" + strconv.Itoa(g.n)
}
