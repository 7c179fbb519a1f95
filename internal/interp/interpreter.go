package interp

import (
	"fmt"

	"github.com/kmoutsos/triphub/internal/domain"
)

// Interpreter turns a free-text command plus a trip snapshot into a delta
// update, or domain.ErrNoMatch when no rule recognizes the input.
//
// It is a pure function of its inputs given the injected clock and id
// generator: fix both and identical commands produce identical deltas.
type Interpreter struct {
	clock domain.Clock
	ids   domain.IDGen
	rules []rule
}

// New constructs an Interpreter with the standard rule cascade.
func New(clock domain.Clock, ids domain.IDGen) *Interpreter {
	return &Interpreter{clock: clock, ids: ids, rules: rules()}
}

// Interpret runs the rule cascade over text. The first matching rule wins.
// Returns domain.ErrNoMatch when no rule matches, signalling the caller to
// try the remote fallback; it never returns any other error and never
// panics — a panicking rule is treated as no-match so one malformed rule
// can never block fallback routing.
func (it *Interpreter) Interpret(text string, trip *domain.Trip) (domain.DeltaUpdate, error) {
	_, upd, ok := it.Match(text, trip)
	if !ok {
		return domain.DeltaUpdate{}, fmt.Errorf("interp.Interpreter.Interpret: %w", domain.ErrNoMatch)
	}
	return upd, nil
}

// Match is Interpret plus the name of the rule that fired, for tests pinning
// the cascade order against shadowing regressions.
func (it *Interpreter) Match(text string, trip *domain.Trip) (name string, upd domain.DeltaUpdate, ok bool) {
	c := &command{text: text, trip: trip, now: it.clock.Now(), ids: it.ids}
	for _, r := range it.rules {
		if name, upd, ok = it.tryRule(r, c); ok {
			return name, upd, true
		}
	}
	return "", domain.DeltaUpdate{}, false
}

// tryRule runs one rule with panic isolation: a rule that blows up on a
// pathological input reports no-match instead of taking the interpreter down.
func (it *Interpreter) tryRule(r rule, c *command) (name string, upd domain.DeltaUpdate, ok bool) {
	defer func() {
		if recover() != nil {
			name, upd, ok = "", domain.DeltaUpdate{}, false
		}
	}()
	if u, matched := r.apply(c); matched {
		return r.name, u, true
	}
	return "", domain.DeltaUpdate{}, false
}
