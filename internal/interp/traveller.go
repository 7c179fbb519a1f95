package interp

import (
	"strings"

	"github.com/kmoutsos/triphub/internal/domain"
)

// ResolveTraveller returns the first roster entry whose name contains the
// fragment, case-insensitively ("ali" resolves to "Alice").
//
// This is a deliberately simple first-match heuristic: when a fragment
// matches several travellers ("Ann" against both "Anna" and "Annette") the
// one earliest in roster order wins. Collisions are not rejected.
func ResolveTraveller(fragment string, roster []domain.Traveller) (domain.Traveller, bool) {
	needle := strings.ToLower(strings.TrimSpace(fragment))
	if needle == "" {
		return domain.Traveller{}, false
	}
	for _, t := range roster {
		if strings.Contains(strings.ToLower(t.Name), needle) {
			return t, true
		}
	}
	return domain.Traveller{}, false
}

// FindTravellerIn scans text for any roster name occurring anywhere in it
// (case-insensitive) and returns the first hit in roster order. Used by the
// flight rule to attribute a leg ("flight for Bianca YUL to ATH").
func FindTravellerIn(text string, roster []domain.Traveller) (domain.Traveller, bool) {
	haystack := strings.ToLower(text)
	for _, t := range roster {
		if t.Name != "" && strings.Contains(haystack, strings.ToLower(t.Name)) {
			return t, true
		}
	}
	return domain.Traveller{}, false
}
