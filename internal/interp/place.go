package interp

import (
	"regexp"
	"strings"
)

// Place is a resolved location: a display city plus an optional 3-letter
// airport/port code.
type Place struct {
	City string
	Code string
}

var (
	parenCodeRe    = regexp.MustCompile(`\(([A-Za-z]{3})\)`)
	trailingCodeRe = regexp.MustCompile(`\b([A-Z]{3})$`)
	parenChunkRe   = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	trailingStrip  = regexp.MustCompile(`\s+[A-Z]{3}$`)
)

// ParsePlace splits free-form location text into a city and an optional code.
// A parenthesized 3-letter token ("Montreal (YUL)") takes precedence over a
// trailing bare uppercase token ("Montreal YUL"). The code and its
// parentheses are stripped from the city; with no code at all, City is the
// trimmed input and Code is empty.
func ParsePlace(raw string) Place {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Place{}
	}

	code := ""
	if m := parenCodeRe.FindStringSubmatch(raw); m != nil {
		code = strings.ToUpper(m[1])
	} else if m := trailingCodeRe.FindStringSubmatch(trimmed); m != nil {
		code = m[1]
	}

	city := parenChunkRe.ReplaceAllString(raw, " ")
	city = trailingStrip.ReplaceAllString(strings.TrimSpace(city), "")
	city = strings.TrimSpace(city)
	if city == "" {
		city = trimmed
	}
	return Place{City: city, Code: code}
}
