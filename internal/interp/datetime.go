// Package interp implements the local command interpreter: free-text trip
// commands are matched against an ordered list of intent rules and turned
// into delta updates. When no rule recognizes the input the interpreter
// returns domain.ErrNoMatch so the caller can try the remote fallback.
package interp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateTime is a normalized calendar point: an ISO date plus a 24-hour time.
type DateTime struct {
	Date string // "2006-01-02"
	Time string // "15:04"
}

// months maps month names and their common abbreviations to month numbers.
var months = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

var (
	timeWithMinutesRe = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s*(?:am|pm)?)`)
	timeBareRe        = regexp.MustCompile(`(?i)(\d{1,2}\s*(?:am|pm))`)
	clock24Re         = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	clock12Re         = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*([ap]m)$`)
	isoDateRe         = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthDayRe        = regexp.MustCompile(`\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t)?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b\.?\s+(\d{1,2})(?:\D+(\d{4}))?`)
	spacesRe          = regexp.MustCompile(`\s+`)
)

// NormalizeDateTime converts a free-form fragment into a DateTime.
//
// A time token ("10am", "7:30 pm", "14:00") is extracted first and stripped
// from the fragment before date parsing; absent a time, 12:00 is used. The
// remainder is recognized as an explicit "YYYY-MM-DD", or as
// "<month-name> <day>[, <year>]" with the year defaulting to now's year.
// Anything else (including an empty fragment) dates to now's calendar day.
//
// 12-hour conversion: pm adds 12 unless the hour is 12; 12am becomes 00.
// The function is pure given now.
func NormalizeDateTime(s string, now time.Time) DateTime {
	today := now.Format("2006-01-02")
	if strings.TrimSpace(s) == "" {
		return DateTime{Date: today, Time: "12:00"}
	}

	timeToken := ""
	if m := timeWithMinutesRe.FindString(s); m != "" {
		timeToken = m
	} else if m := timeBareRe.FindString(s); m != "" {
		timeToken = m
	}
	clock := normalizeTime(timeToken)

	cleaned := s
	if timeToken != "" {
		cleaned = strings.Replace(cleaned, timeToken, " ", 1)
	}
	cleaned = strings.TrimSpace(spacesRe.ReplaceAllString(cleaned, " "))

	if isoDateRe.MatchString(cleaned) {
		return DateTime{Date: cleaned, Time: clock}
	}

	if md := monthDayRe.FindStringSubmatch(strings.ToLower(cleaned)); md != nil {
		mon := months[strings.TrimSuffix(md[1], ".")]
		if mon == 0 {
			mon = 1
		}
		day, _ := strconv.Atoi(md[2])
		year := now.Year()
		if md[3] != "" {
			year, _ = strconv.Atoi(md[3])
		}
		return DateTime{Date: fmt.Sprintf("%04d-%02d-%02d", year, mon, day), Time: clock}
	}

	return DateTime{Date: today, Time: clock}
}

// normalizeTime converts a raw time token to "HH:MM" 24-hour form.
// Unrecognized or empty tokens default to "12:00".
func normalizeTime(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "12:00"
	}
	if clock24Re.MatchString(s) {
		if len(s) == 4 { // "9:30" -> "09:30"
			return "0" + s
		}
		return s
	}
	m := clock12Re.FindStringSubmatch(s)
	if m == nil {
		return "12:00"
	}
	h, _ := strconv.Atoi(m[1])
	min := 0
	if m[2] != "" {
		min, _ = strconv.Atoi(m[2])
	}
	switch m[3] {
	case "pm":
		if h != 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}
	return fmt.Sprintf("%02d:%02d", h, min)
}
