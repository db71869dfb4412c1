package analytics

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"paylens/pkg/contracts/domain"
)

// excelEpochOffset is the number of days between the spreadsheet date
// epoch (1899-12-30) and the Unix epoch.
const excelEpochOffset = 25569

// dateLayouts are tried in order by the general-parse strategy.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006-01",
}

// monthYearPattern matches a loose "<MonthName><sep><Year>" anywhere in
// the cell, so decorated values like "Nov-25 (est)" still resolve.
var monthYearPattern = regexp.MustCompile(`([a-zA-Z]+)[- ](\d{2,4})`)

// ResolveDate resolves a raw month/date cell through an ordered chain of
// strategies: spreadsheet serial, general date parse, then month-year
// reconstruction. First success wins; ok is false when none apply.
func ResolveDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	// Numeric cells are spreadsheet date serials.
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		secs := (serial - excelEpochOffset) * 86400
		t := time.Unix(int64(secs+0.5), 0).UTC()
		if t.Year() < 1900 || t.Year() > 2200 {
			return time.Time{}, false
		}
		return t, true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}

	if m := monthYearPattern.FindStringSubmatch(value); m != nil {
		month, ok := parseMonthName(m[1])
		if ok {
			year, _ := strconv.Atoi(m[2])
			if year < 100 {
				year += 2000
			}
			return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}

// parseMonthName accepts any casing; time.Parse only takes the
// canonical "Nov"/"November" forms.
func parseMonthName(name string) (time.Month, bool) {
	if name == "" {
		return 0, false
	}
	name = strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
	for _, layout := range []string{"January", "Jan"} {
		if t, err := time.Parse(layout, name); err == nil {
			return t.Month(), true
		}
	}
	return 0, false
}

// recordDate applies the derivation policy to one record: the month field
// wins, the date field is the fallback.
func recordDate(r domain.Record) (time.Time, bool) {
	if t, ok := ResolveDate(r.Month); ok {
		return t, ok
	}
	return ResolveDate(r.Date)
}

// DateRange computes the min/max across all resolvable record dates.
// Records without a resolvable date are silently excluded.
func DateRange(records []domain.Record) domain.DateRange {
	var dr domain.DateRange
	for _, r := range records {
		t, ok := recordDate(r)
		if !ok {
			continue
		}
		if !dr.Valid {
			dr = domain.DateRange{Min: t, Max: t, Valid: true}
			continue
		}
		if t.Before(dr.Min) {
			dr.Min = t
		}
		if t.After(dr.Max) {
			dr.Max = t
		}
	}
	return dr
}
