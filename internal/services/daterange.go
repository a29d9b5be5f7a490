package services

import "time"

const isoDate = "2006-01-02"

// Sentinel bounds for the "all time" range; wide enough for any realistic data.
const (
	allTimeStart = "2020-01-01"
	allTimeEnd   = "2030-12-31"
)

// DateRange is an inclusive [Start, End] pair of ISO dates. ISO dates are
// zero-padded, so plain string comparison orders them correctly.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether the ISO date falls inside the range.
func (r DateRange) Contains(date string) bool {
	return date >= r.Start && date <= r.End
}

// ResolveDateRange turns a symbolic selector (today, yesterday, this_week,
// last_week, this_month, last_month, custom, all) into concrete bounds.
// Weeks start on Monday. this_month ends today rather than at month end so
// dashboards don't trail off into future zeroes. custom passes the caller's
// bounds through unchanged.
func ResolveDateRange(selector, customStart, customEnd string) DateRange {
	return resolveDateRangeAt(time.Now(), selector, customStart, customEnd)
}

func resolveDateRangeAt(now time.Time, selector, customStart, customEnd string) DateRange {
	today := now.Format(isoDate)
	switch selector {
	case "today":
		return DateRange{Start: today, End: today}
	case "yesterday":
		y := now.AddDate(0, 0, -1).Format(isoDate)
		return DateRange{Start: y, End: y}
	case "this_week":
		return DateRange{Start: startOfWeek(now).Format(isoDate), End: today}
	case "last_week":
		start := startOfWeek(now.AddDate(0, 0, -7))
		end := start.AddDate(0, 0, 6)
		return DateRange{Start: start.Format(isoDate), End: end.Format(isoDate)}
	case "this_month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: first.Format(isoDate), End: today}
	case "last_month":
		first := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		last := time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, now.Location())
		return DateRange{Start: first.Format(isoDate), End: last.Format(isoDate)}
	case "custom":
		if customStart != "" && customEnd != "" {
			return DateRange{Start: customStart, End: customEnd}
		}
	}
	return DateRange{Start: allTimeStart, End: allTimeEnd}
}

// startOfWeek returns the Monday of d's ISO week (Sunday counts as day 7).
func startOfWeek(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// Filters narrows the record working set before aggregation. Country and
// ProductID use the sentinel "all" (or empty) to mean "no restriction".
type Filters struct {
	Range     DateRange
	Country   string
	ProductID string
}

// Match reports whether a record passes the country/product/date filters.
// Sales and expenses share the same three fields, so one predicate serves both.
func (f Filters) Match(country, productID, date string) bool {
	if f.Country != "" && f.Country != "all" && country != f.Country {
		return false
	}
	if f.ProductID != "" && f.ProductID != "all" && productID != f.ProductID {
		return false
	}
	return f.Range.Contains(date)
}
