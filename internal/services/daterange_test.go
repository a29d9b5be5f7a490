package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Wednesday 2023-10-25.
var wednesday = time.Date(2023, 10, 25, 14, 30, 0, 0, time.UTC)

func TestResolveDateRangeSelectors(t *testing.T) {
	cases := []struct {
		selector   string
		start, end string
	}{
		{"today", "2023-10-25", "2023-10-25"},
		{"yesterday", "2023-10-24", "2023-10-24"},
		{"this_week", "2023-10-23", "2023-10-25"},
		{"last_week", "2023-10-16", "2023-10-22"},
		{"this_month", "2023-10-01", "2023-10-25"},
		{"last_month", "2023-09-01", "2023-09-30"},
		{"all", allTimeStart, allTimeEnd},
		{"", allTimeStart, allTimeEnd},
		{"bogus", allTimeStart, allTimeEnd},
	}
	for _, tc := range cases {
		r := resolveDateRangeAt(wednesday, tc.selector, "", "")
		assert.Equal(t, tc.start, r.Start, "selector %q start", tc.selector)
		assert.Equal(t, tc.end, r.End, "selector %q end", tc.selector)
	}
}

func TestResolveDateRangeSundayWeek(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2023, 10, 29, 9, 0, 0, 0, time.UTC)
	r := resolveDateRangeAt(sunday, "this_week", "", "")
	assert.Equal(t, "2023-10-23", r.Start)
	assert.Equal(t, "2023-10-29", r.End)

	lw := resolveDateRangeAt(sunday, "last_week", "", "")
	assert.Equal(t, "2023-10-16", lw.Start)
	assert.Equal(t, "2023-10-22", lw.End)
}

func TestResolveDateRangeMonthBoundaries(t *testing.T) {
	// last_month across a year boundary.
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	r := resolveDateRangeAt(jan, "last_month", "", "")
	assert.Equal(t, "2023-12-01", r.Start)
	assert.Equal(t, "2023-12-31", r.End)

	// last_month landing on February of a leap year.
	mar := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	r = resolveDateRangeAt(mar, "last_month", "", "")
	assert.Equal(t, "2024-02-01", r.Start)
	assert.Equal(t, "2024-02-29", r.End)
}

func TestResolveDateRangeCustom(t *testing.T) {
	r := resolveDateRangeAt(wednesday, "custom", "2023-01-05", "2023-02-10")
	assert.Equal(t, DateRange{Start: "2023-01-05", End: "2023-02-10"}, r)

	// Incomplete custom bounds fall back to all time.
	r = resolveDateRangeAt(wednesday, "custom", "2023-01-05", "")
	assert.Equal(t, DateRange{Start: allTimeStart, End: allTimeEnd}, r)
}

func TestDateRangeContainsInclusive(t *testing.T) {
	r := DateRange{Start: "2023-10-01", End: "2023-10-31"}
	assert.True(t, r.Contains("2023-10-01"))
	assert.True(t, r.Contains("2023-10-31"))
	assert.True(t, r.Contains("2023-10-15"))
	assert.False(t, r.Contains("2023-09-30"))
	assert.False(t, r.Contains("2023-11-01"))
}

func TestFiltersMatch(t *testing.T) {
	f := Filters{
		Range:     DateRange{Start: "2023-10-01", End: "2023-10-31"},
		Country:   "MA",
		ProductID: "p1",
	}
	assert.True(t, f.Match("MA", "p1", "2023-10-15"))
	assert.False(t, f.Match("GA", "p1", "2023-10-15"))
	assert.False(t, f.Match("MA", "p2", "2023-10-15"))
	assert.False(t, f.Match("MA", "p1", "2023-11-15"))

	// "all" and "" both mean no restriction.
	open := Filters{Range: DateRange{Start: "2020-01-01", End: "2030-12-31"}, Country: "all", ProductID: ""}
	assert.True(t, open.Match("GA", "p2", "2023-10-15"))
}
