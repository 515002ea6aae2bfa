package incident

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseNumber parses a locale-tolerant number: "1,234.5", "1.234,5", "1 234",
// "12,5" and "0.75" all parse. NaN and infinities are rejected.
func ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "\u00A0", "")
	raw = strings.ReplaceAll(raw, " ", "")
	if raw == "" {
		return 0, false
	}
	commas := strings.Count(raw, ",")
	dots := strings.Count(raw, ".")
	switch {
	case commas > 0 && dots > 0:
		if strings.LastIndex(raw, ",") > strings.LastIndex(raw, ".") {
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.ReplaceAll(raw, ",", ".")
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	case commas > 1:
		raw = strings.ReplaceAll(raw, ",", "")
	case commas == 1:
		// "1,234" groups thousands; "0,123" can only be a decimal comma.
		i := strings.LastIndex(raw, ",")
		whole := strings.TrimLeft(raw[:i], "+-0")
		if len(raw)-i-1 == 3 && whole != "" {
			raw = strings.ReplaceAll(raw, ",", "")
		} else {
			raw = strings.ReplaceAll(raw, ",", ".")
		}
	case dots > 1:
		raw = strings.ReplaceAll(raw, ".", "")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseCount coerces a cell to a non-negative integer; anything else is 0.
func ParseCount(s string) int64 {
	f, ok := ParseNumber(s)
	if !ok || f <= 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Round(f))
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"02.01.2006",
	"January 2, 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"02-Jan-2006",
	"1/2/06",
	"1/2/06 15:04",
	"01-02-06",
	"01-02-06 15:04",
}

// ParseDate tries the known layouts in order.
func ParseDate(s string) (time.Time, bool) {
	v := strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseYear accepts integer-valued numbers such as "2023" or "2023.0".
func ParseYear(s string) (int, bool) {
	f, ok := ParseNumber(s)
	if !ok || f != math.Trunc(f) || f < 0 || f > 9999 {
		return 0, false
	}
	return int(f), true
}

var monthNames = map[string]int{}

func init() {
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		monthNames[full] = int(m)
		monthNames[full[:3]] = int(m)
		monthNames[strconv.Itoa(int(m))] = int(m)
		monthNames["0"+strconv.Itoa(int(m))] = int(m)
	}
	monthNames["sept"] = 9
}

// MonthOrdinal maps a month label to 1..12, or 0 when unknown.
func MonthOrdinal(label string) int {
	return monthNames[strings.ToLower(strings.TrimSpace(label))]
}
