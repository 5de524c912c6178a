package calendar

import (
	"errors"
	"fmt"
	"strconv"
)

// Date is a day-precision proleptic Gregorian calendar date.
// The zero value is not a valid date.
type Date struct {
	Year  int
	Month int // 1-based
	Day   int // 1-based
}

// OverflowPolicy decides what happens to a day number past the end of its month.
type OverflowPolicy uint8

const (
	// OverflowNormalize rolls surplus days into the following month
	// and accepts one or two digit months and days.
	OverflowNormalize OverflowPolicy = iota
	// OverflowReject accepts only strict YYYY-MM-DD with an in-range day.
	OverflowReject
)

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowNormalize:
		return "normalize"
	case OverflowReject:
		return "reject"
	}
	return "unknown"
}

// ParseOverflowPolicy converts a config/flag value to OverflowPolicy.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case "", "normalize":
		return OverflowNormalize, nil
	case "reject":
		return OverflowReject, nil
	default:
		return OverflowNormalize, fmt.Errorf("invalid overflow policy: %q (expected: normalize|reject)", s)
	}
}

var (
	// ErrSyntax reports text that is not shaped like a date.
	ErrSyntax = errors.New("calendar: malformed date")
	// ErrRange reports a month or day outside of its absolute range.
	ErrRange = errors.New("calendar: date field out of range")
)

const (
	// MinYear and MaxYear bound the four digit year field.
	MinYear = 0
	MaxYear = 9999
)

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in month of year.
func DaysIn(year, month int) int {
	switch month {
	case 2:
		if IsLeap(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// Parse reads text according to policy.
//
// Under OverflowReject the text must be exactly YYYY-MM-DD and name an
// existing day. Under OverflowNormalize month and day may have one or two
// digits and the day may run up to 31 regardless of month; the result is
// normalized, so "2024-02-30" yields 2024-03-01.
func Parse(text string, policy OverflowPolicy) (Date, error) {
	fields, err := splitFields(text, policy)
	if err != nil {
		return Date{}, err
	}
	year, month, day := fields[0], fields[1], fields[2]
	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("%w: month %d", ErrRange, month)
	}
	switch policy {
	case OverflowReject:
		d := Date{Year: year, Month: month, Day: day}
		if !d.Valid() {
			return Date{}, fmt.Errorf("%w: day %d of %04d-%02d", ErrRange, day, year, month)
		}
		return d, nil
	default:
		if day < 1 || day > 31 {
			return Date{}, fmt.Errorf("%w: day %d", ErrRange, day)
		}
		return normalize(year, month, day), nil
	}
}

// MustParse is like Parse with OverflowReject but panics on error.
func MustParse(text string) Date {
	d, err := Parse(text, OverflowReject)
	if err != nil {
		panic(err)
	}
	return d
}

func splitFields(text string, policy OverflowPolicy) ([3]int, error) {
	var out [3]int
	// width bounds per field: year is always exactly four digits
	minWidth := [3]int{4, 2, 2}
	if policy == OverflowNormalize {
		minWidth = [3]int{4, 1, 1}
	}
	maxWidth := [3]int{4, 2, 2}

	field, start := 0, 0
	for i := 0; i <= len(text); i++ {
		if i < len(text) && text[i] != '-' {
			if text[i] < '0' || text[i] > '9' {
				return out, fmt.Errorf("%w: unexpected %q", ErrSyntax, text[i])
			}
			continue
		}
		if field > 2 {
			return out, fmt.Errorf("%w: too many fields", ErrSyntax)
		}
		width := i - start
		if width < minWidth[field] || width > maxWidth[field] {
			return out, fmt.Errorf("%w: field %d has %d digits", ErrSyntax, field+1, width)
		}
		n, err := strconv.Atoi(text[start:i])
		if err != nil {
			return out, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		out[field] = n
		field++
		start = i + 1
	}
	if field != 3 {
		return out, fmt.Errorf("%w: expected YYYY-MM-DD", ErrSyntax)
	}
	return out, nil
}

func normalize(year, month, day int) Date {
	for day > DaysIn(year, month) {
		day -= DaysIn(year, month)
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return Date{Year: year, Month: month, Day: day}
}

// String renders the canonical YYYY-MM-DD form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Valid reports whether d names an existing day in the supported range.
func (d Date) Valid() bool {
	return d.Year >= MinYear && d.Year <= MaxYear &&
		d.Month >= 1 && d.Month <= 12 &&
		d.Day >= 1 && d.Day <= DaysIn(d.Year, d.Month)
}
