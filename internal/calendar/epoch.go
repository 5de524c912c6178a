package calendar

import "strconv"

const secondsPerDay = 86400

// ReferenceDate is the instant every offset is measured from:
// 2001-01-01T00:00:00Z.
var ReferenceDate = Date{Year: 2001, Month: 1, Day: 1}

// referenceDays is daysFromCivil(2001, 1, 1).
const referenceDays = 11323

// daysFromCivil returns the number of days from 1970-01-01 to y-m-d in the
// proleptic Gregorian calendar. Negative before 1970.
// Eras are 400-year cycles starting at March 1st so leap days fall last.
func daysFromCivil(y, m, d int) int {
	if m <= 2 {
		y--
	}
	era := y / 400
	if y < 0 && y%400 != 0 {
		era--
	}
	yoe := y - era*400 // [0, 399]
	mp := (m + 9) % 12 // March == 0
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy // [0, 146096]
	return era*146097 + doe - 719468
}

// civilFromDays is the inverse of daysFromCivil.
func civilFromDays(z int) Date {
	z += 719468
	era := z / 146097
	if z < 0 && z%146097 != 0 {
		era--
	}
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	m := mp + 3
	if m > 12 {
		m -= 12
	}
	if m <= 2 {
		y++
	}
	return Date{Year: y, Month: m, Day: d}
}

// DaysSinceUnixEpoch returns the day count from 1970-01-01.
func (d Date) DaysSinceUnixEpoch() int {
	return daysFromCivil(d.Year, d.Month, d.Day)
}

// DaysSinceReference returns the day count from ReferenceDate.
func (d Date) DaysSinceReference() int {
	return d.DaysSinceUnixEpoch() - referenceDays
}

// ReferenceOffset returns the seconds from ReferenceDate to UTC midnight of d.
// The value is always integral, it is a float64 to match the constructor
// it is embedded into.
func (d Date) ReferenceOffset() float64 {
	return float64(d.DaysSinceReference()) * secondsPerDay
}

// FromReferenceOffset returns the date containing the instant offset
// seconds after ReferenceDate.
func FromReferenceOffset(offset float64) Date {
	days := int(offset / secondsPerDay)
	if offset < 0 && float64(days)*secondsPerDay != offset {
		days--
	}
	return civilFromDays(days + referenceDays)
}

// FormatOffset renders an offset as a decimal literal with at least one
// fractional digit: 727920000.0, -86400.0.
func FormatOffset(offset float64) string {
	s := strconv.FormatFloat(offset, 'f', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s
		}
	}
	return s + ".0"
}
