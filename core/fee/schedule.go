package fee

import (
	"github.com/shopspring/decimal"

	"github.com/blacklytning/alc/core"
)

// Schedule maps a course name to its flat monthly fee. Static reference data;
// courses not in the schedule fall back to the configured default fee.
type Schedule map[string]decimal.Decimal

// CourseFee returns the monthly fee for the named course, or the default fee
// when the course is unknown.
func (s Schedule) CourseFee(courseName string) decimal.Decimal {
	if f, ok := s[courseName]; ok {
		return f
	}
	return decimal.NewFromInt(core.Conf.Fees.DefaultCourseFee)
}

// DefaultSchedule is the institute's standard course fee schedule.
func DefaultSchedule() Schedule {
	return Schedule{
		"MS-CIT":                decimal.NewFromInt(3000),
		"ADVANCE TALLY - CIT":   decimal.NewFromInt(2500),
		"ADVANCE TALLY - KLIC":  decimal.NewFromInt(2500),
		"ADVANCE EXCEL - CIT":   decimal.NewFromInt(2000),
		"ENGLISH TYPING - MKCL": decimal.NewFromInt(1500),
		"ENGLISH TYPING - CIT":  decimal.NewFromInt(1500),
		"ENGLISH TYPING - GOVT": decimal.NewFromInt(1500),
		"MARATHI TYPING - MKCL": decimal.NewFromInt(1500),
		"MARATHI TYPING - CIT":  decimal.NewFromInt(1500),
		"MARATHI TYPING - GOVT": decimal.NewFromInt(1500),
		"DTP - CIT":             decimal.NewFromInt(2000),
		"DTP - KLIC":            decimal.NewFromInt(2000),
		"IT - KLIC":             decimal.NewFromInt(2500),
		"KLIC DIPLOMA":          decimal.NewFromInt(3500),
	}
}
