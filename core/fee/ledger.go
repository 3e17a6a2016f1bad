package fee

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/blacklytning/alc/core"
	"github.com/blacklytning/alc/core/student"
)

var nowFunc = time.Now // mockable

// monthsSinceAdmission is the integer difference in (year*12 + month) between
// today and the admission date. A student admitted any day within a calendar
// month owes for that whole month; there is no partial-month proration.
func monthsSinceAdmission(admission time.Time) int {
	now := nowFunc()
	return (now.Year()-admission.Year())*12 + int(now.Month()) - int(admission.Month())
}

// validPaymentRow reports whether a stored payment row is usable for ledger
// computation. Legacy/migrated rows may carry negative amounts or broken
// dates; those are skipped, not fatal.
func validPaymentRow(p Payment) bool {
	if p.Amount.IsNegative() {
		return false
	}
	if _, err := time.Parse("2006-01-02", p.PaymentDate); err != nil {
		return false
	}
	return true
}

// ComputeLedger derives the fee-status view for one student from their full
// payment stream. Pure function: same inputs always yield the same Ledger.
// summary, when non-nil, is an authoritative precomputed fee record whose
// TotalDue and MonthsOverdue take precedence over the local estimate.
func ComputeLedger(std student.Student, sched Schedule, payments []Payment, summary *Summary) Ledger {
	led := Ledger{
		StudentID: std.ID,
		TotalDue:  decimal.Zero,
		TotalPaid: decimal.Zero,
		Balance:   decimal.Zero,
		Status:    StatusPending,
	}
	if std.CreatedAt.IsZero() && summary == nil {
		// no admission on record and nothing authoritative: no status yet
		return led
	}

	monthsElapsed := monthsSinceAdmission(std.CreatedAt)

	if summary != nil {
		led.TotalDue = summary.TotalDue
	} else {
		months := decimal.NewFromInt(int64(max(1, monthsElapsed+1)))
		led.TotalDue = sched.CourseFee(std.CourseName).Mul(months)
	}

	for _, p := range payments {
		if !validPaymentRow(p) {
			led.SkippedRecords++
			continue
		}
		// late fees and discounts are accounted separately, never folded into TotalPaid
		led.TotalPaid = led.TotalPaid.Add(p.Amount)
		if p.PaymentDate > led.LastPaymentDate {
			led.LastPaymentDate = p.PaymentDate
		}
	}

	led.Balance = led.TotalDue.Sub(led.TotalPaid)

	// A student who has paid something is PARTIAL even if also overdue in time;
	// OVERDUE is reserved for zero payments after at least one elapsed month.
	switch {
	case led.Balance.LessThanOrEqual(decimal.Zero):
		led.Status = StatusPaid
	case led.TotalPaid.GreaterThan(decimal.Zero):
		led.Status = StatusPartial
	case monthsElapsed > 0:
		led.Status = StatusOverdue
		led.IsOverdue = true
	default:
		led.Status = StatusPending
	}

	if summary != nil {
		led.MonthsOverdue = summary.MonthsOverdue
	} else if led.IsOverdue {
		led.MonthsOverdue = monthsElapsed
	}
	return led
}

// SuggestLateFee returns the default late fee to prefill when recording a
// payment against an overdue balance: 10% of the balance capped at 500.
// A UI convenience default, not an enforced rule; callers may override.
func SuggestLateFee(led Ledger) decimal.Decimal {
	if !led.IsOverdue || led.Balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	ceiling := decimal.NewFromInt(core.Conf.Fees.LateFeeCap)
	suggested := led.Balance.Mul(decimal.NewFromFloat(core.Conf.Fees.LateFeeRate))
	if suggested.GreaterThan(ceiling) {
		return ceiling
	}
	return suggested
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
