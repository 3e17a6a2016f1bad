package fee

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/blacklytning/alc/core/student"
)

func mockNow(t *testing.T, now time.Time) {
	t.Helper()
	orig := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = orig })
}

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func newStudent(course string, admittedAt time.Time) student.Student {
	return student.Student{
		ID:          "std-1",
		FirstName:   "Asha",
		LastName:    "Pawar",
		CourseName:  course,
		BatchTiming: "10AM-12PM",
		CreatedAt:   admittedAt,
	}
}

func Test_ComputeLedger_totalDueFormula(t *testing.T) {
	// 2024-04-10; admitted 2024-01-15 => 3 months elapsed, 4 months billed
	mockNow(t, time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC))
	std := newStudent("MS-CIT", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	led := ComputeLedger(std, DefaultSchedule(), []Payment{
		{StudentID: std.ID, Amount: d(3000), PaymentDate: "2024-01-20"},
	}, nil)

	assert.True(t, led.TotalDue.Equal(d(12000)), "TotalDue = %s", led.TotalDue)
	assert.True(t, led.TotalPaid.Equal(d(3000)))
	assert.True(t, led.Balance.Equal(d(9000)))
	assert.Equal(t, StatusPartial, led.Status)
	assert.False(t, led.IsOverdue)
	assert.Equal(t, "2024-01-20", led.LastPaymentDate)
}

func Test_ComputeLedger_admissionMonthOwesOneMonth(t *testing.T) {
	mockNow(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	std := newStudent("MS-CIT", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	led := ComputeLedger(std, DefaultSchedule(), nil, nil)

	assert.True(t, led.TotalDue.Equal(d(3000)))
	assert.Equal(t, StatusPending, led.Status)
	assert.False(t, led.IsOverdue)
	assert.Equal(t, 0, led.MonthsOverdue)
}

func Test_ComputeLedger_statuses(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	mockNow(t, now)
	sched := DefaultSchedule()

	tests := []struct {
		name         string
		admittedAt   time.Time
		payments     []Payment
		wantStatus   string
		wantOverdue  bool
		wantMonthsOd int
		wantBalance  decimal.Decimal
	}{
		{
			name:        "fully paid",
			admittedAt:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			payments:    []Payment{{Amount: d(3000), PaymentDate: "2024-06-01"}},
			wantStatus:  StatusPaid,
			wantBalance: d(0),
		},
		{
			name:        "overpaid is still paid",
			admittedAt:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			payments:    []Payment{{Amount: d(5000), PaymentDate: "2024-06-01"}},
			wantStatus:  StatusPaid,
			wantBalance: d(-2000),
		},
		{
			name:        "partial overrides overdue",
			admittedAt:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			payments:    []Payment{{Amount: d(1000), PaymentDate: "2024-02-10"}},
			wantStatus:  StatusPartial,
			wantBalance: d(14000),
		},
		{
			name:         "no payments after elapsed months is overdue",
			admittedAt:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			payments:     nil,
			wantStatus:   StatusOverdue,
			wantOverdue:  true,
			wantMonthsOd: 4,
			wantBalance:  d(15000),
		},
		{
			name:        "no payments in admission month is pending",
			admittedAt:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			payments:    nil,
			wantStatus:  StatusPending,
			wantBalance: d(3000),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			led := ComputeLedger(newStudent("MS-CIT", tt.admittedAt), sched, tt.payments, nil)
			assert.Equal(t, tt.wantStatus, led.Status)
			assert.Equal(t, tt.wantOverdue, led.IsOverdue)
			assert.Equal(t, tt.wantMonthsOd, led.MonthsOverdue)
			assert.True(t, tt.wantBalance.Equal(led.Balance), "Balance = %s; want %s", led.Balance, tt.wantBalance)
			assert.True(t, led.Balance.Equal(led.TotalDue.Sub(led.TotalPaid)), "balance identity must hold")
		})
	}
}

func Test_ComputeLedger_unknownCourseFallsBackToDefaultFee(t *testing.T) {
	mockNow(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	std := newStudent("SOME NEW COURSE", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	led := ComputeLedger(std, DefaultSchedule(), nil, nil)
	assert.True(t, led.TotalDue.Equal(d(2000)), "TotalDue = %s", led.TotalDue)
}

func Test_ComputeLedger_skipsMalformedRows(t *testing.T) {
	mockNow(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	std := newStudent("MS-CIT", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))

	led := ComputeLedger(std, DefaultSchedule(), []Payment{
		{Amount: d(500), PaymentDate: "2024-04-01"},
		{Amount: d(-100), PaymentDate: "2024-04-02"},  // negative amount
		{Amount: d(100), PaymentDate: "not-a-date"},   // broken date
		{Amount: d(200), PaymentDate: "2024-04-03"},
	}, nil)

	assert.Equal(t, 2, led.SkippedRecords)
	assert.True(t, led.TotalPaid.Equal(d(700)))
	assert.Equal(t, "2024-04-03", led.LastPaymentDate)
}

func Test_ComputeLedger_summaryIsAuthoritative(t *testing.T) {
	mockNow(t, time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC))
	std := newStudent("MS-CIT", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	// the formula would yield 12000; the stored record says 9000
	summary := &Summary{StudentID: std.ID, TotalDue: d(9000), MonthsOverdue: 2}
	led := ComputeLedger(std, DefaultSchedule(), []Payment{
		{Amount: d(3000), PaymentDate: "2024-01-20"},
	}, summary)

	assert.True(t, led.TotalDue.Equal(d(9000)))
	assert.True(t, led.Balance.Equal(d(6000)))
	assert.Equal(t, 2, led.MonthsOverdue)
	assert.Equal(t, StatusPartial, led.Status)
}

func Test_ComputeLedger_noAdmissionNoSummary(t *testing.T) {
	led := ComputeLedger(student.Student{ID: "std-x"}, DefaultSchedule(), nil, nil)

	assert.Equal(t, StatusPending, led.Status)
	assert.True(t, led.TotalDue.IsZero())
	assert.True(t, led.TotalPaid.IsZero())
	assert.True(t, led.Balance.IsZero())
}

func Test_ComputeLedger_pure(t *testing.T) {
	mockNow(t, time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC))
	std := newStudent("MS-CIT", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	payments := []Payment{
		{Amount: d(3000), PaymentDate: "2024-03-01"},
		{Amount: d(1000), PaymentDate: "2024-02-01"},
	}

	led1 := ComputeLedger(std, DefaultSchedule(), payments, nil)
	led2 := ComputeLedger(std, DefaultSchedule(), payments, nil)
	assert.Equal(t, led1, led2)

	// the input snapshot must not be reordered or modified
	assert.Equal(t, "2024-03-01", payments[0].PaymentDate)
	assert.Equal(t, "2024-02-01", payments[1].PaymentDate)
}

func Test_ComputeLedger_paidIffBalanceNonPositive(t *testing.T) {
	mockNow(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	std := newStudent("MS-CIT", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	rnd := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		var payments []Payment
		for n := rnd.Intn(5); n > 0; n-- {
			payments = append(payments, Payment{
				StudentID:   std.ID,
				Amount:      d(rnd.Int63n(8000)),
				PaymentDate: "2024-03-01",
			})
		}

		led := ComputeLedger(std, DefaultSchedule(), payments, nil)
		if led.Status == StatusPaid {
			assert.True(t, led.Balance.LessThanOrEqual(decimal.Zero), "PAID with balance %s", led.Balance)
		} else {
			assert.True(t, led.Balance.GreaterThan(decimal.Zero), "%s with balance %s", led.Status, led.Balance)
		}
	}
}

func Test_SuggestLateFee(t *testing.T) {
	tests := []struct {
		name string
		led  Ledger
		want decimal.Decimal
	}{
		{name: "not overdue", led: Ledger{Balance: d(3000)}, want: d(0)},
		{name: "10% of small balance", led: Ledger{IsOverdue: true, Balance: d(3000)}, want: d(300)},
		{name: "capped at 500", led: Ledger{IsOverdue: true, Balance: d(20000)}, want: d(500)},
		{name: "paid off", led: Ledger{IsOverdue: true, Balance: d(0)}, want: d(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestLateFee(tt.led)
			assert.True(t, tt.want.Equal(got), "SuggestLateFee() = %s; want %s", got, tt.want)
		})
	}
}
