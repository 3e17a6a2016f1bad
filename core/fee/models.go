package fee

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/blacklytning/alc/core"
)

// Payment methods
const (
	MethodCash         = "CASH"
	MethodCard         = "CARD"
	MethodUPI          = "UPI"
	MethodBankTransfer = "BANK_TRANSFER"
	MethodCheque       = "CHEQUE"
)

var Methods = []string{MethodCash, MethodCard, MethodUPI, MethodBankTransfer, MethodCheque}

// Ledger statuses
const (
	StatusPending = "PENDING"
	StatusPartial = "PARTIAL"
	StatusPaid    = "PAID"
	StatusOverdue = "OVERDUE"
)

// DenominationValues are the only cash note values accepted at the counter.
var DenominationValues = []int64{500, 200, 100, 50, 20, 10}

type Denomination struct {
	Value   int64    `json:"value"`
	Count   int64    `json:"count"`
	Serials []string `json:"serials,omitempty"` // recorded for 500 notes
}

// Payment is one recorded fee payment. Payments are append-only per student;
// they are never edited after acceptance.
type Payment struct {
	ID            string          `json:"id"`
	StudentID     string          `json:"student_id"`
	Amount        decimal.Decimal `json:"amount"`
	LateFee       decimal.Decimal `json:"late_fee"`
	Discount      decimal.Decimal `json:"discount"`
	PaymentDate   string          `json:"payment_date"` // YYYY-MM-DD
	Method        string          `json:"payment_method"`
	TransactionID string          `json:"transaction_id,omitempty"`
	ChequeNumber  string          `json:"cheque_number,omitempty"`
	BankName      string          `json:"bank_name,omitempty"`
	Denominations []Denomination  `json:"denominations,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"` // UTC
}

// CollectedTotal is the cash that actually changed hands for this payment:
// amount + late fee - discount.
func (p Payment) CollectedTotal() decimal.Decimal {
	return p.Amount.Add(p.LateFee).Sub(p.Discount)
}

// Ledger is the derived fee-status view for one student. It is recomputed on
// demand from the payment stream and never persisted.
type Ledger struct {
	StudentID       string          `json:"student_id"`
	TotalDue        decimal.Decimal `json:"total_due"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	Balance         decimal.Decimal `json:"balance"` // signed; negative means overpayment
	Status          string          `json:"status"`
	IsOverdue       bool            `json:"is_overdue"`
	MonthsOverdue   int             `json:"months_overdue"`
	LastPaymentDate string          `json:"last_payment_date,omitempty"`
	SkippedRecords  int             `json:"skipped_records,omitempty"` // malformed payment rows ignored
}

// Summary is an authoritative precomputed fee record supplied by storage
// (e.g. migrated from the previous system). When present, its TotalDue and
// MonthsOverdue take precedence over the locally recomputed estimate.
type Summary struct {
	StudentID     string          `json:"student_id"`
	TotalDue      decimal.Decimal `json:"course_fee"`
	MonthsOverdue int             `json:"months_overdue"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewPayment contains information needed to record a candidate payment.
// Shape validation happens via tags; the admission checks against the current
// ledger happen in Service.RecordPayment.
type NewPayment struct {
	StudentID     string          `json:"student_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"-"`
	LateFee       decimal.Decimal `json:"late_fee" validate:"-"`
	Discount      decimal.Decimal `json:"discount" validate:"-"`
	PaymentDate   string          `json:"payment_date" validate:"required,isodate"`
	Method        string          `json:"payment_method" validate:"required,paymethod"`
	TransactionID string          `json:"transaction_id"`
	ChequeNumber  string          `json:"cheque_number"`
	BankName      string          `json:"bank_name"`
	Denominations []Denomination  `json:"denominations"`
	Notes         string          `json:"notes"`
}

func (np *NewPayment) Validate(validate *validator.Validate) error {
	np.StudentID = core.CleanString(np.StudentID)
	np.PaymentDate = core.CleanString(np.PaymentDate)
	np.Method = core.CleanString(np.Method)
	np.TransactionID = core.CleanString(np.TransactionID)
	np.ChequeNumber = core.CleanString(np.ChequeNumber)
	np.BankName = core.CleanString(np.BankName)
	np.Notes = core.CleanString(np.Notes)
	return validate.Struct(np)
}

// DenominationTotal sums value x count across the cash breakdown.
func (np NewPayment) DenominationTotal() decimal.Decimal {
	total := decimal.Zero
	for _, d := range np.Denominations {
		total = total.Add(decimal.NewFromInt(d.Value).Mul(decimal.NewFromInt(d.Count)))
	}
	return total
}

// ExpectedCashTotal is the amount of cash the breakdown must account for:
// amount + late fee - discount.
func (np NewPayment) ExpectedCashTotal() decimal.Decimal {
	return np.Amount.Add(np.LateFee).Sub(np.Discount)
}
