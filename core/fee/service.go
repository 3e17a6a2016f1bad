package fee

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/blacklytning/alc/core"
	"github.com/blacklytning/alc/core/student"
)

var (
	ErrSummaryNotFound = errors.New("fee summary not found")

	errAmountNegative   = "amount must be a non-negative number"
	errAmountOverBal    = "amount cannot exceed the balance due"
	errLateFeeNegative  = "late fee must be a non-negative number"
	errDiscountNegative = "discount must be a non-negative number"
	errDiscountOverMax  = "discount cannot exceed the payment amount"
	errChequeNumber     = "cheque number is required for cheque payments"
	errBankName         = "bank name is required for cheque payments"
)

type (
	Repository interface {
		CreatePayment(ctx context.Context, pay Payment) (Payment, error)
		QueryPaymentsByStudent(ctx context.Context, studentID string) ([]Payment, error)
		// GetSummary returns ErrSummaryNotFound when no precomputed record exists;
		// the ledger then falls back to the schedule formula.
		GetSummary(ctx context.Context, studentID string) (Summary, error)
	}

	// StudentDirectory is the slice of the enrollment collaborator the fee
	// engine needs: read-only access to student records.
	StudentDirectory interface {
		GetStudentByID(ctx context.Context, id string) (student.Student, error)
		QueryAllStudents(ctx context.Context) ([]student.Student, error)
	}

	Service struct {
		repo     Repository
		students StudentDirectory
		sched    Schedule
		mailSvc  core.EmailService
	}

	// StudentLedger is one row of the fee records page: enrollment info joined
	// with the derived ledger.
	StudentLedger struct {
		Student student.Student `json:"student"`
		Ledger  Ledger          `json:"ledger"`
	}
)

func NewService(repo Repository, students StudentDirectory, sched Schedule, mailSvc core.EmailService) *Service {
	return &Service{
		repo:     repo,
		students: students,
		sched:    sched,
		mailSvc:  mailSvc,
	}
}

// Ledger recomputes the fee-status view for one student from their full
// payment history.
func (svc *Service) Ledger(ctx context.Context, studentID string) (Ledger, error) {
	std, err := svc.students.GetStudentByID(ctx, studentID)
	if err != nil {
		return Ledger{}, err
	}
	return svc.ledgerFor(ctx, std)
}

func (svc *Service) ledgerFor(ctx context.Context, std student.Student) (Ledger, error) {
	payments, err := svc.repo.QueryPaymentsByStudent(ctx, std.ID)
	if err != nil {
		return Ledger{}, err
	}
	summary, err := svc.summaryFor(ctx, std.ID)
	if err != nil {
		return Ledger{}, err
	}
	return ComputeLedger(std, svc.sched, payments, summary), nil
}

func (svc *Service) summaryFor(ctx context.Context, studentID string) (*Summary, error) {
	summary, err := svc.repo.GetSummary(ctx, studentID)
	if err != nil {
		if err == ErrSummaryNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

// QueryAllLedgers computes the fee record rows for every enrolled student,
// ordered by student name.
func (svc *Service) QueryAllLedgers(ctx context.Context) ([]StudentLedger, error) {
	students, err := svc.students.QueryAllStudents(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]StudentLedger, 0, len(students))
	for _, std := range students {
		led, err := svc.ledgerFor(ctx, std)
		if err != nil {
			return nil, err
		}
		rows = append(rows, StudentLedger{Student: std, Ledger: led})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Student.FullName() < rows[j].Student.FullName()
	})
	return rows, nil
}

func (svc *Service) Payments(ctx context.Context, studentID string) ([]Payment, error) {
	return svc.repo.QueryPaymentsByStudent(ctx, studentID)
}

// RecordPayment admits a candidate payment against the student's current
// ledger. On rejection the payment is not recorded and a ValidationError
// describing the failed check is returned; on acceptance the normalized
// payment is persisted, a receipt is emailed, and the recorded payment
// returned. Callers re-query the ledger to observe the new balance.
func (svc *Service) RecordPayment(ctx context.Context, np NewPayment) (Payment, error) {
	std, err := svc.students.GetStudentByID(ctx, np.StudentID)
	if err != nil {
		return Payment{}, err
	}
	led, err := svc.ledgerFor(ctx, std)
	if err != nil {
		return Payment{}, err
	}
	if err := admitPayment(np, led); err != nil {
		return Payment{}, err
	}

	pay := Payment{
		StudentID:     np.StudentID,
		Amount:        np.Amount,
		LateFee:       np.LateFee,
		Discount:      np.Discount,
		PaymentDate:   np.PaymentDate,
		Method:        np.Method,
		TransactionID: np.TransactionID,
		ChequeNumber:  np.ChequeNumber,
		BankName:      np.BankName,
		Denominations: np.Denominations,
		Notes:         np.Notes,
		CreatedAt:     time.Now().UTC(),
	}
	pay, err = svc.repo.CreatePayment(ctx, pay)
	if err != nil {
		return Payment{}, err
	}

	svc.sendReceipt(std, pay, led.Balance.Sub(pay.Amount))
	return pay, nil
}

// admitPayment runs the admission checks from the fee policy against the
// ledger computed at call time. All failures are reported as field errors.
func admitPayment(np NewPayment, led Ledger) error {
	var flds []core.FieldError

	if np.Amount.IsNegative() {
		flds = append(flds, core.FieldError{Field: "amount", Error: errAmountNegative})
	} else if np.Amount.GreaterThan(led.Balance) {
		flds = append(flds, core.FieldError{Field: "amount", Error: errAmountOverBal})
	}
	if np.LateFee.IsNegative() {
		flds = append(flds, core.FieldError{Field: "late_fee", Error: errLateFeeNegative})
	}
	if np.Discount.IsNegative() {
		flds = append(flds, core.FieldError{Field: "discount", Error: errDiscountNegative})
	} else {
		maxDiscount := led.Balance
		if np.Amount.LessThan(maxDiscount) {
			maxDiscount = np.Amount
		}
		if np.Discount.GreaterThan(maxDiscount) {
			flds = append(flds, core.FieldError{Field: "discount", Error: errDiscountOverMax})
		}
	}

	switch np.Method {
	case MethodCash:
		if total, expected := np.DenominationTotal(), np.ExpectedCashTotal(); !total.Equal(expected) {
			flds = append(flds, core.FieldError{
				Field: "denominations",
				Error: fmt.Sprintf("denomination total (%s) does not match the expected total (%s)", total, expected),
			})
		}
	case MethodCheque:
		if np.ChequeNumber == "" {
			flds = append(flds, core.FieldError{Field: "cheque_number", Error: errChequeNumber})
		}
		if np.BankName == "" {
			flds = append(flds, core.FieldError{Field: "bank_name", Error: errBankName})
		}
	}
	// CARD, UPI and BANK_TRANSFER have no hard requirement beyond amount
	// validity; the transaction id is optional.

	if flds != nil {
		return core.NewValidationError(errors.New("invalid payment"), flds...)
	}
	return nil
}

func (svc *Service) sendReceipt(std student.Student, pay Payment, balanceAfter decimal.Decimal) {
	if svc.mailSvc == nil {
		return
	}
	receipt := BuildReceipt(std, pay, balanceAfter)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{core.Conf.DefaultFromEmail},
		Subject:      "Fee Receipt " + receipt.Number + " - " + std.FullName(),
		TemplateName: "payment-receipt",
		TemplateData: receipt,
	})
}
