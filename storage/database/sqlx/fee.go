package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/blacklytning/alc/core/fee"
)

// paymentRow mirrors the payment table. Denominations are stored as a JSONB
// blob; they are only ever read back whole.
type paymentRow struct {
	ID            string          `db:"id"`
	StudentID     string          `db:"student_id"`
	Amount        decimal.Decimal `db:"amount"`
	LateFee       decimal.Decimal `db:"late_fee"`
	Discount      decimal.Decimal `db:"discount"`
	PaymentDate   string          `db:"payment_date"`
	Method        string          `db:"payment_method"`
	TransactionID null.String     `db:"transaction_id"`
	ChequeNumber  null.String     `db:"cheque_number"`
	BankName      null.String     `db:"bank_name"`
	Denominations null.JSON       `db:"denominations"`
	Notes         null.String     `db:"notes"`
	CreatedAt     time.Time       `db:"created_at"`
}

type summaryRow struct {
	StudentID     string          `db:"student_id"`
	TotalDue      decimal.Decimal `db:"total_due"`
	MonthsOverdue int             `db:"months_overdue"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

type feeRepository struct {
	db *sqlx.DB
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *sqlx.DB) *feeRepository {
	return &feeRepository{db: db}
}

func (repo feeRepository) row(pay fee.Payment) (paymentRow, error) {
	row := paymentRow{
		ID:            pay.ID,
		StudentID:     pay.StudentID,
		Amount:        pay.Amount,
		LateFee:       pay.LateFee,
		Discount:      pay.Discount,
		PaymentDate:   pay.PaymentDate,
		Method:        pay.Method,
		TransactionID: null.NewString(pay.TransactionID, pay.TransactionID != ""),
		ChequeNumber:  null.NewString(pay.ChequeNumber, pay.ChequeNumber != ""),
		BankName:      null.NewString(pay.BankName, pay.BankName != ""),
		Notes:         null.NewString(pay.Notes, pay.Notes != ""),
		CreatedAt:     pay.CreatedAt.UTC(),
	}
	if pay.Denominations != nil {
		blob, err := json.Marshal(pay.Denominations)
		if err != nil {
			return paymentRow{}, errors.Wrap(err, "encoding denominations")
		}
		row.Denominations = null.JSONFrom(blob)
	}
	return row, nil
}

func (repo feeRepository) unrow(row paymentRow) (fee.Payment, error) {
	pay := fee.Payment{
		ID:            row.ID,
		StudentID:     row.StudentID,
		Amount:        row.Amount,
		LateFee:       row.LateFee,
		Discount:      row.Discount,
		PaymentDate:   row.PaymentDate,
		Method:        row.Method,
		TransactionID: row.TransactionID.String,
		ChequeNumber:  row.ChequeNumber.String,
		BankName:      row.BankName.String,
		Notes:         row.Notes.String,
		CreatedAt:     row.CreatedAt,
	}
	if row.Denominations.Valid {
		if err := json.Unmarshal(row.Denominations.JSON, &pay.Denominations); err != nil {
			return fee.Payment{}, errors.Wrap(err, "decoding denominations")
		}
	}
	return pay, nil
}

func (repo feeRepository) CreatePayment(ctx context.Context, pay fee.Payment) (fee.Payment, error) {
	pay.ID = uuid.New().String()
	row, err := repo.row(pay)
	if err != nil {
		return fee.Payment{}, err
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO payment (id, student_id, amount, late_fee, discount, payment_date, payment_method,
		                     transaction_id, cheque_number, bank_name, denominations, notes, created_at)
		VALUES (:id, :student_id, :amount, :late_fee, :discount, :payment_date, :payment_method,
		        :transaction_id, :cheque_number, :bank_name, :denominations, :notes, :created_at)`, row)
	if err != nil {
		return fee.Payment{}, errors.Wrap(err, "inserting payment")
	}
	return pay, nil
}

func (repo feeRepository) QueryPaymentsByStudent(ctx context.Context, studentID string) ([]fee.Payment, error) {
	var rows []paymentRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM payment WHERE student_id = $1 ORDER BY payment_date, created_at`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying payments")
	}
	payments := make([]fee.Payment, 0, len(rows))
	for _, row := range rows {
		pay, err := repo.unrow(row)
		if err != nil {
			return nil, err
		}
		payments = append(payments, pay)
	}
	return payments, nil
}

func (repo feeRepository) GetSummary(ctx context.Context, studentID string) (fee.Summary, error) {
	var row summaryRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM fee_summary WHERE student_id = $1`, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fee.Summary{}, fee.ErrSummaryNotFound
		}
		return fee.Summary{}, errors.Wrap(err, "finding fee summary")
	}
	return fee.Summary{
		StudentID:     row.StudentID,
		TotalDue:      row.TotalDue,
		MonthsOverdue: row.MonthsOverdue,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}
