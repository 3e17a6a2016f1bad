package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/blacklytning/alc/core/fee"
)

type feeRepository struct {
	payments  *paymentTable
	summaries *summaryTable
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *DB) *feeRepository {
	return &feeRepository{payments: db.payment, summaries: db.summary}
}

func (repo *feeRepository) CreatePayment(ctx context.Context, pay fee.Payment) (fee.Payment, error) {
	repo.payments.Lock()
	defer repo.payments.Unlock()

	pay.ID = uuid.New().String()
	repo.payments.table[pay.ID] = &pay
	return pay, nil
}

func (repo *feeRepository) QueryPaymentsByStudent(ctx context.Context, studentID string) ([]fee.Payment, error) {
	repo.payments.RLock()
	defer repo.payments.RUnlock()

	var payments []fee.Payment
	for _, pay := range repo.payments.table {
		if pay.StudentID == studentID {
			payments = append(payments, *pay)
		}
	}
	sort.SliceStable(payments, func(i, j int) bool {
		if payments[i].PaymentDate != payments[j].PaymentDate {
			return payments[i].PaymentDate < payments[j].PaymentDate
		}
		return payments[i].CreatedAt.Before(payments[j].CreatedAt)
	})
	return payments, nil
}

func (repo *feeRepository) GetSummary(ctx context.Context, studentID string) (fee.Summary, error) {
	repo.summaries.RLock()
	defer repo.summaries.RUnlock()

	if summary, ok := repo.summaries.table[studentID]; ok {
		return *summary, nil
	}
	return fee.Summary{}, fee.ErrSummaryNotFound
}

// SetSummary plants a precomputed fee record; tests use it to simulate data
// migrated from the previous system.
func (repo *feeRepository) SetSummary(summary fee.Summary) {
	repo.summaries.Lock()
	defer repo.summaries.Unlock()
	repo.summaries.table[summary.StudentID] = &summary
}
