package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/kasuku/academia/core/payment"
)

type paymentRepository struct {
	db *paymentTable
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *DB) *paymentRepository {
	return &paymentRepository{db: db.payment}
}

func (repo *paymentRepository) query() []payment.Payment {
	payments := make([]payment.Payment, 0, len(repo.db.table))
	for _, pmt := range repo.db.table {
		payments = append(payments, *pmt)
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].Date.After(payments[j].Date) })
	return payments
}

func (repo *paymentRepository) CreatePayment(_ context.Context, pmt payment.Payment) (payment.Payment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if existing.TransactionNumber == pmt.TransactionNumber {
			return payment.Payment{}, payment.ErrTransactionNumberExists
		}
	}

	pmt.ID = uuid.New().String()
	repo.db.table[pmt.ID] = &pmt
	return pmt, nil
}

func (repo *paymentRepository) GetPayment(_ context.Context, id string) (payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if pmt, ok := repo.db.table[id]; ok {
		return *pmt, nil
	}
	return payment.Payment{}, payment.ErrNotFound
}

func (repo *paymentRepository) GetPaymentByTransactionNumber(_ context.Context, txn string) (payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, pmt := range repo.db.table {
		if pmt.TransactionNumber == txn {
			return *pmt, nil
		}
	}
	return payment.Payment{}, payment.ErrNotFound
}

func (repo *paymentRepository) QueryPaymentsByStudent(_ context.Context, studentID string) ([]payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	payments := make([]payment.Payment, 0)
	for _, pmt := range repo.query() {
		if pmt.StudentID == studentID {
			payments = append(payments, pmt)
		}
	}
	return payments, nil
}

func (repo *paymentRepository) QueryAllPayments(_ context.Context) ([]payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *paymentRepository) DeletePayment(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return payment.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *paymentRepository) SumAmounts(_ context.Context) (float64, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var total float64
	for _, pmt := range repo.db.table {
		total += pmt.Amount
	}
	return total, nil
}

func (repo *paymentRepository) CountDistinctPayers(_ context.Context, paymentType string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	payers := make(map[string]bool)
	for _, pmt := range repo.db.table {
		if pmt.PaymentType == paymentType {
			payers[pmt.StudentID] = true
		}
	}
	return len(payers), nil
}
