package payment

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("payment not found")
	// ErrTransactionNumberExists surfaces the store's uniqueness constraint
	// on transaction_number; the service resolves it by regenerating.
	ErrTransactionNumberExists = errors.New("a payment with this transaction number already exists")
)

// txnMaxAttempts bounds the regenerate-on-conflict loop. A collision on a
// 36^8 space is vanishingly rare; hitting the cap means the random source
// or the store is broken and retrying forever would only spin.
const (
	txnMaxAttempts = 5
	txnRetryDelay  = 50 * time.Millisecond
)

type (
	Repository interface {
		// CreatePayment inserts atomically, relying on the store's unique
		// constraint; a duplicate transaction number surfaces as
		// ErrTransactionNumberExists.
		CreatePayment(ctx context.Context, pmt Payment) (Payment, error)
		GetPayment(ctx context.Context, id string) (Payment, error)
		GetPaymentByTransactionNumber(ctx context.Context, txn string) (Payment, error)
		QueryPaymentsByStudent(ctx context.Context, studentID string) ([]Payment, error)
		QueryAllPayments(ctx context.Context) ([]Payment, error)
		DeletePayment(ctx context.Context, id string) error
		SumAmounts(ctx context.Context) (float64, error)
		// CountDistinctPayers counts students with at least one payment of the given type.
		CountDistinctPayers(ctx context.Context, paymentType string) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record creates a payment for a student, generating a fresh transaction
// number on each attempt and retrying on a store-level conflict.
func (svc *Service) Record(ctx context.Context, studentID string, np NewPayment) (Payment, error) {
	var lastErr error
	for attempt := 0; attempt < txnMaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Payment{}, ctx.Err()
			case <-time.After(txnRetryDelay):
			}
		}

		txn, err := GenerateTransactionNumber()
		if err != nil {
			return Payment{}, pkgerrors.Wrap(err, "generating transaction number")
		}

		pmt, err := svc.repo.CreatePayment(ctx, Payment{
			StudentID:         studentID,
			TransactionNumber: txn,
			Amount:            np.AmountValue(),
			PaymentType:       np.PaymentType,
			Date:              time.Now().UTC(),
		})
		if err == nil {
			return pmt, nil
		}
		if pkgerrors.Cause(err) != ErrTransactionNumberExists {
			return Payment{}, err
		}
		lastErr = err
	}
	return Payment{}, pkgerrors.Wrap(lastErr, "transaction number attempts exhausted")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Payment, error) {
	return svc.repo.GetPayment(ctx, id)
}

func (svc *Service) GetByTransactionNumber(ctx context.Context, txn string) (Payment, error) {
	return svc.repo.GetPaymentByTransactionNumber(ctx, txn)
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID string) ([]Payment, error) {
	return svc.repo.QueryPaymentsByStudent(ctx, studentID)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Payment, error) {
	return svc.repo.QueryAllPayments(ctx)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeletePayment(ctx, id)
}

func (svc *Service) TotalRevenue(ctx context.Context) (float64, error) {
	return svc.repo.SumAmounts(ctx)
}

func (svc *Service) CountDistinctPayers(ctx context.Context, paymentType string) (int, error) {
	return svc.repo.CountDistinctPayers(ctx, paymentType)
}
