package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/kasuku/academia/core/payment"
)

const pqUniqueViolation = "23505"

type paymentRepository struct {
	db *sqlx.DB
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *sqlx.DB) *paymentRepository {
	return &paymentRepository{db: db}
}

func (repo paymentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return payment.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo paymentRepository) CreatePayment(ctx context.Context, pmt payment.Payment) (payment.Payment, error) {
	pmt.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO payment (id, student_id, transaction_number, amount, payment_type, date)
		VALUES (:id, :student_id, :transaction_number, :amount, :payment_type, :date)`,
		pmt,
	)
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return payment.Payment{}, payment.ErrTransactionNumberExists
		}
		return payment.Payment{}, errors.Wrap(err, "inserting payment")
	}
	return pmt, nil
}

func (repo paymentRepository) GetPayment(ctx context.Context, id string) (payment.Payment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return payment.Payment{}, payment.ErrNotFound
	}
	var pmt payment.Payment
	err := repo.db.GetContext(ctx, &pmt, `SELECT * FROM payment WHERE id = $1`, id)
	if err != nil {
		return payment.Payment{}, repo.trapNoRowsErr(err, "finding payment by ID")
	}
	return pmt, nil
}

func (repo paymentRepository) GetPaymentByTransactionNumber(ctx context.Context, txn string) (payment.Payment, error) {
	var pmt payment.Payment
	err := repo.db.GetContext(ctx, &pmt, `SELECT * FROM payment WHERE transaction_number = $1`, txn)
	if err != nil {
		return payment.Payment{}, repo.trapNoRowsErr(err, "finding payment by transaction number")
	}
	return pmt, nil
}

func (repo paymentRepository) QueryPaymentsByStudent(ctx context.Context, studentID string) ([]payment.Payment, error) {
	payments := make([]payment.Payment, 0)
	err := repo.db.SelectContext(ctx, &payments,
		`SELECT * FROM payment WHERE student_id = $1 ORDER BY date DESC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying payments by student")
	}
	return payments, nil
}

func (repo paymentRepository) QueryAllPayments(ctx context.Context) ([]payment.Payment, error) {
	payments := make([]payment.Payment, 0)
	err := repo.db.SelectContext(ctx, &payments, `SELECT * FROM payment ORDER BY date DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying payments")
	}
	return payments, nil
}

func (repo paymentRepository) DeletePayment(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return payment.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM payment WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting payment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return payment.ErrNotFound
	}
	return nil
}

func (repo paymentRepository) SumAmounts(ctx context.Context) (float64, error) {
	var total float64
	err := repo.db.GetContext(ctx, &total, `SELECT COALESCE(sum(amount), 0) FROM payment`)
	if err != nil {
		return 0, errors.Wrap(err, "summing payment amounts")
	}
	return total, nil
}

func (repo paymentRepository) CountDistinctPayers(ctx context.Context, paymentType string) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count,
		`SELECT count(DISTINCT student_id) FROM payment WHERE payment_type = $1`, paymentType)
	if err != nil {
		return 0, errors.Wrap(err, "counting distinct payers")
	}
	return count, nil
}
