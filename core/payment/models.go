package payment

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kasuku/academia/core"
)

// Payment types. Both entry paths restrict to this set.
const (
	TypePassportFee   = "Passport Fee"
	TypeGraduationFee = "Graduation Fee"
)

var errInvalidAmount = errors.New("invalid amount")

type Payment struct {
	ID                string    `json:"id" db:"id"`
	StudentID         string    `json:"student_id" db:"student_id"`
	TransactionNumber string    `json:"transaction_number" db:"transaction_number"`
	Amount            float64   `json:"amount" db:"amount"`
	PaymentType       string    `json:"payment_type" db:"payment_type"`
	Date              time.Time `json:"date" db:"date"` // UTC
}

// NewPayment contains information needed to record a fee payment.
// Amount arrives as a string so a non-numeric value is reported as a
// field error instead of a bind failure.
type NewPayment struct {
	PaymentType string `json:"payment_type" form:"payment_type" validate:"required,oneof='Passport Fee' 'Graduation Fee'"`
	Amount      string `json:"amount" form:"amount" validate:"required"`

	amount float64
}

func (np *NewPayment) Validate(validate *validator.Validate) error {
	np.PaymentType = core.CleanString(np.PaymentType)
	np.Amount = core.CleanString(np.Amount)

	if err := validate.Struct(np); err != nil {
		return err
	}

	amt, err := strconv.ParseFloat(np.Amount, 64)
	if err != nil || amt <= 0 {
		return core.NewValidationError(errInvalidAmount, core.FieldError{
			Field: "amount",
			Error: "a positive number is required",
		})
	}
	np.amount = amt
	return nil
}

// AmountValue returns the parsed amount. Only valid after Validate succeeds.
func (np NewPayment) AmountValue() float64 { return np.amount }
