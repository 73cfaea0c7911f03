package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasuku/academia/core/payment"
	"github.com/kasuku/academia/core/student"
	dummydb "github.com/kasuku/academia/storage/database/dummy"
)

func TestBuilder_Build(t *testing.T) {
	db, err := dummydb.Open()
	require.NoError(t, err)

	studentRepo := dummydb.NewStudentRepository(db)
	paymentRepo := dummydb.NewPaymentRepository(db)
	builder := NewBuilder(student.NewService(studentRepo), payment.NewService(paymentRepo))

	ctx := context.Background()

	amaka, err := studentRepo.CreateStudent(ctx, student.Student{
		Name: "Amaka Obi", Phone: "0803 555 0101", Residence: "Enugu",
		ClassName: "Fashion Design", Session: "2024/2025",
	})
	require.NoError(t, err)
	chidi, err := studentRepo.CreateStudent(ctx, student.Student{
		Name: "Chidi Okafor", Phone: "0803 555 0104", Residence: "Nsukka",
		ClassName: "Catering", Session: "2024/2025",
	})
	require.NoError(t, err)

	// type matching is case-insensitive
	for _, pmt := range []payment.Payment{
		{StudentID: amaka.ID, TransactionNumber: "TRX00000001", Amount: 15000, PaymentType: "passport fee"},
		{StudentID: amaka.ID, TransactionNumber: "TRX00000002", Amount: 5000, PaymentType: payment.TypePassportFee},
		{StudentID: amaka.ID, TransactionNumber: "TRX00000003", Amount: 30000, PaymentType: payment.TypeGraduationFee},
	} {
		_, err = paymentRepo.CreatePayment(ctx, pmt)
		require.NoError(t, err)
	}

	rows, err := builder.Build(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := make(map[string]Row, len(rows))
	for _, row := range rows {
		byName[row.StudentName] = row
	}

	got := byName["Amaka Obi"]
	assert.Equal(t, "Enugu", got.Residence)
	assert.Equal(t, 50000.0, got.TotalPayment)
	assert.Equal(t, 20000.0, got.PassportFee)
	assert.Equal(t, 30000.0, got.GraduationFee)

	got = byName["Chidi Okafor"]
	assert.Zero(t, got.TotalPayment)
	assert.Zero(t, got.PassportFee)
	assert.Zero(t, got.GraduationFee)

	_ = chidi
}
