package report

import (
	"context"
	"io"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/kasuku/academia/core/payment"
	"github.com/kasuku/academia/core/student"
)

const (
	// Filename is the fixed attachment name of the exported report.
	Filename = "student_payment_report.xlsx"
	// ContentType is the standard xlsx MIME type.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetName = "Student Payments"
)

var columns = []string{
	"Student Name", "Phone", "Residence", "Class", "Session",
	"Total Payment", "Passport Fee", "Graduation Fee",
}

// Row is one student's payment summary.
type Row struct {
	StudentName   string  `json:"student_name"`
	Phone         string  `json:"phone"`
	Residence     string  `json:"residence"`
	ClassName     string  `json:"class_name"`
	Session       string  `json:"session"`
	TotalPayment  float64 `json:"total_payment"`
	PassportFee   float64 `json:"passport_fee"`
	GraduationFee float64 `json:"graduation_fee"`
}

// Builder assembles the per-student payment report. It does a full scan of
// students and payments on every build; fine at this data scale.
type Builder struct {
	studentSvc *student.Service
	paymentSvc *payment.Service
}

func NewBuilder(studentSvc *student.Service, paymentSvc *payment.Service) *Builder {
	return &Builder{studentSvc: studentSvc, paymentSvc: paymentSvc}
}

// Build returns one row per student with their payment totals.
// Payment type matches are case-insensitive.
func (b *Builder) Build(ctx context.Context) ([]Row, error) {
	students, err := b.studentSvc.QueryAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "querying students")
	}

	rows := make([]Row, 0, len(students))
	for _, std := range students {
		payments, err := b.paymentSvc.QueryByStudent(ctx, std.ID)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "querying payments for student %s", std.ID)
		}

		row := Row{
			StudentName: std.Name,
			Phone:       std.Phone,
			Residence:   std.Residence,
			ClassName:   std.ClassName,
			Session:     std.Session,
		}
		for _, pmt := range payments {
			row.TotalPayment += pmt.Amount
			switch strings.ToLower(pmt.PaymentType) {
			case strings.ToLower(payment.TypePassportFee):
				row.PassportFee += pmt.Amount
			case strings.ToLower(payment.TypeGraduationFee):
				row.GraduationFee += pmt.Amount
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteXLSX builds the report and serializes it as a single-sheet workbook.
func (b *Builder) WriteXLSX(ctx context.Context, w io.Writer) error {
	rows, err := b.Build(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return pkgerrors.Wrap(err, "creating sheet")
	}
	f.SetActiveSheet(idx)
	if err = f.DeleteSheet("Sheet1"); err != nil {
		return pkgerrors.Wrap(err, "dropping default sheet")
	}

	for col, name := range columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err = f.SetCellValue(sheetName, cell, name); err != nil {
			return pkgerrors.Wrap(err, "writing header")
		}
	}
	for i, row := range rows {
		values := []interface{}{
			row.StudentName, row.Phone, row.Residence, row.ClassName,
			row.Session, row.TotalPayment, row.PassportFee, row.GraduationFee,
		}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err = f.SetCellValue(sheetName, cell, val); err != nil {
				return pkgerrors.Wrapf(err, "writing row %d", i+1)
			}
		}
	}

	if err = f.Write(w); err != nil {
		return pkgerrors.Wrap(err, "writing workbook")
	}
	return nil
}
