package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kasuku/academia/core"
	"github.com/kasuku/academia/core/payment"
	"github.com/kasuku/academia/core/student"
)

type (
	paymentApi struct {
		svc        *payment.Service
		studentSvc *student.Service
		validate   *validator.Validate
	}

	StudentPaymentsResponse struct {
		Student  student.Student   `json:"student"`
		Payments []payment.Payment `json:"payments"`
	}

	ReceiptResponse struct {
		Payment payment.Payment `json:"payment"`
		Student student.Student `json:"student"`
	}

	RecordSearchResponse struct {
		Students []student.Student `json:"students"`
	}
)

func registerPaymentAPI(g *echo.Group, deps ServerDeps) {
	api := paymentApi{svc: deps.PaymentSvc, studentSvc: deps.StudentSvc, validate: deps.Validate}

	g.GET("/payments/:student_id", api.listForStudent)
	g.POST("/payments/:student_id", api.create)
	g.GET("/receipt/:payment_id", api.receipt)
	g.POST("/delete_payment/:payment_id", api.delete)
	g.GET("/record_payment", api.recordSearch)
	g.POST("/record_payment/:student_id", api.create)
}

func (api *paymentApi) getStudent(ctx echo.Context) (student.Student, error) {
	stu, err := api.studentSvc.GetByID(ctx.Request().Context(), ctx.Param("student_id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return student.Student{}, errHttpNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return stu, nil
}

func (api *paymentApi) listForStudent(ctx echo.Context) error {
	stu, err := api.getStudent(ctx)
	if err != nil {
		return err
	}

	payments, err := api.svc.QueryByStudent(ctx.Request().Context(), stu.ID)
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	return ctx.JSON(http.StatusOK, StudentPaymentsResponse{Student: stu, Payments: payments})
}

func (api *paymentApi) create(ctx echo.Context) error {
	stu, err := api.getStudent(ctx)
	if err != nil {
		return err
	}

	var np payment.NewPayment
	if err := ctx.Bind(&np); err != nil {
		return err
	}
	if err := np.Validate(api.validate); err != nil {
		return err
	}

	pay, err := api.svc.Record(ctx.Request().Context(), stu.ID, np)
	if err != nil {
		return errors.Wrap(err, "recording payment")
	}
	return ctx.JSON(http.StatusCreated, pay)
}

func (api *paymentApi) receipt(ctx echo.Context) error {
	c := ctx.Request().Context()

	pay, err := api.svc.GetByID(c, ctx.Param("payment_id"))
	if err != nil {
		if errors.Cause(err) == payment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting payment")
	}

	stu, err := api.studentSvc.GetByID(c, pay.StudentID)
	if err != nil {
		return errors.Wrap(err, "getting payer")
	}
	return ctx.JSON(http.StatusOK, ReceiptResponse{Payment: pay, Student: stu})
}

func (api *paymentApi) delete(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("payment_id")); err != nil {
		if errors.Cause(err) == payment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting payment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// recordSearch looks up students by name so a payment can be recorded
// against the right one. All matches are returned, not just the first.
func (api *paymentApi) recordSearch(ctx echo.Context) error {
	name := core.CleanString(ctx.QueryParam("search"))

	students := []student.Student{}
	if name != "" {
		var err error
		students, err = api.studentSvc.SearchByName(ctx.Request().Context(), name)
		if err != nil {
			return errors.Wrap(err, "searching students")
		}
	}
	return ctx.JSON(http.StatusOK, RecordSearchResponse{Students: students})
}
