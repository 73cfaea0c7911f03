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
	studentApi struct {
		svc        *student.Service
		paymentSvc *payment.Service
		validate   *validator.Validate
	}

	// DashboardResponse aggregates the landing page stats.
	DashboardResponse struct {
		TotalStudents   int      `json:"total_students"`
		PassportCount   int      `json:"passport_count"`
		GraduationCount int      `json:"graduation_count"`
		TotalRevenue    float64  `json:"total_revenue"`
		ClassLabels     []string `json:"class_labels"`
		ClassData       []int    `json:"class_data"`
	}

	StudentSearchResponse struct {
		Students   []student.Student `json:"students"`
		Pagination core.Pagination   `json:"pagination"`
	}
)

func registerStudentAPI(g *echo.Group, deps ServerDeps) {
	api := studentApi{svc: deps.StudentSvc, paymentSvc: deps.PaymentSvc, validate: deps.Validate}

	g.GET("/", api.dashboard)
	g.GET("/add_student", api.addForm)
	g.POST("/add_student", api.create)
	g.GET("/edit_student/:id", api.retrieve)
	g.POST("/edit_student/:id", api.update)
	g.POST("/delete_student/:id", api.delete)
	g.GET("/search_students", api.search)
}

func (api *studentApi) dashboard(ctx echo.Context) error {
	c := ctx.Request().Context()

	total, err := api.svc.Count(c)
	if err != nil {
		return errors.Wrap(err, "counting students")
	}
	passport, err := api.paymentSvc.CountDistinctPayers(c, payment.TypePassportFee)
	if err != nil {
		return errors.Wrap(err, "counting passport payers")
	}
	graduation, err := api.paymentSvc.CountDistinctPayers(c, payment.TypeGraduationFee)
	if err != nil {
		return errors.Wrap(err, "counting graduation payers")
	}
	revenue, err := api.paymentSvc.TotalRevenue(c)
	if err != nil {
		return errors.Wrap(err, "summing revenue")
	}
	dist, err := api.svc.ClassDistribution(c)
	if err != nil {
		return errors.Wrap(err, "grouping classes")
	}

	labels := make([]string, 0, len(dist))
	data := make([]int, 0, len(dist))
	for _, cc := range dist {
		labels = append(labels, cc.ClassName)
		data = append(data, cc.Count)
	}

	return ctx.JSON(http.StatusOK, DashboardResponse{
		TotalStudents:   total,
		PassportCount:   passport,
		GraduationCount: graduation,
		TotalRevenue:    revenue,
		ClassLabels:     labels,
		ClassData:       data,
	})
}

func (api *studentApi) addForm(ctx echo.Context) error {
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) create(ctx echo.Context) error {
	var ns student.NewStudent
	if err := ctx.Bind(&ns); err != nil {
		return err
	}
	if err := ns.Validate(api.validate); err != nil {
		return err
	}

	stu, err := api.svc.Create(ctx.Request().Context(), ns)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, stu)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	stu, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting student")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) update(ctx echo.Context) error {
	c := ctx.Request().Context()

	orig, err := api.svc.GetByID(c, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting student")
	}

	var us student.UpdateStudent
	if err := ctx.Bind(&us); err != nil {
		return err
	}
	if err := us.Validate(orig, api.validate); err != nil {
		return err
	}

	stu, err := api.svc.Update(c, orig.ID, us)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, stu)
}

func (api *studentApi) delete(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) search(ctx echo.Context) error {
	var filter student.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return err
	}

	students, pagination, err := api.svc.Search(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "searching students")
	}
	return ctx.JSON(http.StatusOK, StudentSearchResponse{Students: students, Pagination: pagination})
}
