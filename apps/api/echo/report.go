package echoapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kasuku/academia/core/payment"
	"github.com/kasuku/academia/core/report"
	"github.com/kasuku/academia/core/student"
)

type (
	reportApi struct {
		builder    *report.Builder
		svc        *student.Service
		paymentSvc *payment.Service
	}

	ReportStatsResponse struct {
		TotalStudents   int      `json:"total_students"`
		PassportCount   int      `json:"passport_count"`
		GraduationCount int      `json:"graduation_count"`
		ClassLabels     []string `json:"class_labels"`
		ClassData       []int    `json:"class_data"`
	}
)

func registerReportAPI(g *echo.Group, deps ServerDeps) {
	api := reportApi{builder: deps.Report, svc: deps.StudentSvc, paymentSvc: deps.PaymentSvc}

	g.GET("/report", api.stats)
	g.GET("/download_report", api.download)
}

func (api *reportApi) stats(ctx echo.Context) error {
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

	return ctx.JSON(http.StatusOK, ReportStatsResponse{
		TotalStudents:   total,
		PassportCount:   passport,
		GraduationCount: graduation,
		ClassLabels:     labels,
		ClassData:       data,
	})
}

func (api *reportApi) download(ctx echo.Context) error {
	var buf bytes.Buffer
	if err := api.builder.WriteXLSX(ctx.Request().Context(), &buf); err != nil {
		return errors.Wrap(err, "building report")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.Filename))
	return ctx.Blob(http.StatusOK, report.ContentType, buf.Bytes())
}
