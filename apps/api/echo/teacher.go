package echoapi

import (
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kasuku/academia/core/teacher"
)

type teacherApi struct {
	svc      *teacher.Service
	validate *validator.Validate
}

func registerTeacherAPI(g *echo.Group, deps ServerDeps) {
	api := teacherApi{svc: deps.TeacherSvc, validate: deps.Validate}

	g.GET("/teachers", api.list)
	g.GET("/add_teacher", api.addForm)
	g.POST("/add_teacher", api.create)
	g.GET("/edit_teacher/:id", api.retrieve)
	g.POST("/edit_teacher/:id", api.update)
	g.POST("/delete_teacher/:id", api.delete)
	g.GET("/view_teacher/:id", api.retrieve)
}

// getCredentialsUpload extracts the optional "credentials" multipart file.
// A missing file, or a non-multipart request, yields a nil upload.
func getCredentialsUpload(ctx echo.Context) (*teacher.Upload, io.Closer, error) {
	fh, err := ctx.FormFile("credentials")
	if err != nil {
		return nil, nil, nil
	}
	src, err := fh.Open()
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening upload")
	}
	return &teacher.Upload{Filename: fh.Filename, Content: src}, src, nil
}

func (api *teacherApi) list(ctx echo.Context) error {
	teachers, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherApi) addForm(ctx echo.Context) error {
	return ctx.NoContent(http.StatusNoContent)
}

func (api *teacherApi) create(ctx echo.Context) error {
	var nt teacher.NewTeacher
	if err := ctx.Bind(&nt); err != nil {
		return err
	}
	if err := nt.Validate(api.validate, api.svc); err != nil {
		return err
	}

	upload, src, err := getCredentialsUpload(ctx)
	if err != nil {
		return err
	}
	if src != nil {
		defer src.Close()
	}

	tch, err := api.svc.Create(ctx.Request().Context(), nt, upload)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, tch)
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	tch, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == teacher.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting teacher")
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *teacherApi) update(ctx echo.Context) error {
	c := ctx.Request().Context()

	orig, err := api.svc.GetByID(c, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == teacher.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting teacher")
	}

	var ut teacher.UpdateTeacher
	if err := ctx.Bind(&ut); err != nil {
		return err
	}
	if err := ut.Validate(orig, api.validate, api.svc); err != nil {
		return err
	}

	upload, src, err := getCredentialsUpload(ctx)
	if err != nil {
		return err
	}
	if src != nil {
		defer src.Close()
	}

	tch, err := api.svc.Update(c, orig, ut, upload)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *teacherApi) delete(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == teacher.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}
