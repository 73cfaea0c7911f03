package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kasuku/academia/core"
	"github.com/kasuku/academia/core/auth"
)

type (
	authApi struct {
		conf     *core.Config
		svc      *auth.Service
		validate *validator.Validate
	}

	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}
)

func registerAuthAPI(app *echo.Echo, g *echo.Group, deps ServerDeps) {
	api := authApi{conf: deps.Conf, svc: deps.AuthSvc, validate: deps.Validate}
	app.POST("/login", api.login)
	g.GET("/logout", api.logout)
}

func (api *authApi) login(ctx echo.Context) error {
	var req LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	req.Username = core.CleanString(req.Username)
	if err := api.validate.Struct(&req); err != nil {
		return err
	}

	sess, err := api.svc.Login(req.Username, req.Password)
	if err != nil {
		if errors.Cause(err) == auth.ErrInvalidCredentials {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "logging in")
	}

	token, err := GenerateToken(api.conf, GetSessionClaims(api.conf, sess))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *authApi) logout(ctx echo.Context) error {
	sess, err := getContextSession(ctx, api.svc)
	if err != nil {
		return err
	}
	api.svc.Logout(sess.ID)
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "logged out"})
}
