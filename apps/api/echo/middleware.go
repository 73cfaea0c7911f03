package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kasuku/academia/core/auth"
)

// sessionMiddleware rejects tokens whose server-side session no longer
// exists (logged out or expired).
func sessionMiddleware(svc *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if _, err := getContextSession(ctx, svc); err != nil {
				return errors.Wrap(err, "checking session")
			}
			return next(ctx)
		}
	}
}
