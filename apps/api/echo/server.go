package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/kasuku/academia/core"
	"github.com/kasuku/academia/core/auth"
	"github.com/kasuku/academia/core/payment"
	"github.com/kasuku/academia/core/report"
	"github.com/kasuku/academia/core/student"
	"github.com/kasuku/academia/core/teacher"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		AuthSvc    *auth.Service
		StudentSvc *student.Service
		PaymentSvc *payment.Service
		TeacherSvc *teacher.Service
		Report     *report.Builder
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	// every handler except login sits behind the auth gate
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))
	g := s.app.Group("", jwt, sessionMiddleware(s.deps.AuthSvc))

	// uploaded credential documents, namespaced per teacher id
	g.Static("/uploads/credentials", conf.Uploads.Dir)

	registerAuthAPI(s.app, g, s.deps)
	registerStudentAPI(g, s.deps)
	registerPaymentAPI(g, s.deps)
	registerTeacherAPI(g, s.deps)
	registerReportAPI(g, s.deps)
}

// signalShutdown sends the shutdown signal; used on unrecoverable errors.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Start() {
	s.errs <- s.app.Start(s.deps.Conf.Server.Addr())
}

func (s *server) Errors() <-chan error {
	return s.errs
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// SuccessResponse carries a user-facing confirmation notice.
type SuccessResponse struct {
	Success string `json:"success"`
}
