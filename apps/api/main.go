package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/kasuku/academia/apps/api/echo"
	"github.com/kasuku/academia/core"
	"github.com/kasuku/academia/core/auth"
	"github.com/kasuku/academia/core/payment"
	"github.com/kasuku/academia/core/report"
	"github.com/kasuku/academia/core/student"
	"github.com/kasuku/academia/core/teacher"
	logsvc "github.com/kasuku/academia/services/logger"
	"github.com/kasuku/academia/storage/database"
	sqlxrepos "github.com/kasuku/academia/storage/database/sqlx"
	"github.com/kasuku/academia/storage/files"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	credStore, err := files.NewCredentialStore(conf.Uploads.Dir)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up upload store: %v", err), err)
	}

	adminCreds, err := auth.NewStaticCredentialStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up admin credentials: %v", err), err)
	}
	sessions := auth.NewSessionStore(conf.Server.JWTExpirationDelta)
	authSvc := auth.NewService(adminCreds, sessions)

	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(db))
	paymentSvc := payment.NewService(sqlxrepos.NewPaymentRepository(db))
	teacherSvc := teacher.NewService(sqlxrepos.NewTeacherRepository(db), credStore)
	reportBuilder := report.NewBuilder(studentSvc, paymentSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			AuthSvc:    authSvc,
			StudentSvc: studentSvc,
			PaymentSvc: paymentSvc,
			TeacherSvc: teacherSvc,
			Report:     reportBuilder,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}

	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
