package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/kasuku/academia/apps/api/echo"
	"github.com/kasuku/academia/core"
	"github.com/kasuku/academia/core/auth"
	"github.com/kasuku/academia/core/payment"
	"github.com/kasuku/academia/core/report"
	"github.com/kasuku/academia/core/student"
	"github.com/kasuku/academia/core/teacher"
	dummydb "github.com/kasuku/academia/storage/database/dummy"
	"github.com/kasuku/academia/storage/files"
)

var (
	conf *core.Config
	db   *dummydb.DB
	app  echoapi.Server

	authSvc    *auth.Service
	studentSvc *student.Service
	paymentSvc *payment.Service
	teacherSvc *teacher.Service

	validate   *validator.Validate
	translator ut.Translator

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	uploadsDir, err := os.MkdirTemp("", "academia-uploads")
	if err != nil {
		fmt.Printf("os.MkdirTemp(): %v", err)
		os.Exit(1)
	}

	conf = &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "Academia",
		SecretKey: "secret",
		Server:    core.ServerConfig{JWTExpirationDelta: time.Hour},
		Admin:     core.AdminConfig{Username: "admin", Password: "adminiyf"},
		Uploads:   core.UploadsConfig{Dir: uploadsDir},
	}

	// set up DB & repos
	db, err = dummydb.Open()
	if err != nil {
		fmt.Printf("dummydb.Open(): %v", err)
		os.Exit(1)
	}

	credStore, err := files.NewCredentialStore(conf.Uploads.Dir)
	if err != nil {
		fmt.Printf("files.NewCredentialStore(): %v", err)
		os.Exit(1)
	}

	// set up services
	adminCreds, err := auth.NewStaticCredentialStore(conf)
	if err != nil {
		fmt.Printf("auth.NewStaticCredentialStore(): %v", err)
		os.Exit(1)
	}
	authSvc = auth.NewService(adminCreds, auth.NewSessionStore(conf.Server.JWTExpirationDelta))
	studentSvc = student.NewService(dummydb.NewStudentRepository(db))
	paymentSvc = payment.NewService(dummydb.NewPaymentRepository(db))
	teacherSvc = teacher.NewService(dummydb.NewTeacherRepository(db), credStore)

	validate = validator.New()
	translator = newTranslator()
	core.InitValidators(validate, translator)

	// set up server
	app = echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     testLogger{},
			AuthSvc:    authSvc,
			StudentSvc: studentSvc,
			PaymentSvc: paymentSvc,
			TeacherSvc: teacherSvc,
			Report:     report.NewBuilder(studentSvc, paymentSvc),
			Validate:   validate,
			Translator: translator,
		},
	)

	// run tests
	code := m.Run()

	// clean up
	if err = os.RemoveAll(uploadsDir); err != nil {
		fmt.Printf("os.RemoveAll(): %v", err)
		os.Exit(1)
	}

	os.Exit(code)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// testLogger swallows everything; server errors are asserted via responses.
type testLogger struct{}

func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// getToken logs the admin in and returns a token tied to a live session.
func getToken(t *testing.T) string {
	t.Helper()

	sess, err := authSvc.Login(conf.Admin.Username, conf.Admin.Password)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	token, err := echoapi.GenerateToken(conf, echoapi.GetSessionClaims(conf, sess))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
