package auth

import (
	"testing"
	"time"

	"github.com/kasuku/academia/core"
)

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()

	conf := &core.Config{Admin: core.AdminConfig{Username: "admin", Password: "adminiyf"}}
	creds, err := NewStaticCredentialStore(conf)
	if err != nil {
		t.Fatalf("NewStaticCredentialStore() error = %v", err)
	}
	return NewService(creds, NewSessionStore(ttl))
}

func TestService_Login(t *testing.T) {
	svc := newTestService(t, time.Hour)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "ok", username: "admin", password: "adminiyf"},
		{name: "wrong password", username: "admin", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "wrong username", username: "root", password: "adminiyf", wantErr: ErrInvalidCredentials},
		{name: "empty", wantErr: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := svc.Login(tt.username, tt.password)
			if err != tt.wantErr {
				t.Fatalf("Login() error = %v; wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if sess.ID == "" || sess.Username != tt.username {
				t.Errorf("Login() = %+v", sess)
			}
			if got, err := svc.Check(sess.ID); err != nil || got.ID != sess.ID {
				t.Errorf("Check() = %+v, %v", got, err)
			}
		})
	}
}

func TestService_Logout(t *testing.T) {
	svc := newTestService(t, time.Hour)

	sess, err := svc.Login("admin", "adminiyf")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	svc.Logout(sess.ID)
	if _, err = svc.Check(sess.ID); err != ErrSessionNotFound {
		t.Errorf("Check() after logout error = %v; want %v", err, ErrSessionNotFound)
	}

	// destroying twice is harmless
	svc.Logout(sess.ID)
}

func TestService_Check_expiredSession(t *testing.T) {
	svc := newTestService(t, -time.Second) // already expired at creation

	sess, err := svc.Login("admin", "adminiyf")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, err = svc.Check(sess.ID); err != ErrSessionNotFound {
		t.Errorf("Check() error = %v; want %v", err, ErrSessionNotFound)
	}
}

func TestService_Check_unknownSession(t *testing.T) {
	svc := newTestService(t, time.Hour)
	if _, err := svc.Check("deadbeef"); err != ErrSessionNotFound {
		t.Errorf("Check() error = %v; want %v", err, ErrSessionNotFound)
	}
}
