package auth

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kasuku/academia/core"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found or expired")
)

// CredentialStore resolves a credential pair to a recognized identity.
// The application currently knows a single administrator; the abstraction
// leaves room for a real user table later.
type CredentialStore interface {
	Authenticate(username, password string) error
}

type staticStore struct {
	username     string
	passwordHash []byte
}

// NewStaticCredentialStore builds a CredentialStore around the single admin
// credential pair from config.
func NewStaticCredentialStore(conf *core.Config) (CredentialStore, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(conf.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &staticStore{username: conf.Admin.Username, passwordHash: hash}, nil
}

func (s *staticStore) Authenticate(username, password string) error {
	nameOK := subtle.ConstantTimeCompare([]byte(s.username), []byte(username)) == 1
	pwdErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !nameOK || pwdErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Session is one authenticated admin session. Created at login, destroyed
// at logout or expiry.
type Session struct {
	ID        string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore is the process-wide registry of live sessions.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
	}
}

func (st *SessionStore) Create(username string) Session {
	now := time.Now().UTC()
	sess := Session{
		ID:        uuid.New().String(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(st.ttl),
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()
	return sess
}

func (st *SessionStore) Get(id string) (Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		st.Destroy(id)
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

func (st *SessionStore) Destroy(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Service gates every handler except login.
type Service struct {
	creds    CredentialStore
	sessions *SessionStore
}

func NewService(creds CredentialStore, sessions *SessionStore) *Service {
	return &Service{creds: creds, sessions: sessions}
}

func (svc *Service) Login(username, password string) (Session, error) {
	if err := svc.creds.Authenticate(username, password); err != nil {
		return Session{}, err
	}
	return svc.sessions.Create(username), nil
}

func (svc *Service) Logout(sessionID string) {
	svc.sessions.Destroy(sessionID)
}

// Check verifies that a session is still live.
func (svc *Service) Check(sessionID string) (Session, error) {
	return svc.sessions.Get(sessionID)
}
