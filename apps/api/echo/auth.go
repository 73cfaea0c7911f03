package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/kasuku/academia/core"
	"github.com/kasuku/academia/core/auth"
)

const (
	jwtContextKey     = "userToken"
	contextSessionKey = "session"
)

// Claims represents the authorization claims transmitted via a JWT.
// SessionID ties the token to a live server-side session; a token whose
// session has been destroyed is rejected even before its own expiry.
type Claims struct {
	jwt.StandardClaims
	SessionID string `json:"sid,omitempty"`
	Username  string `json:"username,omitempty"`
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    jwtContextKey,
		Claims:        new(Claims),
	}
}

func GetSessionClaims(conf *core.Config, sess auth.Session) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   sess.Username,
			Audience:  "Academia",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		SessionID: sess.ID,
		Username:  sess.Username,
	}
}

// GenerateToken generates a signed JWT token string representing the session Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextSession(ctx echo.Context, svc *auth.Service) (auth.Session, error) {
	if sess, ok := ctx.Get(contextSessionKey).(auth.Session); ok {
		return sess, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return auth.Session{}, errors.Wrap(err, "getting context claims")
	}

	sess, err := svc.Check(claims.SessionID)
	if err != nil {
		return auth.Session{}, errSessionExpired
	}
	ctx.Set(contextSessionKey, sess)
	return sess, nil
}
