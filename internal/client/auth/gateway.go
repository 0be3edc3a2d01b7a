// Package auth owns the session credential lifecycle: credential exchange,
// persistence, startup restore, and logout. It is the only writer of the
// session store and of the persisted credential.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/homequote/homequote/internal/client/api"
	"github.com/homequote/homequote/internal/client/models"
	"github.com/homequote/homequote/internal/client/repositories/credentials"
	"github.com/homequote/homequote/internal/client/session"
	"github.com/homequote/homequote/internal/logging"
)

// Gateway performs credential exchange against the API and keeps durable
// storage and the session store mutually consistent.
//
// Ordering guarantee: on every successful login/register/restore the
// credential is persisted before the session store is updated. If the
// process dies in between, the next start sees a credential it can
// re-validate instead of an authenticated UI with nothing backing it.
type Gateway struct {
	client   api.Client
	creds    credentials.Repository
	store    *session.Store
	log      logging.Logger
	validate *validator.Validate
}

func NewGateway(client api.Client, creds credentials.Repository, store *session.Store, log logging.Logger) *Gateway {
	return &Gateway{
		client:   client,
		creds:    creds,
		store:    store,
		log:      log.With("component", "auth"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// persistAndActivate writes the credential set (token first: it is the one
// piece the next request depends on) and only then updates the session
// store.
func (g *Gateway) persistAndActivate(ctx context.Context, sess *models.Session, token string, stayLoggedIn bool) error {
	if err := g.creds.Set(ctx, credentials.KeyToken, []byte(token)); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	userJSON, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}
	if err := g.creds.Set(ctx, credentials.KeyUser, userJSON); err != nil {
		return fmt.Errorf("persist user record: %w", err)
	}

	flag := []byte("0")
	if stayLoggedIn {
		flag = []byte("1")
	}
	if err := g.creds.Set(ctx, credentials.KeyStayLoggedIn, flag); err != nil {
		return fmt.Errorf("persist stay-logged-in flag: %w", err)
	}

	g.client.SetToken(token)
	g.store.SetSession(sess)
	return nil
}

// Login exchanges credentials for a session. AuthRejectedError,
// ValidationError and network failures propagate to the caller for
// user-facing display.
func (g *Gateway) Login(ctx context.Context, email, password string, stayLoggedIn bool) (*models.Session, error) {
	g.store.SetLoading(true)

	sess, token, err := g.client.Login(ctx, email, password)
	if err != nil {
		g.store.SetLoading(false)
		return nil, err
	}

	if err := g.persistAndActivate(ctx, sess, token, stayLoggedIn); err != nil {
		g.store.SetLoading(false)
		return nil, err
	}

	g.log.Info(ctx, "login succeeded", "user", sess.ID)
	return sess, nil
}

// Register creates a new account and logs it in. Malformed input fails
// with a field-level ValidationError before any network call.
func (g *Gateway) Register(ctx context.Context, req api.RegisterRequest, stayLoggedIn bool) (*models.Session, error) {
	if err := g.validate.StructCtx(ctx, req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			return nil, &api.ValidationError{Detail: "invalid registration input", Fields: fields}
		}
		return nil, err
	}

	g.store.SetLoading(true)

	sess, token, err := g.client.Register(ctx, req)
	if err != nil {
		g.store.SetLoading(false)
		return nil, err
	}

	if err := g.persistAndActivate(ctx, sess, token, stayLoggedIn); err != nil {
		g.store.SetLoading(false)
		return nil, err
	}

	g.log.Info(ctx, "registration succeeded", "user", sess.ID)
	return sess, nil
}

// Restore rebuilds the session from the persisted credential at startup.
// Absence of a session is a normal outcome: the method never returns an
// error, it only resolves the store one way or the other.
func (g *Gateway) Restore(ctx context.Context) {
	token, err := g.creds.Get(ctx, credentials.KeyToken)
	if err != nil {
		g.log.Error(ctx, "failed to read persisted token", "error", err)
		g.store.SetSession(nil)
		return
	}
	if len(token) == 0 {
		g.store.SetSession(nil)
		return
	}

	if stay, err := g.creds.Get(ctx, credentials.KeyStayLoggedIn); err == nil && string(stay) == "0" {
		// the user asked not to be kept logged in across restarts
		g.wipe(ctx)
		g.store.SetSession(nil)
		return
	}

	if tokenExpired(string(token)) {
		g.log.Info(ctx, "persisted token expired, discarding")
		g.wipe(ctx)
		g.store.SetSession(nil)
		return
	}

	g.client.SetToken(string(token))

	sess, err := g.client.Me(ctx)
	switch {
	case err == nil:
		// refresh the cached user record; the token is already persisted
		if userJSON, merr := json.Marshal(sess); merr == nil {
			if serr := g.creds.Set(ctx, credentials.KeyUser, userJSON); serr != nil {
				g.log.Warn(ctx, "failed to refresh cached user record", "error", serr)
			}
		}
		g.store.SetSession(sess)
		g.log.Info(ctx, "session restored", "user", sess.ID)
	case errors.Is(err, api.ErrSessionExpired), errors.Is(err, api.ErrAuthRejected):
		g.log.Info(ctx, "persisted token rejected, discarding")
		g.wipe(ctx)
		g.store.SetSession(nil)
	default:
		// network trouble: keep the credential for the next start, but
		// resolve to a logged-out UI for now
		g.log.Warn(ctx, "session restore failed", "error", err)
		g.client.ClearToken()
		g.store.SetSession(nil)
	}
}

// Logout erases local state unconditionally. The server-side logout call is
// best effort: its failure is logged and ignored because local credential
// erasure, not the server, decides whether this client is logged out.
func (g *Gateway) Logout(ctx context.Context) {
	if err := g.client.Logout(ctx); err != nil {
		g.log.Warn(ctx, "server-side logout failed", "error", err)
	}

	g.wipe(ctx)
	g.store.Clear()
	g.log.Info(ctx, "logged out")
}

// HandleSessionExpired tears down local auth state after a 401 on any
// authenticated call. Wired to the HTTP client's unauthorized hook; the
// screen that happened to trigger the 401 is not shown an auth error, the
// normal unauthenticated navigation takes over.
func (g *Gateway) HandleSessionExpired(ctx context.Context) {
	g.log.Info(ctx, "session expired, clearing local state")
	g.wipe(ctx)
	g.store.Clear()
}

// CurrentToken returns the persisted bearer token, or "" when none is
// stored. No network call.
func (g *Gateway) CurrentToken(ctx context.Context) (string, error) {
	token, err := g.creds.Get(ctx, credentials.KeyToken)
	if err != nil {
		return "", err
	}
	return string(token), nil
}

// AcceptConsent records the user's terms/privacy acceptance and refreshes
// the session.
func (g *Gateway) AcceptConsent(ctx context.Context) (*models.Session, error) {
	sess, err := g.client.AcceptConsent(ctx)
	if err != nil {
		return nil, err
	}
	g.cacheUser(ctx, sess)
	g.store.SetSession(sess)
	return sess, nil
}

// UpdateProfile applies a profile mutation and refreshes the session.
func (g *Gateway) UpdateProfile(ctx context.Context, req api.ProfileUpdate) (*models.Session, error) {
	sess, err := g.client.UpdateProfile(ctx, req)
	if err != nil {
		return nil, err
	}
	g.cacheUser(ctx, sess)
	g.store.SetSession(sess)
	return sess, nil
}

func (g *Gateway) cacheUser(ctx context.Context, sess *models.Session) {
	userJSON, err := json.Marshal(sess)
	if err != nil {
		return
	}
	if err := g.creds.Set(ctx, credentials.KeyUser, userJSON); err != nil {
		g.log.Warn(ctx, "failed to cache user record", "error", err)
	}
}

// wipe erases the credential set and detaches the token from the API
// client. Storage errors are logged, never propagated: a failed wipe must
// not keep the user logged in.
func (g *Gateway) wipe(ctx context.Context) {
	if err := g.creds.Clear(ctx); err != nil {
		g.log.Error(ctx, "failed to clear credential store", "error", err)
	}
	g.client.ClearToken()
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// The signature is not verified; this is a local shortcut to skip a round
// trip that would come back 401 anyway. Opaque tokens are left to the
// server to judge.
func tokenExpired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
