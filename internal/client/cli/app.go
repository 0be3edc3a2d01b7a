package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/homequote/homequote/internal/client/api"
	"github.com/homequote/homequote/internal/client/auth"
	"github.com/homequote/homequote/internal/client/config"
	"github.com/homequote/homequote/internal/client/localdb"
	"github.com/homequote/homequote/internal/client/models"
	"github.com/homequote/homequote/internal/client/push"
	"github.com/homequote/homequote/internal/client/realtime"
	"github.com/homequote/homequote/internal/client/session"
	"github.com/homequote/homequote/internal/client/syncer"
	"github.com/homequote/homequote/internal/logging"
)

// authGateway is the slice of the auth gateway the commands need. The real
// *auth.Gateway satisfies it; tests provide a stub.
type authGateway interface {
	Login(ctx context.Context, email, password string, stayLoggedIn bool) (*models.Session, error)
	Register(ctx context.Context, req api.RegisterRequest, stayLoggedIn bool) (*models.Session, error)
	Restore(ctx context.Context)
	Logout(ctx context.Context)
	HandleSessionExpired(ctx context.Context)
	CurrentToken(ctx context.Context) (string, error)
	AcceptConsent(ctx context.Context) (*models.Session, error)
	UpdateProfile(ctx context.Context, req api.ProfileUpdate) (*models.Session, error)
}

// pushChannel is the slice of the realtime channel the app drives.
type pushChannel interface {
	Connect(token string)
	Disconnect()
	Emit(env models.Envelope)
	On(event string, fn realtime.Handler) realtime.Subscription
	Off(sub realtime.Subscription)
}

// deviceRegistrar registers this device for push notifications.
type deviceRegistrar interface {
	Register(ctx context.Context)
}

// App owns the wired client components and implements the REPL commands.
type App struct {
	cfg    *config.Config
	log    logging.Logger
	reader *bufio.Reader

	db      *sql.DB
	repos   *localdb.Repositories
	api     api.Client
	store   *session.Store
	gateway authGateway
	channel pushChannel
	push    deviceRegistrar

	quoteSync      *syncer.Syncer
	inspectionSync *syncer.Syncer
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, repos, err := localdb.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	rest := api.NewRESTClient(cfg.APIBaseURL, cfg.RequestTimeout)
	store := session.NewStore()
	gateway := auth.NewGateway(rest, repos.Credentials, store, log)
	channel := realtime.New(cfg.RealtimeURL, realtime.WebsocketDialer{}, log, cfg.ReconnectAttempts, cfg.ReconnectDelay)
	registrar := push.NewRegistrar(rest, repos.Credentials, log)

	a := &App{
		cfg:     cfg,
		log:     log.With("component", "cli"),
		reader:  bufio.NewReader(os.Stdin),
		db:      db,
		repos:   repos,
		api:     rest,
		store:   store,
		gateway: gateway,
		channel: channel,
		push:    registrar,
	}

	a.quoteSync = syncer.New(channel, log, a.refreshQuotesCache,
		models.EventNewQuote, models.EventQuoteUpdated)
	a.inspectionSync = syncer.New(channel, log, a.refreshInspectionsCache,
		models.EventNewInspection, models.EventInspectionUpdated,
		models.EventSlotConfirmed, models.EventCalendarUpdated)

	// A 401 on any authenticated call invalidates the whole session, not
	// just the request that hit it.
	rest.OnUnauthorized(func() {
		a.goOffline()
		a.gateway.HandleSessionExpired(context.Background())
	})

	return a, nil
}

// Run restores the persisted session, brings the realtime layer up when a
// session is present, and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.gateway.Restore(ctx)
	if a.store.IsAuthenticated() {
		a.goOnline(ctx)
	}

	printlnFn("HomeQuote client (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

// Close tears down the realtime connection and the local database.
func (a *App) Close() {
	a.goOffline()
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}

func (a *App) status() string {
	if a.store.IsLoading() {
		return "(loading)"
	}
	sess := a.store.Current()
	if sess == nil {
		return ""
	}
	return "(" + sess.DisplayName() + ")"
}

// goOnline connects the realtime channel with the persisted token and binds
// the cache syncers. Connection failures stay internal to the channel; the
// screens keep working off the REST API and the cache.
func (a *App) goOnline(ctx context.Context) {
	token, err := a.gateway.CurrentToken(ctx)
	if err != nil || token == "" {
		a.log.Warn(ctx, "no token available, skipping realtime connection", "error", err)
		return
	}

	// Disconnect clears handler registrations, so rebind from scratch.
	a.quoteSync.Stop()
	a.inspectionSync.Stop()
	a.channel.Connect(token)
	a.quoteSync.Start()
	a.inspectionSync.Start()
}

func (a *App) goOffline() {
	a.quoteSync.Stop()
	a.inspectionSync.Stop()
	a.channel.Disconnect()
}
