package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gymdesk/internal/client/api"
	"github.com/dmitrijs2005/gymdesk/internal/client/config"
	"github.com/dmitrijs2005/gymdesk/internal/client/models"
	"github.com/dmitrijs2005/gymdesk/internal/client/securestore"
	"github.com/dmitrijs2005/gymdesk/internal/client/services"
	"github.com/dmitrijs2005/gymdesk/internal/client/session"
	"github.com/dmitrijs2005/gymdesk/internal/filex"
	"github.com/dmitrijs2005/gymdesk/internal/logging"
)

// Mode is the backend reachability shown in the prompt.
type Mode string

const (
	ModeUnknown Mode = ""
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

const (
	secretSize          = 32
	onlineCheckInterval = 30 * time.Second
	onlineCheckTimeout  = 3 * time.Second
)

// App holds the wired client: secure store, gateway, session and the
// screen services the commands drive.
type App struct {
	log     logging.Logger
	secrets securestore.Store
	closer  io.Closer

	api      *api.Client
	session  *session.Store
	auth     services.AuthService
	trainee  *services.TraineeService
	manager  *services.ManagerService
	admin    *services.AdminService
	plans    *services.PlanService
	coach    *services.AssistantService
	stdin    io.Reader
	reader   *bufio.Reader
	out      io.Writer
	mu       sync.Mutex
	mode     Mode
	restored bool
}

// NewApp opens the secure store described by cfg and wires the gateway and
// services on top of it. The caller must Close the app.
func NewApp(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*App, error) {
	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	secret := []byte(cfg.StoreSecret)
	if len(secret) == 0 {
		secret, err = filex.ReadOrCreateSecret(cfg.StoreSecretFile, secretSize)
		if err != nil {
			return nil, err
		}
	}

	if err := filex.EnsureParentDir(cfg.StorePath); err != nil {
		return nil, err
	}
	store, err := securestore.Open(ctx, cfg.StorePath, secret)
	if err != nil {
		return nil, fmt.Errorf("open secure store %s: %w", cfg.StorePath, err)
	}

	client := api.New(cfg.BackendURL, store, api.WithTimeout(cfg.RequestTimeout), api.WithLogger(log))

	a := newApp(client, store, log, in, out)
	a.closer = store
	a.session.Initialize(ctx)
	return a, nil
}

// newApp wires everything except the store, which the caller owns.
// The session is not initialized.
func newApp(c *api.Client, secrets securestore.Store, log logging.Logger, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.Discard()
	}
	s := session.New(secrets, log)
	return &App{
		log:     log,
		secrets: secrets,
		api:     c,
		session: s,
		auth:    services.NewAuthService(c, s, log),
		trainee: services.NewTraineeService(c, log),
		manager: services.NewManagerService(c, log),
		admin:   services.NewAdminService(c, log),
		plans:   services.NewPlanService(c),
		coach:   services.NewAssistantService(c),
		stdin:   in,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// Close releases the secure store.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// user returns the signed-in identity, restoring it from the backend once
// when only a persisted credential is known. It reconciles the session
// with storage first, so a credential dropped on a 401 signs the user out.
func (a *App) user(ctx context.Context) *models.Identity {
	was := a.session.State().IsAuthenticated
	ok, err := a.session.Reconcile(ctx)
	if err != nil {
		a.log.Warn(ctx, "session reconcile failed", "err", err)
	}
	if ok {
		return a.session.State().User
	}
	if was && err == nil {
		a.warn(sessionEndedMsg)
		return nil
	}

	st := a.session.State()
	if st.SessionToken == "" || a.restored {
		return nil
	}
	a.restored = true

	u, err := a.auth.Me(ctx)
	if err != nil {
		a.log.Info(ctx, "stored session not restored", "err", err)
		if api.KindOf(err) == api.KindAuthExpired {
			a.warn(sessionEndedMsg)
		}
		return nil
	}
	return u
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.user(ctx) != nil
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "backend reachability changed", "mode", mode)
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// checkOnline probes the health endpoint and records the result.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, onlineCheckTimeout)
	defer cancel()

	if _, err := a.api.Health(ctx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher probes the backend every interval until ctx is
// done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
