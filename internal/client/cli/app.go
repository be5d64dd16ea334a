package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/fishlog/internal/client/client"
	"github.com/dmitrijs2005/fishlog/internal/client/config"
	"github.com/dmitrijs2005/fishlog/internal/client/connectivity"
	"github.com/dmitrijs2005/fishlog/internal/client/notify"
	"github.com/dmitrijs2005/fishlog/internal/client/repositories/identity"
	"github.com/dmitrijs2005/fishlog/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fishlog/internal/client/retry"
	"github.com/dmitrijs2005/fishlog/internal/client/services"
	"github.com/dmitrijs2005/fishlog/internal/client/storage"
	"github.com/dmitrijs2005/fishlog/internal/filex"
	"github.com/dmitrijs2005/fishlog/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config         *config.Config
	authService    services.AuthService
	catchService   services.CatchService
	groupService   services.GroupService
	eventService   services.EventService
	commentService services.CommentService
	monitor        *connectivity.Monitor
	logger         logging.Logger
	reader         *bufio.Reader
	out            io.Writer

	modeMu sync.RWMutex
	mode   Mode

	closeOnce sync.Once
	closeErr  error
	closers   []func() error
}

// NewApp opens local storage, connects the platform client and builds the
// services. Close releases everything NewApp opened.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	a := &App{
		config: c,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	ok := false
	defer func() {
		if !ok {
			_ = a.Close()
		}
	}()

	dbPath, err := filex.EnsureParentDir(c.LocalDBPath)
	if err != nil {
		return nil, err
	}
	db, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", dbPath, "error", err)
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	state := metadata.NewSQLiteRepository(db)

	api, err := client.NewHTTPClient(c.Endpoint, c.ProjectID, c.DatabaseID,
		client.WithTimeout(c.RequestTimeout),
		client.WithSecretStore(state),
	)
	if err != nil {
		return nil, err
	}
	if err := api.RestoreSession(ctx); err != nil {
		logger.Warn(ctx, "stored session unreadable", "error", err)
	}
	logger.Debug(ctx, "session restore", "has_session", api.HasSession())

	cache, err := a.identityStore(ctx, state)
	if err != nil {
		return nil, err
	}

	prober, err := a.prober(api)
	if err != nil {
		return nil, err
	}

	photos, err := a.photoStore(ctx)
	if err != nil {
		return nil, err
	}

	notifier := notify.NewConsole(a.out)
	policy := retry.Policy{
		MaxAttempts: c.RetryMaxAttempts,
		Backoff:     retry.Linear(c.RetryStep),
		Retryable:   retry.NotUnauthorized,
	}

	a.authService = services.NewAuthService(ctx, api, cache,
		services.WithLogger(logger),
		services.WithNotifier(notifier),
		services.WithRetryPolicy(policy),
	)
	a.closers = append(a.closers, func() error { return a.authService.Close(ctx) })

	docOpts := []services.Option{
		services.WithLogger(logger),
		services.WithNotifier(notifier),
	}
	a.catchService = services.NewCatchService(api, photos, c.CatchesCollection, docOpts...)
	a.groupService = services.NewGroupService(api, photos, c.GroupsCollection, docOpts...)
	a.eventService = services.NewEventService(api, c.EventsCollection, docOpts...)
	a.commentService = services.NewCommentService(api, c.CommentsCollection, docOpts...)

	a.monitor = connectivity.NewMonitor(prober, c.OnlineCheckInterval, c.ProbeTimeout, logger)
	a.monitor.OnChange(a.onConnectivityChange)

	ok = true
	return a, nil
}

func (a *App) identityStore(ctx context.Context, state metadata.Repository) (identity.Store, error) {
	if a.config.IdentityStoreURL == "" {
		return identity.NewSQLiteStore(state), nil
	}
	if !strings.HasPrefix(a.config.IdentityStoreURL, "redis://") && !strings.HasPrefix(a.config.IdentityStoreURL, "rediss://") {
		return nil, fmt.Errorf("unsupported identity store %q", a.config.IdentityStoreURL)
	}

	rs, err := identity.NewRedisStore(a.config.IdentityStoreURL, "fishlog")
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, rs.Close)

	if err := rs.Ping(ctx); err != nil {
		a.logger.Warn(ctx, "identity store unreachable", "error", err)
	}
	return rs, nil
}

func (a *App) prober(api connectivity.Pinger) (connectivity.Prober, error) {
	if a.config.HealthGRPCAddr == "" {
		return connectivity.NewClientProber(api), nil
	}

	p, err := connectivity.NewGRPCHealthProber(a.config.HealthGRPCAddr, "")
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, p.Close)
	return p, nil
}

func (a *App) photoStore(ctx context.Context) (storage.PhotoStore, error) {
	if a.config.S3Bucket == "" {
		a.logger.Info(ctx, "photo storage disabled, no bucket configured")
		return storage.Disabled{}, nil
	}
	return storage.NewS3PhotoStore(ctx, storage.S3Config{
		Bucket:    a.config.S3Bucket,
		Region:    a.config.S3Region,
		Endpoint:  a.config.S3Endpoint,
		AccessKey: a.config.S3AccessKey,
		SecretKey: a.config.S3SecretKey,
	})
}

// Close releases resources in reverse order of acquisition. Later calls
// return the first result.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		var errs []error
		for i := len(a.closers) - 1; i >= 0; i-- {
			if err := a.closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(ctx, "switched mode", "mode", mode)
	}
}

func modeFor(online bool) Mode {
	if online {
		return ModeOnline
	}
	return ModeOffline
}

// onConnectivityChange feeds monitor transitions into the session. Coming
// back online triggers a session check.
func (a *App) onConnectivityChange(ctx context.Context, online bool) {
	a.authService.SetOnline(online)
	a.setMode(ctx, modeFor(online))

	if online {
		if err := a.authService.CheckAuth(ctx); err != nil {
			a.logger.Warn(ctx, "session check after reconnect failed", "error", err)
		}
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn(ctx, "shutdown", "error", err)
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.authService.State().User != nil
}

// StartOnlineStatusWatcher probes connectivity until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context) {
	a.monitor.Run(ctx)
}
