package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"clipkeep/internal/api"
	"clipkeep/internal/clip"
	"clipkeep/internal/clipboard"
	"clipkeep/internal/config"
	"clipkeep/internal/database"
	"clipkeep/internal/vault"
)

// migrationChecker is implemented by backends with a versioned schema.
type migrationChecker interface {
	CheckMigrations() error
}

// snapshotter is implemented by backends that can copy themselves to a file.
type snapshotter interface {
	BackupTo(destPath string) error
}

// Options tunes how a ClipApp is built. The zero value is what the CLI uses.
type Options struct {
	// Stderr receives console log output; defaults to os.Stderr.
	Stderr io.Writer
	// Verbose sends every log level to Stderr instead of warnings only.
	Verbose bool
	// Clock and IDs default to the real clock and UUIDs.
	Clock clip.Clock
	IDs   clip.IDGenerator
}

// ClipApp is the application layer between the CLI and clip.Service.
// It constructs all dependencies from config and manages the database
// lifecycle on Close.
type ClipApp struct {
	cfg       *config.Config
	db        clip.Database
	clipboard clip.Clipboard
	store     *clip.Store
	monitor   *clip.Monitor
	service   *clip.Service
	op        *Operation
	logger    *slog.Logger
	logFile   *os.File
}

// NewClipApp creates a fully wired ClipApp from the given config.
// command identifies the CLI command being run (e.g. "AddManual", "Watch").
// The caller must call Close when done.
func NewClipApp(cfg *config.Config, command string, opts Options) (*ClipApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Clock == nil {
		opts.Clock = clip.RealClock{}
	}
	if opts.IDs == nil {
		opts.IDs = clip.UUIDGenerator{}
	}

	cb, err := clipboard.NewFromConfig(cfg.Clipboard)
	if err != nil {
		return nil, fmt.Errorf("creating clipboard: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.HostID)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if mc, ok := db.(migrationChecker); ok {
		if err := mc.CheckMigrations(); err != nil {
			db.Close()
			return nil, fmt.Errorf("database schema out of date: %w", err)
		}
	}

	op := NewOperation(command, opts.Clock.Now())
	logger, logFile, err := newLogger(cfg.LogDir, op.ID, opts.Stderr, opts.Verbose)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger = logger.With("command", command)

	log := &slogAdapter{l: logger}
	store := clip.NewStore(db, log)
	monitor := clip.NewMonitor(cb, store, opts.Clock, opts.IDs, log)
	svc := clip.NewService(store, monitor, log, opts.Clock, opts.IDs)

	return &ClipApp{
		cfg:       cfg,
		db:        db,
		clipboard: cb,
		store:     store,
		monitor:   monitor,
		service:   svc,
		op:        op,
		logger:    logger,
		logFile:   logFile,
	}, nil
}

// Service returns the engine service.
func (a *ClipApp) Service() *clip.Service { return a.service }

// Config returns the config the app was built from.
func (a *ClipApp) Config() *config.Config { return a.cfg }

// Operation returns the operation tracking the current command.
func (a *ClipApp) Operation() *Operation { return a.op }

// Finish records the outcome of the command. A failed command skips the
// automatic backup on Close.
func (a *ClipApp) Finish(err error) {
	a.op.Finish(err)
	if err != nil {
		a.logger.Error("command failed", "error", err)
	}
}

// Vault builds the vault with the given name, or the first configured vault
// when name is empty.
func (a *ClipApp) Vault(ctx context.Context, name string) (clip.Vault, error) {
	vc, err := a.cfg.Vault(name)
	if err != nil {
		return nil, err
	}
	v, err := vault.NewVaultFromConfig(ctx, *vc)
	if err != nil {
		return nil, fmt.Errorf("creating vault %s: %w", vc.Name, err)
	}
	return v, nil
}

// PushBackup uploads the export document to the named vault.
func (a *ClipApp) PushBackup(ctx context.Context, vaultName string) (int64, error) {
	v, err := a.Vault(ctx, vaultName)
	if err != nil {
		return 0, err
	}
	return a.service.PushBackup(v, a.cfg.HostID)
}

// PullBackup restores the latest backup from the named vault.
func (a *ClipApp) PullBackup(ctx context.Context, vaultName string) (int64, *clip.ImportSummary, error) {
	v, err := a.Vault(ctx, vaultName)
	if err != nil {
		return 0, nil, err
	}
	return a.service.PullBackup(v, a.cfg.HostID)
}

// ClearAll wipes every stored collection. File-backed SQLite databases are
// first snapshotted next to the database file; the snapshot path is returned
// ("" when no snapshot was taken).
func (a *ClipApp) ClearAll() (string, error) {
	snapshot := ""
	if s, ok := a.db.(snapshotter); ok && a.cfg.Database.Type == "sqlite" {
		snapshot = filepath.Join(a.cfg.Database.DataDir,
			fmt.Sprintf("%s-%s.pre-clear.db", a.cfg.HostID, a.op.ID))
		if err := s.BackupTo(snapshot); err != nil {
			return "", fmt.Errorf("snapshotting database before clear: %w", err)
		}
		a.logger.Info("database snapshot written", "path", snapshot)
	}
	if err := a.store.ClearAll(); err != nil {
		return snapshot, err
	}
	return snapshot, nil
}

// PollOnce checks the clipboard a single time. The last observed text comes
// from the store, which copy-outs and earlier polls keep current; the newest
// stored record stands in when nothing was recorded yet. Returns the captured
// record, or nil.
func (a *ClipApp) PollOnce() *clip.Record {
	last := ""
	if recent := a.service.Recent(1); len(recent) > 0 {
		last = recent[0].Text
	}
	a.monitor.Resume(last)
	defer a.monitor.Stop()

	if !a.monitor.Poll() {
		return nil
	}
	records := a.store.ListRecords()
	if len(records) == 0 {
		return nil
	}
	return &records[0]
}

// Watch polls the clipboard on the configured interval until ctx is done.
// Polls never overlap: a tick that arrives while a poll is still running is skipped.
func (a *ClipApp) Watch(ctx context.Context) error {
	interval := a.cfg.Monitor.PollInterval
	cl := cronLogger{l: a.logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc("@every "+interval.String(), func() { a.monitor.Poll() }); err != nil {
		return fmt.Errorf("scheduling clipboard poll: %w", err)
	}

	a.monitor.Start()
	c.Start()
	a.logger.Info("watching clipboard", "interval", interval)

	<-ctx.Done()

	<-c.Stop().Done()
	a.monitor.Stop()
	return nil
}

// Serve runs the HTTP API on the configured listen address until ctx is done.
func (a *ClipApp) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.API.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.API.Listen, err)
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener runs the HTTP API on ln until ctx is done. The monitor is
// started first so POST /poll compares against the clipboard as it was when
// serving began.
func (a *ClipApp) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           api.NewHandler(a.service, a.cfg.API.Token, &slogAdapter{l: a.logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.monitor.Start()
	defer a.monitor.Stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("api listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down api: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving api: %w", err)
	}
	return nil
}

// Close finalizes the operation and closes all resources.
// After a successful mutating command, when the googleDriveBackup setting is
// on and a vault is configured, the export document is pushed to the first
// vault before the database is closed.
func (a *ClipApp) Close() error {
	var firstErr error

	if a.op.Mutating() && a.op.Succeeded() && len(a.cfg.Vaults) > 0 && a.store.Settings().GoogleDriveBackup {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		version, err := a.PushBackup(ctx, "")
		cancel()
		if err != nil {
			firstErr = fmt.Errorf("automatic backup: %w", err)
		} else {
			a.logger.Info("automatic backup pushed", "version", version)
		}
	}

	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	a.logger.Info("command finished", "status", a.op.Status)
	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
