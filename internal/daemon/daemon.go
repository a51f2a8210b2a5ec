package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"showdrop/internal/announce"
	"showdrop/internal/bot"
	"showdrop/internal/catalog"
	"showdrop/internal/config"
	"showdrop/internal/delivery"
	"showdrop/internal/gateway"
	"showdrop/internal/ingest"
	"showdrop/internal/logging"
	"showdrop/internal/membership"
	"showdrop/internal/notify"
)

// Daemon owns the long-running bot process: the update loop, the deletion
// reaper, and the optional announcer. A flock in the data directory enforces
// a single instance per catalog.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	store     *catalog.Store
	reaper    *delivery.Reaper
	bot       *bot.Bot
	announcer *announce.Poller
	notifier  notify.Service

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New wires the daemon from its external collaborators. The gateway and the
// update source are injected so tests can run the full lifecycle against
// fakes.
func New(cfg *config.Config, store *catalog.Store, gw gateway.Gateway, source gateway.Source, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || gw == nil || source == nil {
		return nil, errors.New("daemon requires config, store, gateway, and update source")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	notifier := notify.NewService(cfg, gw)
	reaper := delivery.NewReaper(gw, logger)
	scheduler := delivery.NewScheduler(cfg, store, gw, reaper, logger)
	gate := membership.NewGate(gw, cfg.Channels.RequiredChannels, logger)
	workflow := ingest.NewWorkflow(store, notifier, logger)

	lockPath := filepath.Join(cfg.Paths.DataDir, "showdrop.lock")
	return &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		store:     store,
		reaper:    reaper,
		bot:       bot.New(cfg, gw, source, gate, scheduler, workflow, notifier, logger),
		announcer: announce.NewPoller(cfg, store, gw, logger),
		notifier:  notifier,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and launches the background loops.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another showdrop instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.bot.Run(runCtx); err != nil {
			d.logger.Error("bot loop exited", logging.Error(err))
		}
	}()

	if d.announcer != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.announcer.Run(runCtx)
		}()
	}

	d.running.Store(true)
	d.logger.Info("showdrop daemon started", logging.String("lock", d.lockPath))
	if err := d.notifier.NotifyBotStarted(runCtx); err != nil {
		d.logger.Warn("start notification failed", logging.Error(err))
	}
	return nil
}

// Stop cancels the background loops, drains them, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	d.reaper.Stop()

	if err := d.notifier.NotifyBotStopped(context.Background()); err != nil {
		d.logger.Warn("stop notification failed", logging.Error(err))
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release instance lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("showdrop daemon stopped")
}

// Wait blocks until the background loops have exited.
func (d *Daemon) Wait() {
	d.wg.Wait()
}

// Running reports whether the daemon is currently started.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Close stops the daemon and releases the catalog.
func (d *Daemon) Close() error {
	d.Stop()
	return d.store.Close()
}
