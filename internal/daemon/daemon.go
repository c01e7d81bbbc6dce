// Package daemon wires the compiler, cache, watcher, scheduler, notifier and
// HTTP server into the long-running hmmpress process.
package daemon

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/hmmpress/internal/build"
	"git.home.luguber.info/inful/hmmpress/internal/config"
	"git.home.luguber.info/inful/hmmpress/internal/daemon/events"
	ferrors "git.home.luguber.info/inful/hmmpress/internal/foundation/errors"
	"git.home.luguber.info/inful/hmmpress/internal/git"
	"git.home.luguber.info/inful/hmmpress/internal/logfields"
	"git.home.luguber.info/inful/hmmpress/internal/metrics"
	"git.home.luguber.info/inful/hmmpress/internal/notify"
	"git.home.luguber.info/inful/hmmpress/internal/render"
	"git.home.luguber.info/inful/hmmpress/internal/retry"
	"git.home.luguber.info/inful/hmmpress/internal/server/httpserver"
	"git.home.luguber.info/inful/hmmpress/internal/storage"
)

// Status represents the current state of the daemon
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusError    Status = "error"
)

// publisher is the batch notification transport, NATS in production.
type publisher interface {
	notify.Publisher
	Close() error
}

// Daemon owns every long-lived component. Create it with New and release it
// with Close.
type Daemon struct {
	cfg       *config.Config
	store     storage.Store
	driver    *build.Driver
	bus       *events.Bus
	recorder  metrics.Recorder
	registry  *prom.Registry
	publisher publisher
	worker    *rebuildWorker
	server    atomic.Pointer[httpserver.Server]

	status    atomic.Value // Status
	startTime time.Time
	closeOnce sync.Once
}

// New opens the cache and builds the compilation pipeline. A NATS connection
// is made when notify.nats_url is set.
func New(cfg *config.Config) (*Daemon, error) {
	store, err := storage.Open(cfg.Cache)
	if err != nil {
		return nil, ferrors.StorageError("failed to open document cache").
			WithCause(err).
			WithContext("backend", string(cfg.Cache.Backend)).
			Build()
	}

	d := &Daemon{
		cfg:      cfg,
		store:    store,
		bus:      events.NewBus(),
		recorder: metrics.NoopRecorder{},
	}
	d.status.Store(StatusStopped)

	if cfg.Metrics.Enabled {
		d.registry = prom.NewRegistry()
		d.recorder = metrics.NewPrometheusRecorder(d.registry)
	}

	assembler := build.NewAssembler(nil, store)
	if cfg.Compiler.GitTimestamps {
		assembler = assembler.WithCommitTimer(git.NewHistory())
	}
	d.driver = build.NewDriver(cfg.Content, store, assembler).
		WithRecorder(d.recorder).
		WithEventBus(d.bus)
	d.worker = newRebuildWorker(d.recompile, d.bus)

	if cfg.Notify.NATSURL != "" {
		pub, err := notify.ConnectNATS(cfg.Notify.NATSURL)
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		d.publisher = pub
	}

	slog.Info("Daemon initialized",
		logfields.Backend(string(cfg.Cache.Backend)),
		logfields.Path(cfg.Content.Root),
		slog.Bool("metrics", cfg.Metrics.Enabled),
		slog.Bool("notify", d.publisher != nil))
	return d, nil
}

// GetStatus returns the current daemon status.
func (d *Daemon) GetStatus() Status {
	if s, ok := d.status.Load().(Status); ok {
		return s
	}
	return StatusStopped
}

// Addr returns the HTTP listen address while Run is serving, or "".
func (d *Daemon) Addr() string {
	if s := d.server.Load(); s != nil {
		return s.Addr()
	}
	return ""
}

// Store exposes the document cache.
func (d *Daemon) Store() storage.Store { return d.store }

// Driver exposes the compilation driver.
func (d *Daemon) Driver() *build.Driver { return d.driver }

// Compile runs one full compilation in the foreground, restoring and
// exporting the snapshot around it when one is configured.
func (d *Daemon) Compile(ctx context.Context) *build.Batch {
	d.restoreSnapshot(ctx)
	stop := d.startNotifier(ctx)
	defer stop()
	return d.compileAndExport(ctx, TriggerManual)
}

// Run serves the site until ctx is done. The cache is warmed from the
// snapshot, an initial compile runs, and afterwards the watcher and scheduler
// trigger recompiles.
func (d *Daemon) Run(ctx context.Context) error {
	if !d.status.CompareAndSwap(StatusStopped, StatusStarting) {
		return ferrors.DaemonError("daemon is not in stopped state").
			WithContext("status", string(d.GetStatus())).
			Build()
	}
	d.startTime = time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.restoreSnapshot(ctx)

	renderer, err := render.New(d.cfg.Site)
	if err != nil {
		d.status.Store(StatusError)
		return ferrors.InternalError("failed to load templates").WithCause(err).Build()
	}
	server := httpserver.New(d.store, renderer, d.serverOptions())
	if err := server.Start(ctx); err != nil {
		d.status.Store(StatusError)
		return err
	}
	d.server.Store(server)
	defer d.server.Store(nil)

	var wg sync.WaitGroup
	// The notifier outlives ctx so the batch finishing during shutdown is
	// still reported; stopNotifier runs after the worker is done.
	stopNotifier := d.startNotifier(context.WithoutCancel(ctx))
	workerDone := d.worker.start(ctx)

	if d.cfg.Watch.Enabled {
		watcher, err := NewWatcher(d.cfg.Content.Root, d.cfg.Watch.Debounce, func(path string) {
			d.worker.Request(ctx, TriggerWatch, path)
		})
		if err != nil {
			slog.Warn("Change watching disabled", logfields.Error(err))
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = watcher.Run(ctx)
			}()
		}
	}

	scheduler, err := d.startScheduler(ctx)
	if err != nil {
		slog.Warn("Periodic recompiles disabled", logfields.Error(err))
	}

	d.worker.Request(ctx, TriggerStartup, "initial compile")
	d.status.Store(StatusRunning)
	slog.Info("hmmpress daemon started", slog.String("addr", server.Addr()))

	<-ctx.Done()
	d.status.Store(StatusStopping)
	slog.Info("Shutting down")

	if scheduler != nil {
		if err := scheduler.Stop(context.Background()); err != nil {
			slog.Warn("Scheduler shutdown error", logfields.Error(err))
		}
	}
	wg.Wait()
	<-workerDone
	stopNotifier()

	err = server.Stop(context.Background())
	d.status.Store(StatusStopped)
	return err
}

// Close releases the cache, NATS connection and event bus.
func (d *Daemon) Close() error {
	var err error
	d.closeOnce.Do(func() {
		d.bus.Close()
		if d.publisher != nil {
			if cerr := d.publisher.Close(); cerr != nil {
				slog.Warn("NATS close error", logfields.Error(cerr))
			}
		}
		err = d.store.Close()
	})
	return err
}

func (d *Daemon) recompile(ctx context.Context, trigger string) {
	d.compileAndExport(ctx, trigger)
}

func (d *Daemon) compileAndExport(ctx context.Context, trigger string) *build.Batch {
	batch := d.driver.CompileAll(ctx)
	slog.Debug("Recompile complete", logfields.Trigger(trigger), logfields.RunID(batch.RunID))
	if d.cfg.Cache.Snapshot != "" && batch.Err == nil {
		if err := storage.Export(ctx, d.store, d.cfg.Cache.Snapshot, d.cfg.Snapshot()); err != nil {
			slog.Warn("Failed to write snapshot", logfields.Path(d.cfg.Cache.Snapshot), logfields.Error(err))
		}
	}
	return batch
}

func (d *Daemon) restoreSnapshot(ctx context.Context) {
	path := d.cfg.Cache.Snapshot
	if path == "" {
		return
	}
	n, err := storage.Restore(ctx, d.store, path, d.cfg.Snapshot())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("No snapshot to restore", logfields.Path(path))
	case errors.Is(err, storage.ErrSnapshotStale):
		slog.Info("Ignoring snapshot from a different configuration", logfields.Path(path))
	case err != nil:
		slog.Warn("Failed to restore snapshot", logfields.Path(path), logfields.Error(err))
	default:
		d.recorder.SetCachedDocuments(n)
		slog.Info("Cache warmed from snapshot", logfields.Path(path), logfields.Count(n))
	}
}

// startNotifier runs the NATS notifier when configured and returns a func
// that stops it after the delivered events are published.
func (d *Daemon) startNotifier(ctx context.Context) func() {
	if d.publisher == nil {
		return func() {}
	}
	return notify.NewNotifier(d.publisher, d.cfg.Notify.Subject).
		WithRecorder(d.recorder).
		WithRetry(retry.FromNotify(d.cfg.Notify)).
		Start(ctx, d.bus)
}

func (d *Daemon) startScheduler(ctx context.Context) (*Scheduler, error) {
	sc := d.cfg.Schedule
	if sc.Interval <= 0 && sc.Cron == "" {
		return nil, nil
	}
	s, err := NewScheduler()
	if err != nil {
		return nil, err
	}
	task := func() { d.worker.Request(ctx, TriggerSchedule, "periodic recompile") }
	if sc.Cron != "" {
		_, err = s.ScheduleCron("recompile", sc.Cron, task)
	} else {
		_, err = s.ScheduleEvery("recompile", sc.Interval, task)
	}
	if err != nil {
		_ = s.Stop(ctx)
		return nil, err
	}
	s.Start()
	return s, nil
}

func (d *Daemon) serverOptions() httpserver.Options {
	opts := httpserver.Options{
		Addr:            d.cfg.Server.Addr,
		ShutdownTimeout: d.cfg.Server.ShutdownTimeout,
		Status:          d,
	}
	if d.registry != nil {
		opts.MetricsHandler = metrics.HTTPHandler(d.registry)
		opts.MetricsPath = d.cfg.Metrics.Path
	}
	return opts
}
