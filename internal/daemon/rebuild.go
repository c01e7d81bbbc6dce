package daemon

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/hmmpress/internal/daemon/events"
	"git.home.luguber.info/inful/hmmpress/internal/logfields"
)

// Trigger sources for a recompile.
const (
	TriggerStartup  = "startup"
	TriggerWatch    = "watch"
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// rebuildWorker runs at most one recompile at a time. Requests that arrive
// while a run is in progress collapse into a single follow-up run.
type rebuildWorker struct {
	run     func(ctx context.Context, trigger string)
	bus     *events.Bus
	req     chan string
	mu      sync.Mutex
	running bool
	pending string
	runs    atomic.Int64
}

func newRebuildWorker(run func(ctx context.Context, trigger string), bus *events.Bus) *rebuildWorker {
	return &rebuildWorker{
		run: run,
		bus: bus,
		req: make(chan string, 1),
	}
}

// Request asks for a recompile. It never blocks.
func (w *rebuildWorker) Request(ctx context.Context, trigger, reason string) {
	if err := w.bus.Publish(ctx, events.RecompileRequested{
		Trigger:     trigger,
		Reason:      reason,
		RequestedAt: time.Now(),
	}); err != nil {
		slog.Debug("Event not delivered", slog.String("event", events.KindRecompileRequest), logfields.Error(err))
	}

	w.mu.Lock()
	if w.running {
		w.pending = trigger
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	select {
	case w.req <- trigger:
	default:
	}
}

// Runs returns how many recompiles the worker has completed.
func (w *rebuildWorker) Runs() int64 { return w.runs.Load() }

func (w *rebuildWorker) start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case trigger := <-w.req:
				w.process(ctx, trigger)
			}
		}
	}()
	return done
}

func (w *rebuildWorker) process(ctx context.Context, trigger string) {
	for trigger != "" {
		w.mu.Lock()
		w.running = true
		w.mu.Unlock()

		slog.Info("Recompile triggered", logfields.Trigger(trigger))
		// A started run always completes; shutdown waits for it.
		w.run(context.WithoutCancel(ctx), trigger)
		w.runs.Add(1)

		w.mu.Lock()
		w.running = false
		trigger, w.pending = w.pending, ""
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
	}
}
