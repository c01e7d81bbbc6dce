package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"git.home.luguber.info/inful/hmmpress/internal/daemon/events"
	"git.home.luguber.info/inful/hmmpress/internal/logfields"
	"git.home.luguber.info/inful/hmmpress/internal/metrics"
	"git.home.luguber.info/inful/hmmpress/internal/retry"
)

// eventBuffer bounds how far the notifier may lag behind the driver before
// event delivery starts blocking compilation.
const eventBuffer = 64

// Publisher sends raw messages to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Notifier turns bus events into one BatchMessage per batch.
type Notifier struct {
	pub      Publisher
	subject  string
	recorder metrics.Recorder
	policy   retry.Policy
}

// NewNotifier creates a Notifier publishing to subject. Failed publishes are
// not retried unless WithRetry is used.
func NewNotifier(pub Publisher, subject string) *Notifier {
	return &Notifier{pub: pub, subject: subject, recorder: metrics.NoopRecorder{}, policy: retry.None()}
}

// WithRetry sets the publish retry policy.
func (n *Notifier) WithRetry(p retry.Policy) *Notifier {
	n.policy = p
	return n
}

// WithRecorder sets the metrics recorder.
func (n *Notifier) WithRecorder(r metrics.Recorder) *Notifier {
	if r != nil {
		n.recorder = r
	}
	return n
}

// Run consumes events from bus until ctx is done or the bus is closed.
func (n *Notifier) Run(ctx context.Context, bus *events.Bus) {
	ch, unsubscribe := events.Subscribe[events.Event](bus, eventBuffer)
	defer unsubscribe()
	n.consume(ctx, ch)
}

// Start subscribes to bus before returning and consumes events in the
// background. The returned func stops consumption once the events already
// delivered have been handled.
func (n *Notifier) Start(ctx context.Context, bus *events.Bus) (stop func()) {
	ch, unsubscribe := events.Subscribe[events.Event](bus, eventBuffer)
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer unsubscribe()
		n.consume(ctx, ch)
	}()
	return func() {
		cancel()
		<-done
	}
}

func (n *Notifier) consume(ctx context.Context, ch <-chan events.Event) {
	failures := make(map[string][]FailureMessage)
	for {
		select {
		case <-ctx.Done():
			n.drain(ctx, ch, failures)
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			n.handle(ctx, evt, failures)
		}
	}
}

// drain handles events already queued. ctx is done here, so publishes are
// attempted once.
func (n *Notifier) drain(ctx context.Context, ch <-chan events.Event, failures map[string][]FailureMessage) {
	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				return
			}
			n.handle(ctx, evt, failures)
		default:
			return
		}
	}
}

func (n *Notifier) handle(ctx context.Context, evt events.Event, failures map[string][]FailureMessage) {
	switch e := evt.(type) {
	case events.DocumentFailed:
		failures[e.RunID] = append(failures[e.RunID], FailureMessage{
			FileID:   e.FileID,
			Category: e.Category,
			Error:    errString(e.Err),
		})
	case events.BatchCompleted:
		msg := batchMessage(e, failures[e.RunID])
		delete(failures, e.RunID)
		n.send(ctx, msg)
	}
}

func (n *Notifier) send(ctx context.Context, msg BatchMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		n.recorder.IncNotification(false)
		slog.Error("Batch notification not encodable", logfields.RunID(msg.RunID), logfields.Error(err))
		return
	}
	attempts, err := n.policy.Do(ctx, func() error {
		return n.pub.Publish(n.subject, data)
	})
	n.recorder.IncNotification(err == nil)
	if err != nil {
		slog.Warn("Batch notification failed",
			logfields.RunID(msg.RunID),
			logfields.Subject(n.subject),
			slog.Int("attempts", attempts),
			logfields.Error(err))
		return
	}
	slog.Debug("Batch notification published", logfields.RunID(msg.RunID), logfields.Subject(n.subject))
}

func batchMessage(e events.BatchCompleted, failures []FailureMessage) BatchMessage {
	outcome := metrics.OutcomeFor(e.Succeeded, e.Failed)
	if e.Err != nil {
		outcome = metrics.BatchOutcomeFailed
	}
	return BatchMessage{
		RunID:      e.RunID,
		StartedAt:  e.StartedAt,
		DurationMS: e.Duration.Milliseconds(),
		Outcome:    string(outcome),
		Succeeded:  e.Succeeded,
		Failed:     e.Failed,
		Pruned:     e.Pruned,
		Error:      errString(e.Err),
		Failures:   failures,
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
