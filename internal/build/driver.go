package build

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/hmmpress/internal/config"
	"git.home.luguber.info/inful/hmmpress/internal/daemon/events"
	"git.home.luguber.info/inful/hmmpress/internal/docs"
	ferrors "git.home.luguber.info/inful/hmmpress/internal/foundation/errors"
	"git.home.luguber.info/inful/hmmpress/internal/logfields"
	"git.home.luguber.info/inful/hmmpress/internal/metrics"
	"github.com/google/uuid"
)

const (
	stageEnumerate = "enumerate"
	stageAssemble  = "assemble"
	stagePrune     = "prune"

	resultOK = "ok"
)

// DocumentStore is the cache the driver writes compiled documents to.
type DocumentStore interface {
	PutDocument(ctx context.Context, fileID string, doc *Document) error
	DeleteDocument(ctx context.Context, fileID string) error
	ListDocuments(ctx context.Context) ([]*Document, error)
}

// Driver compiles every source file and keeps the cache in step with the
// content directory. Runs are serialized; concurrent callers wait.
type Driver struct {
	mu        sync.Mutex
	content   config.ContentConfig
	store     DocumentStore
	assembler *Assembler
	recorder  metrics.Recorder
	bus       *events.Bus
	last      atomic.Pointer[Batch]
}

// NewDriver creates a Driver compiling the files described by cfg.
func NewDriver(cfg config.ContentConfig, store DocumentStore, assembler *Assembler) *Driver {
	return &Driver{
		content:   cfg,
		store:     store,
		assembler: assembler,
		recorder:  metrics.NoopRecorder{},
	}
}

// WithRecorder sets the metrics recorder.
func (d *Driver) WithRecorder(r metrics.Recorder) *Driver {
	if r != nil {
		d.recorder = r
	}
	return d
}

// WithEventBus publishes per-document and per-batch events on bus.
func (d *Driver) WithEventBus(bus *events.Bus) *Driver {
	d.bus = bus
	return d
}

// LastBatch returns the most recent completed batch, or nil before the first run.
func (d *Driver) LastBatch() *Batch {
	return d.last.Load()
}

// CompileAll compiles every enumerated source file. Each success is cached
// as soon as it is assembled; failures are recorded in the batch and never
// abort the run. Cached documents that did not compile in this run are
// removed afterwards. ctx is only passed to store calls and event delivery.
func (d *Driver) CompileAll(ctx context.Context) *Batch {
	d.mu.Lock()
	defer d.mu.Unlock()

	batch := &Batch{RunID: uuid.NewString(), StartedAt: time.Now()}
	log := slog.With(logfields.RunID(batch.RunID))
	log.Info("Compilation started", logfields.Path(d.content.Root))

	defer func() {
		batch.Duration = time.Since(batch.StartedAt)
		d.finish(ctx, log, batch)
	}()

	stageStart := time.Now()
	files, err := docs.Enumerate(d.content.Root, d.content.Extension, d.content.Recursive)
	d.recorder.ObserveStageDuration(stageEnumerate, time.Since(stageStart))
	if err != nil {
		d.recorder.IncStageResult(stageEnumerate, metrics.ResultFatal)
		batch.Err = ferrors.FileSystemError("failed to enumerate content").
			WithCause(err).
			WithContext("root", d.content.Root).
			Build()
		return batch
	}
	d.recorder.IncStageResult(stageEnumerate, metrics.ResultSuccess)

	stageStart = time.Now()
	batch.Results = make([]Result, 0, len(files))
	for _, file := range files {
		res := d.compileOne(ctx, log, batch.RunID, file)
		batch.Results = append(batch.Results, res)
	}
	d.recorder.ObserveStageDuration(stageAssemble, time.Since(stageStart))
	if len(batch.Failed()) > 0 {
		d.recorder.IncStageResult(stageAssemble, metrics.ResultWarning)
	} else {
		d.recorder.IncStageResult(stageAssemble, metrics.ResultSuccess)
	}

	stageStart = time.Now()
	batch.Pruned = d.prune(ctx, log, batch)
	d.recorder.ObserveStageDuration(stagePrune, time.Since(stageStart))
	return batch
}

func (d *Driver) compileOne(ctx context.Context, log *slog.Logger, runID, file string) Result {
	doc, err := d.assembleSafely(ctx, file)
	if err == nil {
		if putErr := d.store.PutDocument(ctx, file, doc); putErr != nil {
			doc, err = nil, ferrors.StorageError("failed to cache document").
				WithCause(putErr).
				WithContext("file", file).
				Build()
		}
	}

	if err != nil {
		category := ferrors.GetCategory(err)
		log.Warn("Document compilation failed",
			logfields.File(file),
			logfields.Category(string(category)),
			logfields.Error(err))
		d.recorder.IncDocumentResult(string(category))
		d.publish(ctx, log, events.DocumentFailed{
			RunID:    runID,
			FileID:   file,
			Category: string(category),
			Err:      err,
			FailedAt: time.Now(),
		})
		return Result{FileID: file, Err: err}
	}

	log.Debug("Document compiled",
		logfields.File(file),
		logfields.DocumentID(doc.DocumentID),
		logfields.Timestamp(doc.Timestamp),
		slog.String("timestamp_source", string(doc.TimestampSource)))
	d.recorder.IncDocumentResult(resultOK)
	d.publish(ctx, log, events.DocumentCompiled{
		RunID:      runID,
		FileID:     file,
		DocumentID: doc.DocumentID,
		Title:      doc.Title,
		Timestamp:  doc.Timestamp,
		Tokens:     len(doc.Tokens),
		CompiledAt: time.Now(),
	})
	return Result{FileID: file, Document: doc}
}

// assembleSafely converts a compiler invariant panic into an internal error
// for the one file involved.
func (d *Driver) assembleSafely(ctx context.Context, file string) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Compiler panic", logfields.File(file), slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
			doc = nil
			err = ferrors.InternalError("compiler invariant failure").
				WithCause(fmt.Errorf("%w: %v", ErrCompilerPanic, r)).
				WithContext("file", file).
				Build()
		}
	}()
	return d.assembler.Assemble(ctx, file)
}

func (d *Driver) prune(ctx context.Context, log *slog.Logger, batch *Batch) []string {
	keep := make(map[string]struct{}, len(batch.Results))
	for _, doc := range batch.Succeeded() {
		keep[doc.FileID] = struct{}{}
	}

	cached, err := d.store.ListDocuments(ctx)
	if err != nil {
		log.Warn("Failed to list cached documents for pruning", logfields.Error(err))
		d.recorder.IncStageResult(stagePrune, metrics.ResultWarning)
		return nil
	}

	var pruned []string
	for _, doc := range cached {
		if _, ok := keep[doc.FileID]; ok {
			continue
		}
		if err := d.store.DeleteDocument(ctx, doc.FileID); err != nil {
			log.Warn("Failed to prune document", logfields.File(doc.FileID), logfields.Error(err))
			continue
		}
		log.Info("Pruned document", logfields.File(doc.FileID))
		pruned = append(pruned, doc.FileID)
	}
	d.recorder.IncStageResult(stagePrune, metrics.ResultSuccess)
	return pruned
}

func (d *Driver) finish(ctx context.Context, log *slog.Logger, batch *Batch) {
	succeeded, failed := len(batch.Succeeded()), len(batch.Failed())
	outcome := batch.Outcome()

	d.recorder.ObserveBatchDuration(batch.Duration)
	d.recorder.IncBatchOutcome(outcome)
	if batch.Err == nil {
		d.recorder.SetCachedDocuments(succeeded)
	}

	attrs := []any{
		slog.Int("succeeded", succeeded),
		slog.Int("failed", failed),
		slog.Int("pruned", len(batch.Pruned)),
		slog.String("outcome", string(outcome)),
		logfields.Duration(batch.Duration),
	}
	if batch.Err != nil {
		log.Error("Compilation failed", append(attrs, logfields.Error(batch.Err))...)
	} else {
		log.Info("Compilation finished", attrs...)
	}

	d.last.Store(batch)
	d.publish(ctx, log, events.BatchCompleted{
		RunID:     batch.RunID,
		StartedAt: batch.StartedAt,
		Duration:  batch.Duration,
		Succeeded: succeeded,
		Failed:    failed,
		Pruned:    len(batch.Pruned),
		Err:       batch.Err,
	})
}

func (d *Driver) publish(ctx context.Context, log *slog.Logger, evt events.Event) {
	if err := d.bus.Publish(ctx, evt); err != nil {
		log.Debug("Event not delivered", slog.String("event", evt.EventKind()), logfields.Error(err))
	}
}
