package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pawtally/pawtally/internal/domain"
	"github.com/pawtally/pawtally/pkg/logger"
	"github.com/pawtally/pawtally/pkg/metrics"
)

// State is the worker startup state.
type State int32

const (
	// StateConnecting means the persisted store is not reachable yet.
	StateConnecting State = iota
	// StateReady means the schema exists and the dequeue loop is running.
	StateReady
)

// Connector opens the persisted store. The worker retries it indefinitely
// with a fixed backoff while in StateConnecting.
type Connector func(ctx context.Context) (domain.TallyRepository, error)

// TallyWorker drains the vote queue one entry at a time and commits each
// valid vote with an atomic insert-or-increment. It pops before committing,
// so a crash between the two loses that single vote; there is no requeue.
type TallyWorker struct {
	queue   domain.BallotQueue
	connect Connector

	connectBackoff time.Duration
	errorBackoff   time.Duration
	sleep          func(time.Duration)

	state     atomic.Int32
	processed atomic.Int64
	discarded atomic.Int64
	failed    atomic.Int64
}

// Config defines runtime options for the worker.
type Config struct {
	ConnectBackoff time.Duration
	ErrorBackoff   time.Duration
	// Sleep replaces time.Sleep between retries. Tests inject a recorder
	// here to observe backoff without real waiting.
	Sleep func(time.Duration)
}

// NewTallyWorker builds a new tally worker instance.
func NewTallyWorker(queue domain.BallotQueue, connect Connector, cfg Config) *TallyWorker {
	if cfg.ConnectBackoff <= 0 {
		cfg.ConnectBackoff = 2 * time.Second
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = time.Second
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}

	return &TallyWorker{
		queue:          queue,
		connect:        connect,
		connectBackoff: cfg.ConnectBackoff,
		errorBackoff:   cfg.ErrorBackoff,
		sleep:          cfg.Sleep,
	}
}

// Run launches the worker. It blocks until context cancellation; every other
// failure is retried and never terminates the loop.
func (w *TallyWorker) Run(ctx context.Context) {
	logger.Info("Tally worker started")

	repo := w.awaitStore(ctx)
	if repo == nil {
		logger.Info("Tally worker stopping", logger.ErrorField(ctx.Err()))
		return
	}

	w.state.Store(int32(StateReady))
	logger.Info("Tally worker ready, waiting for votes")

	for {
		if ctx.Err() != nil {
			logger.Info("Tally worker stopping", logger.ErrorField(ctx.Err()))
			return
		}
		w.processNext(ctx, repo)
	}
}

// awaitStore retries the store connection and schema setup with a fixed
// backoff until either succeeds together or the context ends. Returns nil
// only on cancellation.
func (w *TallyWorker) awaitStore(ctx context.Context) domain.TallyRepository {
	w.state.Store(int32(StateConnecting))

	for {
		if ctx.Err() != nil {
			return nil
		}

		repo, err := w.connect(ctx)
		if err != nil {
			logger.Warn("Waiting for database",
				logger.Duration("retry_in", w.connectBackoff),
				logger.ErrorField(err),
			)
			w.sleep(w.connectBackoff)
			continue
		}

		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Warn("Waiting for database schema",
				logger.Duration("retry_in", w.connectBackoff),
				logger.ErrorField(err),
			)
			w.sleep(w.connectBackoff)
			continue
		}

		return repo
	}
}

func (w *TallyWorker) processNext(ctx context.Context, repo domain.TallyRepository) {
	raw, err := w.queue.BlockingPop(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.failed.Add(1)
		metrics.RecordTallyError("dequeue")
		logger.Error("Failed to dequeue vote", logger.ErrorField(err))
		w.sleep(w.errorBackoff)
		return
	}

	if raw == "" {
		// Bounded pop elapsed with an empty queue; re-arm
		return
	}

	option, ok := domain.ParseOption(raw)
	if !ok {
		// Malformed entry: discard without touching the tally
		w.discarded.Add(1)
		metrics.RecordBallotDiscarded()
		logger.Debug("Discarded malformed queue entry", logger.String("raw", raw))
		return
	}

	start := time.Now()
	if err := repo.Increment(ctx, option); err != nil {
		w.failed.Add(1)
		metrics.RecordTallyError("commit")
		logger.Error("Failed to commit vote",
			logger.String("option", option.String()),
			logger.ErrorField(err),
		)
		w.sleep(w.errorBackoff)
		return
	}

	w.processed.Add(1)
	metrics.RecordBallotTallied(option.String(), time.Since(start).Seconds())
	logger.Info("Vote counted",
		logger.String("option", option.String()),
		logger.Duration("duration", time.Since(start)),
	)

	if depth, err := w.queue.Len(ctx); err == nil {
		metrics.SetQueueDepth("votes", float64(depth))
	}
}

// State reports the current startup state.
func (w *TallyWorker) State() State {
	return State(w.state.Load())
}

// Processed reports committed votes since startup.
func (w *TallyWorker) Processed() int64 {
	return w.processed.Load()
}

// Discarded reports malformed entries dropped since startup.
func (w *TallyWorker) Discarded() int64 {
	return w.discarded.Load()
}

// Failed reports dequeue/commit errors since startup.
func (w *TallyWorker) Failed() int64 {
	return w.failed.Load()
}
