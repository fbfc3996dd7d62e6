// Package worker runs background soft deletes requested over HTTP.
package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/chat-prompt-store/internal/app/service"
	"github.com/atinyakov/chat-prompt-store/internal/storage"
)

const (
	defaultFlushInterval = 10 * time.Second
	defaultBatchSize     = 25
	defaultCallTimeout   = 3 * time.Second
)

// Store is the part of the prompt store the worker drives.
type Store interface {
	MarkAsDeleted(ctx context.Context, id string) (*storage.PromptRecord, error)
}

// DeleteTaskWorker collects prompt ids and soft deletes them in batches.
type DeleteTaskWorker struct {
	in        chan string
	logger    *zap.Logger
	store     Store
	interval    time.Duration
	batchSize   int
	callTimeout time.Duration
}

// Option configures a DeleteTaskWorker.
type Option func(*DeleteTaskWorker)

// WithFlushInterval sets how often a partial batch is flushed.
func WithFlushInterval(d time.Duration) Option {
	return func(w *DeleteTaskWorker) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithBatchSize sets the number of queued ids that triggers an early flush.
func WithBatchSize(n int) Option {
	return func(w *DeleteTaskWorker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

// WithCallTimeout bounds each MarkAsDeleted call of a flush.
func WithCallTimeout(d time.Duration) Option {
	return func(w *DeleteTaskWorker) {
		if d > 0 {
			w.callTimeout = d
		}
	}
}

func NewDeleteTaskWorker(logger *zap.Logger, store Store, opts ...Option) *DeleteTaskWorker {
	w := &DeleteTaskWorker{
		in:          make(chan string, defaultBatchSize),
		logger:      logger,
		store:       store,
		interval:    defaultFlushInterval,
		batchSize:   defaultBatchSize,
		callTimeout: defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Enqueue hands ids to the worker. It blocks until every id is accepted or
// ctx is done.
func (w *DeleteTaskWorker) Enqueue(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		select {
		case w.in <- id:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Run processes queued ids until ctx is cancelled. Whatever is pending at
// that point is flushed before Run returns.
func (w *DeleteTaskWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var pending []string

	for {
		select {
		case id := <-w.in:
			pending = append(pending, id)
			if len(pending) >= w.batchSize {
				pending = w.flush(pending)
			}
		case <-ticker.C:
			if len(pending) > 0 {
				pending = w.flush(pending)
			}
		case <-ctx.Done():
		drain:
			for {
				select {
				case id := <-w.in:
					pending = append(pending, id)
				default:
					break drain
				}
			}
			if len(pending) > 0 {
				w.flush(pending)
			}
			w.logger.Info("delete worker stopped")
			return
		}
	}
}

func (w *DeleteTaskWorker) flush(ids []string) []string {
	w.logger.Info("flushing soft deletes", zap.Int("count", len(ids)))

	for _, id := range ids {
		err := w.markAsDeleted(id)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrNotFound):
			w.logger.Info("skipping missing prompt", zap.String("id", id))
		default:
			w.logger.Error("cannot mark prompt as deleted", zap.String("id", id), zap.Error(err))
		}
	}

	return ids[:0]
}

func (w *DeleteTaskWorker) markAsDeleted(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.callTimeout)
	defer cancel()

	_, err := w.store.MarkAsDeleted(ctx, id)
	return err
}
