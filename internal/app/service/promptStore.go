// Package service holds the prompt store operations and the JWT helpers the
// HTTP layer uses to identify the calling user.
package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/atinyakov/chat-prompt-store/internal/storage"
)

var (
	// ErrNotFound is matched by errors.Is on every *NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when optimistic concurrency is enabled and the
	// record changed between read and replace.
	ErrConflict = errors.New("record was modified concurrently")
)

// NotFoundError reports a missing record to a single-record mutator.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item with id %s not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Option configures a PromptStore.
type Option func(*PromptStore)

// WithOptimisticConcurrency makes every replace conditional on the etag
// observed by the preceding read.
func WithOptimisticConcurrency() Option {
	return func(s *PromptStore) {
		s.checkETag = true
	}
}

// PromptStore creates, lists and mutates prompt records in a container.
// It keeps no state of its own; concurrent calls may interleave freely and,
// unless WithOptimisticConcurrency is set, the last replace wins.
type PromptStore struct {
	container storage.Container
	logger    *zap.Logger
	checkETag bool
}

func NewPromptStore(c storage.Container, logger *zap.Logger, opts ...Option) *PromptStore {
	s := &PromptStore{
		container: c,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// AddPrompt inserts r as given. A duplicate id fails with the container's
// conflict error.
func (s *PromptStore) AddPrompt(ctx context.Context, r storage.PromptRecord) error {
	return s.container.Create(ctx, r)
}

// QueryPrompt lists the active prompts of one user in one department.
func (s *PromptStore) QueryPrompt(ctx context.Context, dept string, usename string) ([]storage.PromptRecord, error) {
	return s.query(ctx, storage.Filter{Dept: dept, Usename: usename, ByUser: true})
}

// QueryPromptCompany lists the active prompts of a whole department.
func (s *PromptStore) QueryPromptCompany(ctx context.Context, dept string) ([]storage.PromptRecord, error) {
	return s.query(ctx, storage.Filter{Dept: dept})
}

// query orders by sortOrder and then id, whatever order the container
// returned equal sortOrders in.
func (s *PromptStore) query(ctx context.Context, f storage.Filter) ([]storage.PromptRecord, error) {
	records, err := s.container.Query(ctx, f)
	if err != nil {
		return nil, err
	}

	if records == nil {
		records = make([]storage.PromptRecord, 0)
	}

	slices.SortStableFunc(records, func(a, b storage.PromptRecord) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.ID, b.ID))
	})

	return records, nil
}

// MarkAsDeleted flags the record as deleted and returns the stored version.
func (s *PromptStore) MarkAsDeleted(ctx context.Context, id string) (*storage.PromptRecord, error) {
	return s.mutate(ctx, id, func(r *storage.PromptRecord) {
		r.IsDeleted = true
	})
}

// UpdateItem overwrites title and content and returns the stored version.
func (s *PromptStore) UpdateItem(ctx context.Context, id string, title string, content string) (*storage.PromptRecord, error) {
	return s.mutate(ctx, id, func(r *storage.PromptRecord) {
		r.Title = title
		r.Content = content
	})
}

// UpdateSortOrders applies each update in turn. Unknown ids are skipped. The
// first error stops the loop; updates already applied stay applied.
func (s *PromptStore) UpdateSortOrders(ctx context.Context, updates []storage.SortOrderUpdate) error {
	for _, u := range updates {
		doc, err := s.container.Read(ctx, u.ID)
		if errors.Is(err, storage.ErrDocumentNotFound) {
			s.logger.Debug("sort order target missing, skipped", zap.String("id", u.ID))
			continue
		}
		if err != nil {
			return err
		}

		doc.Record.SortOrder = u.SortOrder
		if _, err := s.replace(ctx, *doc); err != nil {
			return err
		}
	}

	return nil
}

func (s *PromptStore) PingContext(ctx context.Context) error {
	return s.container.PingContext(ctx)
}

func (s *PromptStore) mutate(ctx context.Context, id string, apply func(*storage.PromptRecord)) (*storage.PromptRecord, error) {
	doc, err := s.container.Read(ctx, id)
	if errors.Is(err, storage.ErrDocumentNotFound) {
		s.logger.Info("record not found", zap.String("id", id))
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}

	apply(&doc.Record)

	stored, err := s.replace(ctx, *doc)
	if err != nil {
		return nil, err
	}

	return &stored.Record, nil
}

func (s *PromptStore) replace(ctx context.Context, doc storage.Document) (*storage.Document, error) {
	var opts storage.ReplaceOptions
	if s.checkETag {
		opts.IfMatch = doc.ETag
	}

	stored, err := s.container.Replace(ctx, doc, opts)
	if s.checkETag && errors.Is(err, storage.ErrPreconditionFailed) {
		s.logger.Info("concurrent modification", zap.String("id", doc.Record.ID))
		return nil, fmt.Errorf("id %s: %w", doc.Record.ID, ErrConflict)
	}

	return stored, err
}
