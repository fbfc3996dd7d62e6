package storage

import (
	"context"
	"errors"
)

var (
	// ErrDocumentNotFound is returned by Read and Replace when no document
	// carries the requested id.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrConflict is returned by Create when the id is already taken.
	ErrConflict = errors.New("data conflict")

	// ErrPreconditionFailed is returned by a conditional Replace whose etag
	// no longer matches the stored version.
	ErrPreconditionFailed = errors.New("precondition failed")
)

// Container is a single logical collection of prompt documents keyed by id.
type Container interface {
	Create(context.Context, PromptRecord) error
	Query(context.Context, Filter) ([]PromptRecord, error)
	Read(ctx context.Context, id string) (*Document, error)
	Replace(context.Context, Document, ReplaceOptions) (*Document, error)
	PingContext(context.Context) error
}
