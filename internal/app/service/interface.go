package service

import (
	"context"

	"github.com/atinyakov/chat-prompt-store/internal/storage"
)

// PromptStoreIface is what the HTTP layer and the delete worker need from
// the store.
type PromptStoreIface interface {
	AddPrompt(context.Context, storage.PromptRecord) error
	QueryPrompt(ctx context.Context, dept string, usename string) ([]storage.PromptRecord, error)
	QueryPromptCompany(ctx context.Context, dept string) ([]storage.PromptRecord, error)
	MarkAsDeleted(ctx context.Context, id string) (*storage.PromptRecord, error)
	UpdateItem(ctx context.Context, id string, title string, content string) (*storage.PromptRecord, error)
	UpdateSortOrders(context.Context, []storage.SortOrderUpdate) error
	PingContext(context.Context) error
}
