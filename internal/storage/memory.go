package storage

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryStorage keeps prompt documents in process memory.
type MemoryStorage struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func CreateMemoryStorage() (*MemoryStorage, error) {
	return &MemoryStorage{
		docs: make(map[string]Document),
	}, nil
}

func (m *MemoryStorage) Create(_ context.Context, r PromptRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, err := m.newDocument(r)
	if err != nil {
		return err
	}

	m.docs[r.ID] = d
	return nil
}

// newDocument builds the document Create would store. m.mu must be held.
func (m *MemoryStorage) newDocument(r PromptRecord) (Document, error) {
	if _, exists := m.docs[r.ID]; exists {
		return Document{}, fmt.Errorf("id %s: %w", r.ID, ErrConflict)
	}

	return Document{Record: r, ETag: uuid.NewString()}, nil
}

func (m *MemoryStorage) Query(_ context.Context, f Filter) ([]PromptRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]PromptRecord, 0)
	for _, d := range m.docs {
		if f.Match(d.Record) {
			records = append(records, d.Record)
		}
	}

	slices.SortFunc(records, func(a, b PromptRecord) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.ID, b.ID))
	})

	return records, nil
}

func (m *MemoryStorage) Read(_ context.Context, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.docs[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}

	return &d, nil
}

func (m *MemoryStorage) Replace(_ context.Context, d Document, opts ReplaceOptions) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, err := m.replacement(d, opts)
	if err != nil {
		return nil, err
	}

	m.docs[d.Record.ID] = stored
	return &stored, nil
}

// replacement builds the document Replace would store. m.mu must be held.
func (m *MemoryStorage) replacement(d Document, opts ReplaceOptions) (Document, error) {
	current, ok := m.docs[d.Record.ID]
	if !ok {
		return Document{}, ErrDocumentNotFound
	}

	if opts.IfMatch != "" && opts.IfMatch != current.ETag {
		return Document{}, ErrPreconditionFailed
	}

	return Document{Record: d.Record, ETag: uuid.NewString()}, nil
}

// Len returns the number of stored documents, deleted ones included.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.docs)
}

func (m *MemoryStorage) PingContext(_ context.Context) error {
	return nil
}
