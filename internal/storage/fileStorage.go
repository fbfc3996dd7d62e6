package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// fileEntry is one line of the storage file. Every write appends the full
// document; on load the last line for an id wins.
type fileEntry struct {
	Record PromptRecord `json:"record"`
	ETag   string       `json:"etag"`
}

// FileStorage is a MemoryStorage whose writes are journaled to a JSON-lines
// file and replayed on start. A write becomes visible only after its journal
// line has been written.
type FileStorage struct {
	mem    *MemoryStorage
	file   *os.File
	logger *zap.Logger
}

func NewFileStorage(p string, logger *zap.Logger) (*FileStorage, error) {
	if err := os.MkdirAll(filepath.Dir(p), 0770); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(p, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0660)
	if err != nil {
		return nil, err
	}

	mem, _ := CreateMemoryStorage()
	fs := &FileStorage{
		mem:    mem,
		file:   file,
		logger: logger,
	}

	if err := fs.load(); err != nil {
		file.Close()
		return nil, err
	}

	logger.Info("file storage loaded", zap.String("path", p), zap.Int("documents", mem.Len()))
	return fs, nil
}

func (fs *FileStorage) load() error {
	scanner := bufio.NewScanner(fs.file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var e fileEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return fmt.Errorf("failed to parse JSON line: %w", err)
		}
		fs.mem.docs[e.Record.ID] = Document{Record: e.Record, ETag: e.ETag}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	return nil
}

func (fs *FileStorage) append(d Document) error {
	b, err := json.Marshal(fileEntry{Record: d.Record, ETag: d.ETag})
	if err != nil {
		return err
	}

	_, err = fs.file.Write(append(b, '\n'))
	return err
}

func (fs *FileStorage) Create(_ context.Context, r PromptRecord) error {
	fs.mem.mu.Lock()
	defer fs.mem.mu.Unlock()

	d, err := fs.mem.newDocument(r)
	if err != nil {
		return err
	}

	if err := fs.append(d); err != nil {
		fs.logger.Error("cannot journal created document", zap.String("id", r.ID), zap.Error(err))
		return err
	}

	fs.mem.docs[r.ID] = d
	return nil
}

func (fs *FileStorage) Query(ctx context.Context, f Filter) ([]PromptRecord, error) {
	return fs.mem.Query(ctx, f)
}

func (fs *FileStorage) Read(ctx context.Context, id string) (*Document, error) {
	return fs.mem.Read(ctx, id)
}

func (fs *FileStorage) Replace(_ context.Context, d Document, opts ReplaceOptions) (*Document, error) {
	fs.mem.mu.Lock()
	defer fs.mem.mu.Unlock()

	stored, err := fs.mem.replacement(d, opts)
	if err != nil {
		return nil, err
	}

	if err := fs.append(stored); err != nil {
		fs.logger.Error("cannot journal replaced document", zap.String("id", d.Record.ID), zap.Error(err))
		return nil, err
	}

	fs.mem.docs[d.Record.ID] = stored
	return &stored, nil
}

func (fs *FileStorage) PingContext(_ context.Context) error {
	_, err := fs.file.Stat()
	return err
}

func (fs *FileStorage) Close() error {
	return fs.file.Close()
}
