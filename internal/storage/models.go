package storage

import "time"

// PromptRecord is a saved chat prompt. The JSON shape is the persisted
// document shape.
type PromptRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Dept      string    `json:"dept"`
	Usename   string    `json:"usename"`
	CreatedAt time.Time `json:"createdAt"`
	IsDeleted bool      `json:"isDeleted"`
	SortOrder int       `json:"sortOrder"`
}

// Document is a record as read back from a container, together with the
// concurrency token the container assigned to that version.
type Document struct {
	Record PromptRecord
	ETag   string
}

// SortOrderUpdate moves a single record to a new position.
type SortOrderUpdate struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sortOrder"`
}

// Filter selects active records of a department, optionally narrowed to a
// single user.
type Filter struct {
	Dept    string
	Usename string
	ByUser  bool
}

// Match reports whether r is active and inside the filter scope.
func (f Filter) Match(r PromptRecord) bool {
	if r.IsDeleted || r.Dept != f.Dept {
		return false
	}
	return !f.ByUser || r.Usename == f.Usename
}

// ReplaceOptions tune a Replace call. An empty IfMatch replaces
// unconditionally.
type ReplaceOptions struct {
	IfMatch string
}
