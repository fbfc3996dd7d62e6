// Package models defines the request and response bodies exchanged with
// HTTP clients of the prompt store.
package models

// SessionRequest asks for a token bound to a user and department.
type SessionRequest struct {
	Usename string `json:"usename"`
	Dept    string `json:"dept"`
}

// TokenResponse carries a signed token. The same value is also set as the
// token cookie.
type TokenResponse struct {
	Token string `json:"token"`
}

// PromptRequest is the body of POST /api/prompts. ID is optional; a UUID is
// generated when it is empty.
type PromptRequest struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	SortOrder int    `json:"sortOrder"`
}

// UpdateRequest is the body of PUT /api/prompts/{id}.
type UpdateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SortOrderRequest is one element of the PUT /api/prompts/sort-order body.
type SortOrderRequest struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sortOrder"`
}
