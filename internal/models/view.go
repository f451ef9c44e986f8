package models

import "time"

// ListState is the accumulated, unfiltered complaint list a session has
// fetched so far. It is what "load more" appends to and "refresh" replaces.
type ListState struct {
	Items []Complaint `json:"items"`
	Page  int         `json:"page"`
	Next  string      `json:"next"`
}

// HasMore reports whether the last fetched page advertised a next page.
func (s ListState) HasMore() bool {
	return s.Next != ""
}

// ListRow is one display row of the complaints table.
type ListRow struct {
	ID          int       `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdate  time.Time `json:"last_update"`
	Category    string    `json:"category"`
	StatusLabel string    `json:"status_label"`
	Text        string    `json:"text"`
	Highlighted bool      `json:"highlighted,omitempty"`
}

// ListView is the composed list page view model.
type ListView struct {
	Rows          []ListRow `json:"rows"`
	HasMore       bool      `json:"has_more"`
	Page          int       `json:"page"`
	TotalLoaded   int       `json:"total_loaded"`
	Flash         string    `json:"flash,omitempty"`
	StatusOptions []string  `json:"status_options"`
}

// HistoryItem is one display entry of the complaint audit trail.
type HistoryItem struct {
	ActionLabel    string    `json:"action_label"`
	OldStatusLabel string    `json:"old_status_label,omitempty"`
	NewStatusLabel string    `json:"new_status_label,omitempty"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// DetailView composes the complaint and its history. The two sections fail
// independently: a history error never blanks a loaded complaint and vice
// versa.
type DetailView struct {
	Complaint      *Complaint    `json:"complaint,omitempty"`
	StatusLabel    string        `json:"status_label,omitempty"`
	CategoryLabel  string        `json:"category_label,omitempty"`
	ComplaintError string        `json:"complaint_error,omitempty"`
	History        []HistoryItem `json:"history"`
	HistoryError   string        `json:"history_error,omitempty"`
}

// CreateResult reports a successful submission: where to navigate and which
// row to highlight there.
type CreateResult struct {
	ID         int    `json:"id"`
	RedirectTo string `json:"redirect_to"`
	Highlight  string `json:"highlight"`
}
