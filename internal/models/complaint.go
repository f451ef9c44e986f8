package models

import "time"

// ComplaintStatus enumerates the lifecycle states owned by the upstream API.
type ComplaintStatus string

const (
	StatusNew        ComplaintStatus = "NEW"
	StatusSubmitted  ComplaintStatus = "SUBMITTED"
	StatusInReview   ComplaintStatus = "IN_REVIEW"
	StatusInProgress ComplaintStatus = "IN_PROGRESS"
	StatusResolved   ComplaintStatus = "RESOLVED"
	StatusClosed     ComplaintStatus = "CLOSED"
	StatusRejected   ComplaintStatus = "REJECTED"
	StatusAccepted   ComplaintStatus = "ACCEPTED"
)

// Label converts the wire status into its display form.
func (s ComplaintStatus) Label() string {
	switch s {
	case StatusNew, StatusSubmitted:
		return "Submitted"
	case StatusInReview:
		return "In review"
	case StatusInProgress:
		return "In progress"
	case StatusResolved:
		return "Resolved"
	case StatusClosed:
		return "Closed"
	case StatusRejected:
		return "Rejected"
	case StatusAccepted:
		return "Accepted"
	default:
		return string(s)
	}
}

// StatusFilterOptions lists the selectable status filters for the list view.
var StatusFilterOptions = []string{"All", "Submitted", "In review", "In progress", "Resolved", "Closed", "Rejected"}

// Complaint is the portal's read-only copy of an upstream complaint.
type Complaint struct {
	ID        int             `json:"id"`
	Text      string          `json:"text"`
	Status    ComplaintStatus `json:"status"`
	User      int             `json:"user"`
	Category  *int            `json:"category"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// LastUpdate falls back to the creation time when no update was recorded.
func (c Complaint) LastUpdate() time.Time {
	if c.UpdatedAt != nil {
		return *c.UpdatedAt
	}
	return c.CreatedAt
}

// ComplaintPage is the normalized list response shape. The upstream list
// endpoint returns either a bare array or a paginated envelope; the API client
// folds both into this one shape so nothing downstream branches on it.
type ComplaintPage struct {
	Items      []Complaint `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// HasMore reports whether another page can be requested.
func (p ComplaintPage) HasMore() bool {
	return p.NextCursor != ""
}

// CreateComplaintRequest is the payload accepted by the create view.
type CreateComplaintRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// CreateComplaintPayload is what actually goes upstream: trimmed text and the
// category only when one was provided.
type CreateComplaintPayload struct {
	Text     string `json:"text"`
	Category *int   `json:"category,omitempty"`
}
