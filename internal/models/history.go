package models

import "time"

// HistoryRole identifies who acted on a complaint.
type HistoryRole string

const (
	HistoryRoleAdmin  HistoryRole = "ADMIN"
	HistoryRoleClient HistoryRole = "CLIENT"
)

// HistoryAction enumerates the audit trail entry kinds.
type HistoryAction string

const (
	ActionCreated       HistoryAction = "CREATED"
	ActionStatusChanged HistoryAction = "STATUS_CHANGED"
	ActionAdminResponse HistoryAction = "ADMIN_RESPONSE"
	ActionFeedback      HistoryAction = "FEEDBACK"
)

// HistoryEntry is one append-only audit record owned by the upstream API.
// Entries render in arrival order; the portal never reorders them.
type HistoryEntry struct {
	ID        int              `json:"id"`
	Complaint int              `json:"complaint"`
	User      *int             `json:"user"`
	UserRole  *HistoryRole     `json:"user_role,omitempty"`
	Action    HistoryAction    `json:"action"`
	OldStatus *ComplaintStatus `json:"old_status"`
	NewStatus *ComplaintStatus `json:"new_status"`
	Comment   string           `json:"comment"`
	CreatedAt time.Time        `json:"created_at"`
}

// ActionLabel renders the audit action for display, distinguishing admin and
// client feedback by the recorded role.
func (h HistoryEntry) ActionLabel() string {
	switch h.Action {
	case ActionCreated:
		return "Complaint submitted"
	case ActionStatusChanged:
		return "Status updated"
	case ActionAdminResponse:
		return "Admin response"
	case ActionFeedback:
		if h.UserRole != nil && *h.UserRole == HistoryRoleAdmin {
			return "Admin feedback"
		}
		return "Client feedback"
	default:
		return string(h.Action)
	}
}
