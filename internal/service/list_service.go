package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/complainthub/portal/internal/models"
	appErrors "github.com/complainthub/portal/pkg/errors"
)

// User-facing messages for the list view.
const (
	MsgSignInAgain     = "You need to sign in again."
	MsgListLoadFailed  = "Unable to load complaints. Please try again."
	MsgCreatedBanner   = "Complaint submitted successfully."
	listFilterAll      = "All"
	categoryFallback   = "General"
	categorySearchTerm = "general"
)

// ComplaintLister is the slice of the upstream client the list view needs.
type ComplaintLister interface {
	ListComplaints(ctx context.Context, token string, page int) (models.ComplaintPage, error)
}

// ListStateRepository persists the accumulated list and the one-shot flash.
type ListStateRepository interface {
	GetListState(ctx context.Context, sessionID string) (models.ListState, error)
	SetListState(ctx context.Context, sessionID string, state models.ListState) error
	ConsumeFlash(ctx context.Context, sessionID string) (string, error)
}

// ListService drives the complaints list view: fetching pages into the
// accumulated per-session state and deriving filtered, sorted views from it.
// Filtering and sorting never touch the upstream API.
type ListService struct {
	upstream ComplaintLister
	sessions SessionRepository
	views    ListStateRepository
	logger   *zap.Logger
}

// NewListService constructs a list service.
func NewListService(upstream ComplaintLister, sessions SessionRepository, views ListStateRepository, logger *zap.Logger) *ListService {
	return &ListService{upstream: upstream, sessions: sessions, views: views, logger: logger}
}

// Refresh fetches page 1 and replaces the accumulated list. On failure the
// previously accumulated state is left untouched.
func (s *ListService) Refresh(ctx context.Context, sessionID string) error {
	return s.fetch(ctx, sessionID, true)
}

// LoadMore fetches the next page and appends it; earlier pages stay present
// and in order.
func (s *ListService) LoadMore(ctx context.Context, sessionID string) error {
	return s.fetch(ctx, sessionID, false)
}

func (s *ListService) fetch(ctx context.Context, sessionID string, reset bool) error {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if !sess.SignedIn() {
		return appErrors.Clone(appErrors.ErrUnauthorized, MsgSignInAgain)
	}

	state := models.ListState{}
	if !reset {
		if existing, err := s.views.GetListState(ctx, sessionID); err == nil {
			state = existing
		}
	}

	nextPage := 1
	if !reset {
		nextPage = state.Page + 1
	}

	page, err := s.upstream.ListComplaints(ctx, sess.Token, nextPage)
	if err != nil {
		if appErrors.IsAuth(err) {
			return appErrors.Clone(appErrors.FromError(err), MsgSignInAgain)
		}
		return appErrors.Clone(appErrors.FromError(err), MsgListLoadFailed)
	}

	if reset {
		state.Items = page.Items
	} else {
		state.Items = append(state.Items, page.Items...)
	}
	state.Page = nextPage
	state.Next = page.NextCursor

	return s.views.SetListState(ctx, sessionID, state)
}

// View derives the list view model from the accumulated state: filtered,
// sorted newest-first, with the one-shot flash consumed and the highlighted
// row marked. No upstream call is made.
func (s *ListService) View(ctx context.Context, sessionID, search, status, highlight string) (models.ListView, error) {
	state, err := s.views.GetListState(ctx, sessionID)
	if err != nil && err != appErrors.ErrSessionMiss {
		return models.ListView{}, err
	}

	filtered := SortByNewest(FilterComplaints(state.Items, search, status))

	rows := make([]models.ListRow, 0, len(filtered))
	for _, complaint := range filtered {
		rows = append(rows, models.ListRow{
			ID:          complaint.ID,
			CreatedAt:   complaint.CreatedAt,
			LastUpdate:  complaint.LastUpdate(),
			Category:    categoryLabel(complaint.Category),
			StatusLabel: complaint.Status.Label(),
			Text:        complaint.Text,
			Highlighted: highlight != "" && highlight == strconv.Itoa(complaint.ID),
		})
	}

	flash, err := s.views.ConsumeFlash(ctx, sessionID)
	if err != nil {
		s.logger.Warn("consume flash failed", zap.String("session_id", sessionID), zap.Error(err))
		flash = ""
	}

	return models.ListView{
		Rows:          rows,
		HasMore:       state.HasMore(),
		Page:          state.Page,
		TotalLoaded:   len(state.Items),
		Flash:         flash,
		StatusOptions: models.StatusFilterOptions,
	}, nil
}

// FilterComplaints applies the list predicate: status must match the selected
// label (or "All"), and the search term must appear in the id, category or
// text, case-insensitively. The input slice is not modified.
func FilterComplaints(items []models.Complaint, search, status string) []models.Complaint {
	term := strings.ToLower(strings.TrimSpace(search))

	result := make([]models.Complaint, 0, len(items))
	for _, complaint := range items {
		if status != "" && status != listFilterAll && complaint.Status.Label() != status {
			continue
		}
		if term != "" && !matchesTerm(complaint, term) {
			continue
		}
		result = append(result, complaint)
	}

	return result
}

func matchesTerm(complaint models.Complaint, term string) bool {
	category := categorySearchTerm
	if complaint.Category != nil {
		category = strconv.Itoa(*complaint.Category)
	}

	return strings.Contains(strconv.Itoa(complaint.ID), term) ||
		strings.Contains(strings.ToLower(category), term) ||
		strings.Contains(strings.ToLower(complaint.Text), term)
}

// SortByNewest returns a copy ordered stable-descending by creation time: a
// complaint appears before another iff it was created at the same time or
// later.
func SortByNewest(items []models.Complaint) []models.Complaint {
	result := make([]models.Complaint, len(items))
	copy(result, items)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result
}

func categoryLabel(category *int) string {
	if category == nil {
		return categoryFallback
	}
	return strconv.Itoa(*category)
}
