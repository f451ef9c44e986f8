package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/complainthub/portal/internal/models"
	appErrors "github.com/complainthub/portal/pkg/errors"
)

// User-facing messages for the detail view.
const (
	MsgComplaintNotFound = "Complaint not found."
	MsgDetailLoadFailed  = "Unable to load complaint details."
	MsgHistoryLoadFailed = "Unable to load complaint history."
)

// ComplaintGetter is the slice of the upstream client the detail view needs.
type ComplaintGetter interface {
	GetComplaint(ctx context.Context, token string, id int) (*models.Complaint, error)
	GetHistory(ctx context.Context, token string, id int) ([]models.HistoryEntry, error)
}

// DetailService composes one complaint with its audit history. The two
// fetches run concurrently and fail independently: a history error never
// discards a loaded complaint and vice versa.
type DetailService struct {
	upstream ComplaintGetter
	sessions SessionRepository
	logger   *zap.Logger
}

// NewDetailService constructs a detail service.
func NewDetailService(upstream ComplaintGetter, sessions SessionRepository, logger *zap.Logger) *DetailService {
	return &DetailService{upstream: upstream, sessions: sessions, logger: logger}
}

// View fetches the complaint and its history for the session's token.
func (s *DetailService) View(ctx context.Context, sessionID string, id int) (models.DetailView, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return models.DetailView{}, err
	}
	if !sess.SignedIn() {
		return models.DetailView{
			ComplaintError: MsgSignInAgain,
			HistoryError:   MsgSignInAgain,
			History:        []models.HistoryItem{},
		}, nil
	}

	view := models.DetailView{History: []models.HistoryItem{}}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		complaint, err := s.upstream.GetComplaint(ctx, sess.Token, id)
		if err != nil {
			view.ComplaintError = complaintErrorMessage(err)
			return
		}
		view.Complaint = complaint
		view.StatusLabel = complaint.Status.Label()
		view.CategoryLabel = categoryLabel(complaint.Category)
	}()

	go func() {
		defer wg.Done()
		history, err := s.upstream.GetHistory(ctx, sess.Token, id)
		if err != nil {
			if appErrors.IsAuth(err) {
				view.HistoryError = MsgSignInAgain
			} else {
				view.HistoryError = MsgHistoryLoadFailed
			}
			return
		}
		view.History = historyItems(history)
	}()

	wg.Wait()

	return view, nil
}

func complaintErrorMessage(err error) string {
	appErr := appErrors.FromError(err)
	switch {
	case appErrors.IsAuth(appErr):
		return MsgSignInAgain
	case appErr.Code == appErrors.ErrNotFound.Code:
		return MsgComplaintNotFound
	default:
		return MsgDetailLoadFailed
	}
}

// historyItems maps wire entries to display items in arrival order.
func historyItems(entries []models.HistoryEntry) []models.HistoryItem {
	items := make([]models.HistoryItem, 0, len(entries))
	for _, entry := range entries {
		item := models.HistoryItem{
			ActionLabel: entry.ActionLabel(),
			Comment:     entry.Comment,
			CreatedAt:   entry.CreatedAt,
		}
		if entry.OldStatus != nil {
			item.OldStatusLabel = entry.OldStatus.Label()
		}
		if entry.NewStatus != nil {
			item.NewStatusLabel = entry.NewStatus.Label()
		}
		items = append(items, item)
	}
	return items
}
