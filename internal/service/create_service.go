package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/complainthub/portal/internal/models"
	appErrors "github.com/complainthub/portal/pkg/errors"
)

// User-facing messages for the create view.
const (
	MsgCreateRateLimited = "Too many requests. Please try again later."
	MsgCreateFailed      = "Unable to submit complaint. Please try again."
)

// Validation error codes per field.
const (
	CodeRequired = "required"
	CodeMin      = "min"
	CodeMax      = "max"
	CodeInvalid  = "invalid"
)

// ErrSubmitInFlight rejects a second submission while one is running.
var ErrSubmitInFlight = appErrors.New("SUBMIT_IN_FLIGHT", http.StatusConflict, "a submission is already in progress")

const submitGuardTTL = 30 * time.Second

// ComplaintCreator is the slice of the upstream client the create view needs.
type ComplaintCreator interface {
	CreateComplaint(ctx context.Context, token string, payload models.CreateComplaintPayload) (*models.Complaint, error)
}

// CreateStateRepository covers the flash banner and the submit guard.
type CreateStateRepository interface {
	SetFlash(ctx context.Context, sessionID, message string) error
	AcquireSubmit(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	ReleaseSubmit(ctx context.Context, sessionID string) error
}

// FieldErrors maps a form field to its validation code.
type FieldErrors map[string]string

// CreateService validates and submits new complaints.
type CreateService struct {
	upstream ComplaintCreator
	sessions SessionRepository
	views    CreateStateRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCreateService constructs a create service.
func NewCreateService(upstream ComplaintCreator, sessions SessionRepository, views CreateStateRepository, logger *zap.Logger) *CreateService {
	return &CreateService{
		upstream: upstream,
		sessions: sessions,
		views:    views,
		validate: validator.New(),
		logger:   logger,
	}
}

type textValidation struct {
	Text string `validate:"required,min=10,max=2000"`
}

// Validate runs the pure, synchronous form validation. Text is trimmed before
// the length checks; category is optional but must be a positive integer when
// present.
func (s *CreateService) Validate(req models.CreateComplaintRequest) FieldErrors {
	errs := FieldErrors{}

	if err := s.validate.Struct(textValidation{Text: strings.TrimSpace(req.Text)}); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			switch fieldErrs[0].Tag() {
			case "required":
				errs["text"] = CodeRequired
			case "min":
				errs["text"] = CodeMin
			case "max":
				errs["text"] = CodeMax
			default:
				errs["text"] = CodeInvalid
			}
		} else {
			errs["text"] = CodeInvalid
		}
	}

	if category := strings.TrimSpace(req.Category); category != "" {
		parsed, err := strconv.Atoi(category)
		if err != nil || parsed <= 0 {
			errs["category"] = CodeInvalid
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Submit validates and sends the complaint upstream. On success the one-shot
// banner is queued and the caller is told where to navigate with the new row
// highlighted. On failure the form stays editable; the returned error carries
// the user-facing message.
func (s *CreateService) Submit(ctx context.Context, sessionID string, req models.CreateComplaintRequest) (*models.CreateResult, FieldErrors, error) {
	if fieldErrs := s.Validate(req); fieldErrs != nil {
		return nil, fieldErrs, appErrors.ErrValidation
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if !sess.SignedIn() {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, MsgSignInAgain)
	}

	acquired, err := s.views.AcquireSubmit(ctx, sessionID, submitGuardTTL)
	if err != nil {
		return nil, nil, err
	}
	if !acquired {
		return nil, nil, ErrSubmitInFlight
	}
	defer func() {
		if err := s.views.ReleaseSubmit(ctx, sessionID); err != nil {
			s.logger.Warn("release submit guard failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}()

	payload := models.CreateComplaintPayload{Text: strings.TrimSpace(req.Text)}
	if category := strings.TrimSpace(req.Category); category != "" {
		parsed, _ := strconv.Atoi(category)
		payload.Category = &parsed
	}

	complaint, err := s.upstream.CreateComplaint(ctx, sess.Token, payload)
	if err != nil {
		return nil, nil, s.submitError(err)
	}

	if err := s.views.SetFlash(ctx, sessionID, MsgCreatedBanner); err != nil {
		s.logger.Warn("queue created banner failed", zap.String("session_id", sessionID), zap.Error(err))
	}

	highlight := strconv.Itoa(complaint.ID)
	return &models.CreateResult{
		ID:         complaint.ID,
		RedirectTo: fmt.Sprintf("/my-complaints?highlight=%s", highlight),
		Highlight:  highlight,
	}, nil, nil
}

func (s *CreateService) submitError(err error) error {
	appErr := appErrors.FromError(err)
	switch {
	case appErrors.IsAuth(appErr):
		return appErrors.Clone(appErr, MsgSignInAgain)
	case appErr.Code == appErrors.ErrRateLimited.Code:
		return appErrors.Clone(appErr, MsgCreateRateLimited)
	default:
		return appErrors.Clone(appErr, MsgCreateFailed)
	}
}
