package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/complainthub/portal/internal/middleware"
	"github.com/complainthub/portal/internal/models"
	"github.com/complainthub/portal/internal/service"
	appErrors "github.com/complainthub/portal/pkg/errors"
	"github.com/complainthub/portal/pkg/response"
)

// ListViewService drives the complaints list view.
type ListViewService interface {
	Refresh(ctx context.Context, sessionID string) error
	LoadMore(ctx context.Context, sessionID string) error
	View(ctx context.Context, sessionID, search, status, highlight string) (models.ListView, error)
}

// DetailViewService composes one complaint with its history.
type DetailViewService interface {
	View(ctx context.Context, sessionID string, id int) (models.DetailView, error)
}

// CreateViewService validates and submits new complaints.
type CreateViewService interface {
	Submit(ctx context.Context, sessionID string, req models.CreateComplaintRequest) (*models.CreateResult, service.FieldErrors, error)
}

// ComplaintHandler wires the complaint view endpoints.
type ComplaintHandler struct {
	list   ListViewService
	detail DetailViewService
	create CreateViewService
}

// NewComplaintHandler creates a new handler.
func NewComplaintHandler(list ListViewService, detail DetailViewService, create CreateViewService) *ComplaintHandler {
	return &ComplaintHandler{list: list, detail: detail, create: create}
}

// Refresh godoc
// @Summary Refresh the complaints list
// @Description Fetches page 1 upstream and replaces the accumulated list
// @Tags Complaints
// @Produce json
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /portal/complaints/refresh [post]
func (h *ComplaintHandler) Refresh(c *gin.Context) {
	if err := h.list.Refresh(c.Request.Context(), middleware.SessionID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// LoadMore godoc
// @Summary Load the next complaints page
// @Description Fetches the next page upstream and appends to the accumulated list
// @Tags Complaints
// @Produce json
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /portal/complaints/more [post]
func (h *ComplaintHandler) LoadMore(c *gin.Context) {
	if err := h.list.LoadMore(c.Request.Context(), middleware.SessionID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListView godoc
// @Summary Complaints list view
// @Description Filters and sorts the accumulated list without an upstream call
// @Tags Complaints
// @Produce json
// @Param search query string false "Search term"
// @Param status query string false "Status filter"
// @Param highlight query string false "Row to highlight"
// @Success 200 {object} response.Envelope
// @Router /portal/complaints [get]
func (h *ComplaintHandler) ListView(c *gin.Context) {
	view, err := h.list.View(
		c.Request.Context(),
		middleware.SessionID(c),
		c.Query("search"),
		c.Query("status"),
		c.Query("highlight"),
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, view)
}

// DetailView godoc
// @Summary Complaint detail view
// @Description Fetches the complaint and its history; the sections fail independently
// @Tags Complaints
// @Produce json
// @Param id path int true "Complaint id"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /portal/complaints/{id} [get]
func (h *ComplaintHandler) DetailView(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid complaint id"))
		return
	}

	view, err := h.detail.View(c.Request.Context(), middleware.SessionID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, view)
}

// Create godoc
// @Summary Submit a new complaint
// @Description Validates and submits; on success the list view shows the banner with the new row highlighted
// @Tags Complaints
// @Accept json
// @Produce json
// @Param payload body models.CreateComplaintRequest true "Complaint payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /portal/complaints [post]
func (h *ComplaintHandler) Create(c *gin.Context) {
	var req models.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid complaint payload"))
		return
	}

	result, fieldErrs, err := h.create.Submit(c.Request.Context(), middleware.SessionID(c), req)
	if fieldErrs != nil {
		appErr := appErrors.FromError(err)
		c.JSON(appErr.Status, response.Envelope{
			Error: appErr,
			Meta:  map[string]interface{}{"field_errors": fieldErrs},
		})
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
