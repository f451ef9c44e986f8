// Package upstream implements the thin client for the complaints REST API the
// portal fronts. Every call carries the end user's bearer token; response
// shapes are normalized here so nothing downstream branches on them.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/complainthub/portal/internal/models"
	"github.com/complainthub/portal/pkg/config"
	appErrors "github.com/complainthub/portal/pkg/errors"
)

// Observer receives timing for upstream calls. Implemented by the metrics
// service; nil observers are allowed.
type Observer interface {
	ObserveUpstream(operation string, status int, duration time.Duration)
}

// Client talks to the upstream complaints API.
type Client struct {
	baseURL  string
	http     *http.Client
	observer Observer
}

// New constructs a Client. The observer may be nil.
func New(cfg config.UpstreamConfig, observer Observer) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		http:     &http.Client{Timeout: timeout},
		observer: observer,
	}
}

// CreateComplaint submits a new complaint and returns the created record.
func (c *Client) CreateComplaint(ctx context.Context, token string, payload models.CreateComplaintPayload) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := c.call(ctx, "create_complaint", http.MethodPost, "/complaints/", token, payload, &complaint); err != nil {
		return nil, err
	}
	return &complaint, nil
}

// ListComplaints fetches one page. The upstream endpoint is polymorphic: a
// bare array means there are no further pages, a paginated envelope carries a
// next URL. Both are folded into ComplaintPage.
func (c *Client) ListComplaints(ctx context.Context, token string, page int) (models.ComplaintPage, error) {
	path := "/complaints/"
	if page > 1 {
		path = fmt.Sprintf("/complaints/?page=%d", page)
	}

	var raw json.RawMessage
	if err := c.call(ctx, "list_complaints", http.MethodGet, path, token, nil, &raw); err != nil {
		return models.ComplaintPage{}, err
	}

	return normalizeListBody(raw)
}

// GetComplaint fetches a single complaint by id.
func (c *Client) GetComplaint(ctx context.Context, token string, id int) (*models.Complaint, error) {
	var complaint models.Complaint
	path := fmt.Sprintf("/complaints/%d/", id)
	if err := c.call(ctx, "get_complaint", http.MethodGet, path, token, nil, &complaint); err != nil {
		return nil, err
	}
	return &complaint, nil
}

// GetHistory fetches the audit trail of a complaint, in upstream order.
func (c *Client) GetHistory(ctx context.Context, token string, id int) ([]models.HistoryEntry, error) {
	var history []models.HistoryEntry
	path := fmt.Sprintf("/complaints/%d/history/", id)
	if err := c.call(ctx, "get_history", http.MethodGet, path, token, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// GetProfile fetches the caller's account profile.
func (c *Client) GetProfile(ctx context.Context, token string) (*models.Profile, error) {
	var profile models.Profile
	if err := c.call(ctx, "get_profile", http.MethodGet, "/profile/", token, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ProbeAdmin issues the admin existence probe: a HEAD against an admin-only
// collection, body discarded. Only a 2xx means the token holds admin
// privilege; every other outcome, transport failures included, means it does
// not.
func (c *Client) ProbeAdmin(ctx context.Context, token string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/admin/complaints/", nil)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "build admin probe")
	}
	authorize(req, token)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe("admin_probe", 0, time.Since(start))
		return false, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "admin probe failed")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	c.observe("admin_probe", resp.StatusCode, time.Since(start))

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

func (c *Client) call(ctx context.Context, operation, method, path, token string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode upstream payload")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "build upstream request")
	}
	authorize(req, token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(operation, 0, time.Since(start))
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "upstream request failed")
	}
	defer resp.Body.Close()
	c.observe(operation, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return appErrors.FromStatus(resp.StatusCode)
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "decode upstream response")
	}

	return nil
}

func (c *Client) observe(operation string, status int, duration time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstream(operation, status, duration)
	}
}

func authorize(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

type listEnvelope struct {
	Results []models.Complaint `json:"results"`
	Next    *string            `json:"next"`
}

func normalizeListBody(raw json.RawMessage) (models.ComplaintPage, error) {
	var items []models.Complaint
	if err := json.Unmarshal(raw, &items); err == nil {
		return models.ComplaintPage{Items: items}, nil
	}

	var envelope listEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return models.ComplaintPage{}, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "decode complaint list")
	}

	page := models.ComplaintPage{Items: envelope.Results}
	if envelope.Next != nil {
		page.NextCursor = *envelope.Next
	}
	return page, nil
}
