package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complainthub/portal/internal/models"
	"github.com/complainthub/portal/pkg/config"
	appErrors "github.com/complainthub/portal/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(config.UpstreamConfig{BaseURL: server.URL, Timeout: time.Second}, nil)
}

func TestListComplaintsBareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/complaints/", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("page"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"text":"first","status":"NEW","user":5,"category":null,"created_at":"2025-03-01T10:00:00Z"}]`))
	})

	page, err := client.ListComplaints(context.Background(), "token", 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Items[0].ID)
	assert.Equal(t, models.StatusNew, page.Items[0].Status)
	assert.Nil(t, page.Items[0].Category)
	assert.False(t, page.HasMore())
}

func TestListComplaintsPaginatedEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":12,"next":"http://upstream/api/complaints/?page=3","previous":null,"results":[{"id":7,"text":"second page","status":"RESOLVED","user":5,"category":2,"created_at":"2025-03-02T10:00:00Z"}]}`))
	})

	page, err := client.ListComplaints(context.Background(), "token", 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 7, page.Items[0].ID)
	require.NotNil(t, page.Items[0].Category)
	assert.Equal(t, 2, *page.Items[0].Category)
	assert.True(t, page.HasMore())
}

func TestListComplaintsEnvelopeNullNext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":1,"next":null,"previous":null,"results":[]}`))
	})

	page, err := client.ListComplaints(context.Background(), "token", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore())
}

func TestListComplaintsMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"not a list"`))
	})

	_, err := client.ListComplaints(context.Background(), "token", 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		wantCode string
	}{
		{http.StatusUnauthorized, appErrors.ErrUnauthorized.Code},
		{http.StatusForbidden, appErrors.ErrForbidden.Code},
		{http.StatusNotFound, appErrors.ErrNotFound.Code},
		{http.StatusTooManyRequests, appErrors.ErrRateLimited.Code},
		{http.StatusInternalServerError, appErrors.ErrUpstream.Code},
	}

	for _, tt := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})

		_, err := client.GetComplaint(context.Background(), "token", 1)
		require.Error(t, err)
		assert.Equal(t, tt.wantCode, appErrors.FromError(err).Code)
	}
}

func TestCreateComplaintSendsPayload(t *testing.T) {
	category := 3
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/complaints/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload models.CreateComplaintPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "the heating is broken", payload.Text)
		require.NotNil(t, payload.Category)
		assert.Equal(t, 3, *payload.Category)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42,"text":"the heating is broken","status":"NEW","user":5,"category":3,"created_at":"2025-03-01T10:00:00Z"}`))
	})

	complaint, err := client.CreateComplaint(context.Background(), "token", models.CreateComplaintPayload{
		Text:     "the heating is broken",
		Category: &category,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, complaint.ID)
}

func TestGetComplaintAndHistoryPaths(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/complaints/9/" {
			_, _ = w.Write([]byte(`{"id":9,"text":"t","status":"CLOSED","user":5,"category":null,"created_at":"2025-03-01T10:00:00Z"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"complaint":9,"user":5,"action":"CREATED","old_status":null,"new_status":"NEW","comment":"","created_at":"2025-03-01T10:00:00Z"}]`))
	})

	complaint, err := client.GetComplaint(context.Background(), "token", 9)
	require.NoError(t, err)
	assert.Equal(t, 9, complaint.ID)

	history, err := client.GetHistory(context.Background(), "token", 9)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.ActionCreated, history[0].Action)
	require.NotNil(t, history[0].NewStatus)
	assert.Equal(t, models.StatusNew, *history[0].NewStatus)

	assert.Equal(t, []string{"/complaints/9/", "/complaints/9/history/"}, paths)
}

func TestGetProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profile/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"username":"ada","first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}`))
	})

	profile, err := client.GetProfile(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", profile.DisplayName())
	assert.Equal(t, 7, profile.ID)
}

func TestProbeAdmin(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{name: "ok means admin", status: http.StatusOK, want: true},
		{name: "no content means admin", status: http.StatusNoContent, want: true},
		{name: "forbidden means not admin", status: http.StatusForbidden, want: false},
		{name: "unauthorized means not admin", status: http.StatusUnauthorized, want: false},
		{name: "server error means not admin", status: http.StatusInternalServerError, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodHead, r.Method)
				assert.Equal(t, "/admin/complaints/", r.URL.Path)
				w.WriteHeader(tt.status)
			})

			isAdmin, err := client.ProbeAdmin(context.Background(), "token")
			require.NoError(t, err)
			assert.Equal(t, tt.want, isAdmin)
		})
	}
}

func TestProbeAdminTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	client := New(config.UpstreamConfig{BaseURL: server.URL, Timeout: time.Second}, nil)

	isAdmin, err := client.ProbeAdmin(context.Background(), "token")
	assert.False(t, isAdmin)
	assert.Error(t, err)
}

func TestAnonymousRequestOmitsAuthorization(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.ListComplaints(context.Background(), "", 1)
	require.NoError(t, err)
}
