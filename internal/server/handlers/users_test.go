package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/celar/internal/apperr"
	"github.com/iudanet/celar/internal/models"
	"github.com/iudanet/celar/pkg/api"
)

type mockUsers struct {
	profiles map[string]*models.Profile
	listErr  error
	gotLimit int
}

func (m *mockUsers) Profile(ctx context.Context, username string) (*models.Profile, error) {
	p, ok := m.profiles[username]
	if !ok {
		return nil, apperr.ErrUnknownUser
	}
	return p, nil
}

func (m *mockUsers) ListUsers(ctx context.Context, limit int) ([]*models.User, error) {
	m.gotLimit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	users := make([]*models.User, 0, len(m.profiles))
	for _, name := range []string{"alice", "bob"} {
		if p, ok := m.profiles[name]; ok {
			users = append(users, &models.User{Username: p.Username, Software: p.Software, PasswordHash: "secret-hash"})
		}
	}
	return users, nil
}

func newMockUsers() *mockUsers {
	return &mockUsers{profiles: map[string]*models.Profile{
		"alice": {Username: "alice", Software: []string{"vim"}, Coins: 3},
		"bob":   {Username: "bob", Software: []string{}, Coins: 0},
	}}
}

func TestUserHandler_Me(t *testing.T) {
	handler := NewUserHandler(setupTestLogger(), newMockUsers())

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req = req.WithContext(WithUsername(req.Context(), "alice"))
	w := httptest.NewRecorder()

	handler.Me(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp api.ProfileResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, api.ProfileResponse{Username: "alice", Software: []string{"vim"}, Coins: 3}, resp)
}

func TestUserHandler_Profile(t *testing.T) {
	handler := NewUserHandler(setupTestLogger(), newMockUsers())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /profile/{username}", handler.Profile)

	tests := []struct {
		name           string
		target         string
		expectedStatus int
	}{
		{name: "existing user", target: "/profile/bob", expectedStatus: http.StatusOK},
		{name: "unknown user", target: "/profile/carol", expectedStatus: http.StatusNotFound},
		{name: "invalid username is unknown", target: "/profile/x", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestUserHandler_List(t *testing.T) {
	tests := []struct {
		listErr        error
		name           string
		query          string
		expectedLimit  int
		expectedStatus int
	}{
		{name: "default limit", query: "", expectedLimit: 50, expectedStatus: http.StatusOK},
		{name: "custom limit", query: "?limit=5", expectedLimit: 5, expectedStatus: http.StatusOK},
		{name: "limit out of range", query: "?limit=500", expectedStatus: http.StatusBadRequest},
		{name: "storage failure", query: "", listErr: errors.New("boom"), expectedLimit: 50, expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMockUsers()
			users.listErr = tt.listErr
			handler := NewUserHandler(setupTestLogger(), users)

			w := httptest.NewRecorder()
			handler.List(w, httptest.NewRequest(http.MethodGet, "/users"+tt.query, nil))

			require.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedLimit, users.gotLimit)

			if tt.expectedStatus == http.StatusOK {
				assert.NotContains(t, w.Body.String(), "secret-hash")

				var resp []api.UserSummary
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				require.Len(t, resp, 2)
				assert.Equal(t, "alice", resp[0].Username)
			}
		})
	}
}
