package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/celar/internal/crypto"
	"github.com/iudanet/celar/internal/server/jwt"
	"github.com/iudanet/celar/internal/server/service"
	"github.com/iudanet/celar/internal/server/storage/sqlite"
	"github.com/iudanet/celar/pkg/api"
)

type testServer struct {
	*httptest.Server
	t *testing.T
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	hasher := crypto.NewPasswordHasher(crypto.Params{
		Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	})
	coins := service.NewCoins(store)
	credentials, err := service.NewCredentials(store, coins, hasher, logger)
	require.NoError(t, err)

	tokens, err := jwt.NewService("router-test-secret", time.Hour)
	require.NoError(t, err)

	handler := New(logger, Services{
		Credentials: credentials,
		Posts:       service.NewPosts(store, logger),
		Likes:       service.NewLikes(store, logger),
		Tokens:      tokens,
		DB:          store,
	}, Options{
		Version:        "test",
		MaxPostBytes:   1024,
		MetricsEnabled: true,
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, t: t}
}

func (s *testServer) do(method, path, token string, body io.Reader) *http.Response {
	s.t.Helper()

	req, err := http.NewRequest(method, s.URL+path, body)
	require.NoError(s.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client().Do(req)
	require.NoError(s.t, err)
	s.t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func (s *testServer) doJSON(method, path, token string, in any, out any) int {
	s.t.Helper()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		require.NoError(s.t, err)
		body = bytes.NewReader(data)
	}

	resp := s.do(method, path, token, body)
	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *testServer) registerAndLogin(username string) string {
	s.t.Helper()

	status := s.doJSON(http.MethodPost, "/register", "", api.RegisterRequest{
		Username: username, Password: "pw-" + username, Software: []string{"vim"},
	}, nil)
	require.Equal(s.t, http.StatusCreated, status)

	var tok api.TokenResponse
	status = s.doJSON(http.MethodPost, "/login", "", api.LoginRequest{
		Username: username, Password: "pw-" + username,
	}, &tok)
	require.Equal(s.t, http.StatusOK, status)
	require.Equal(s.t, "bearer", tok.TokenType)

	return tok.AccessToken
}

func (s *testServer) createPost(token, content string) int64 {
	s.t.Helper()

	resp := s.do(http.MethodPost, "/post", token, strings.NewReader(content))
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)

	var created api.PostCreatedResponse
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&created))
	return created.ID
}

func TestRouter_PublicRoutes(t *testing.T) {
	srv := setupTestServer(t)

	var details api.DetailsResponse
	assert.Equal(t, http.StatusOK, srv.doJSON(http.MethodGet, "/details", "", nil, &details))
	assert.Equal(t, "test", details.Version)

	var health api.HealthResponse
	assert.Equal(t, http.StatusOK, srv.doJSON(http.MethodGet, "/health", "", nil, &health))
	assert.Equal(t, "ok", health.Status)

	resp := srv.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestRouter_RegisterAndLogin(t *testing.T) {
	srv := setupTestServer(t)

	srv.registerAndLogin("alice")

	// Повторная регистрация - 400
	status := srv.doJSON(http.MethodPost, "/register", "", api.RegisterRequest{Username: "alice", Password: "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = srv.doJSON(http.MethodPost, "/login", "", api.LoginRequest{Username: "alice", Password: "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = srv.doJSON(http.MethodPost, "/login", "", api.LoginRequest{Username: "nobody", Password: "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_RequiresToken(t *testing.T) {
	srv := setupTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/profile"},
		{http.MethodGet, "/users"},
		{http.MethodPost, "/post"},
		{http.MethodGet, "/posts"},
		{http.MethodPost, "/posts/1/like_toggle"},
		{http.MethodDelete, "/posts/1"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, srv.do(p.method, p.path, "", nil).StatusCode)
			assert.Equal(t, http.StatusUnauthorized, srv.do(p.method, p.path, "garbage", nil).StatusCode)
		})
	}
}

func TestRouter_CoinScenario(t *testing.T) {
	srv := setupTestServer(t)

	tokenA := srv.registerAndLogin("user_a")
	tokenB := srv.registerAndLogin("user_b")
	tokenC := srv.registerAndLogin("user_c")

	p1 := srv.createPost(tokenA, "first image")
	p2 := srv.createPost(tokenA, "second image")

	var state api.LikeStateResponse
	require.Equal(t, http.StatusOK, srv.doJSON(http.MethodPost, fmt.Sprintf("/posts/%d/like_toggle", p1), tokenB, nil, &state))
	assert.Equal(t, api.LikeStateResponse{PostID: p1, Likes: 1, Liked: true}, state)
	require.Equal(t, http.StatusOK, srv.doJSON(http.MethodPost, fmt.Sprintf("/posts/%d/like_toggle", p2), tokenB, nil, &state))
	require.Equal(t, http.StatusOK, srv.doJSON(http.MethodPost, fmt.Sprintf("/posts/%d/like", p1), tokenC, nil, &state))
	assert.Equal(t, 2, state.Likes)

	var profile api.ProfileResponse
	require.Equal(t, http.StatusOK, srv.doJSON(http.MethodGet, "/profile", tokenA, nil, &profile))
	assert.Equal(t, api.ProfileResponse{Username: "user_a", Software: []string{"vim"}, Coins: 3}, profile)

	require.Equal(t, http.StatusOK, srv.doJSON(http.MethodGet, "/profile/user_a", tokenB, nil, &profile))
	assert.Equal(t, 3, profile.Coins)

	var feed []api.FeedPost
	require.Equal(t, http.StatusOK, srv.doJSON(http.MethodGet, "/posts?order=newest", tokenC, nil, &feed))
	require.Len(t, feed, 2)
	assert.Equal(t, p2, feed[0].ID)
	assert.Equal(t, "second image", string(feed[0].Content))
	assert.Equal(t, 2, feed[1].Likes)

	var users []api.UserSummary
	require.Equal(t, http.StatusOK, srv.doJSON(http.MethodGet, "/users?limit=2", tokenC, nil, &users))
	require.Len(t, users, 2)
	assert.Equal(t, "user_a", users[0].Username)

	// Удалять может только автор
	assert.Equal(t, http.StatusForbidden, srv.do(http.MethodDelete, fmt.Sprintf("/posts/%d", p1), tokenB, nil).StatusCode)
	assert.Equal(t, http.StatusNoContent, srv.do(http.MethodDelete, fmt.Sprintf("/posts/%d", p1), tokenA, nil).StatusCode)

	require.Equal(t, http.StatusOK, srv.doJSON(http.MethodGet, fmt.Sprintf("/posts/%d/likes", p1), tokenB, nil, &state))
	assert.Equal(t, api.LikeStateResponse{PostID: p1, Likes: 0, Liked: false}, state)

	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodPost, fmt.Sprintf("/posts/%d/like_toggle", p1), tokenB, nil).StatusCode)

	require.Equal(t, http.StatusOK, srv.doJSON(http.MethodGet, "/profile", tokenA, nil, &profile))
	assert.Equal(t, 1, profile.Coins)
}

func TestRouter_PostLimits(t *testing.T) {
	srv := setupTestServer(t)
	token := srv.registerAndLogin("alice")

	assert.Equal(t, http.StatusBadRequest, srv.do(http.MethodPost, "/post", token, strings.NewReader("")).StatusCode)
	assert.Equal(t, http.StatusRequestEntityTooLarge,
		srv.do(http.MethodPost, "/post", token, strings.NewReader(strings.Repeat("x", 1025))).StatusCode)
	assert.Equal(t, http.StatusBadRequest, srv.do(http.MethodPost, "/posts/abc/like_toggle", token, nil).StatusCode)
	assert.Equal(t, http.StatusBadRequest, srv.do(http.MethodGet, "/posts?limit=0", token, nil).StatusCode)
}
