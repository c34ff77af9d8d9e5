package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iudanet/celar/pkg/api"
)

// Error - ответ сервера с кодом вне диапазона 2xx
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Authorization переносим только в пределах исходного хоста
				if len(via) > 0 && req.URL.Host == via[0].URL.Host && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetAccessToken задает bearer токен для защищенных запросов
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// Details возвращает метаданные сервера
func (c *Client) Details(ctx context.Context) (*api.DetailsResponse, error) {
	var resp api.DetailsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/details", nil, &resp); err != nil {
		return nil, fmt.Errorf("details request failed: %w", err)
	}
	return &resp, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	if err := c.doRequest(ctx, http.MethodPost, "/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Me возвращает профиль текущего пользователя
func (c *Client) Me(ctx context.Context) (*api.ProfileResponse, error) {
	var resp api.ProfileResponse
	if err := c.doRequest(ctx, http.MethodGet, "/profile", nil, &resp); err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	return &resp, nil
}

// Profile возвращает профиль пользователя по имени
func (c *Client) Profile(ctx context.Context, username string) (*api.ProfileResponse, error) {
	var resp api.ProfileResponse
	path := "/profile/" + url.PathEscape(username)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	return &resp, nil
}

// Users возвращает список пользователей. limit <= 0 - значение сервера по умолчанию
func (c *Client) Users(ctx context.Context, limit int) ([]api.UserSummary, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var resp []api.UserSummary
	if err := c.doRequest(ctx, http.MethodGet, withQuery("/users", query), nil, &resp); err != nil {
		return nil, fmt.Errorf("users request failed: %w", err)
	}
	return resp, nil
}

// CreatePost публикует пост. Тело запроса - содержимое как есть
func (c *Client) CreatePost(ctx context.Context, content []byte) (*api.PostCreatedResponse, error) {
	var resp api.PostCreatedResponse
	err := c.do(ctx, http.MethodPost, "/post", bytes.NewReader(content), "application/octet-stream", &resp)
	if err != nil {
		return nil, fmt.Errorf("create post request failed: %w", err)
	}
	return &resp, nil
}

// Feed возвращает ленту постов
func (c *Client) Feed(ctx context.Context, limit int, newest bool) ([]api.FeedPost, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if newest {
		query.Set("order", "newest")
	}
	var resp []api.FeedPost
	if err := c.doRequest(ctx, http.MethodGet, withQuery("/posts", query), nil, &resp); err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	return resp, nil
}

// Like ставит лайк (идемпотентно)
func (c *Client) Like(ctx context.Context, postID int64) (*api.LikeStateResponse, error) {
	return c.likeRequest(ctx, http.MethodPost, likePath(postID, "like"))
}

// Unlike снимает лайк (идемпотентно)
func (c *Client) Unlike(ctx context.Context, postID int64) (*api.LikeStateResponse, error) {
	return c.likeRequest(ctx, http.MethodDelete, likePath(postID, "like"))
}

// Toggle переключает лайк
func (c *Client) Toggle(ctx context.Context, postID int64) (*api.LikeStateResponse, error) {
	return c.likeRequest(ctx, http.MethodPost, likePath(postID, "like_toggle"))
}

// Likes возвращает состояние лайков поста
func (c *Client) Likes(ctx context.Context, postID int64) (*api.LikeStateResponse, error) {
	return c.likeRequest(ctx, http.MethodGet, likePath(postID, "likes"))
}

// DeletePost удаляет собственный пост
func (c *Client) DeletePost(ctx context.Context, postID int64) error {
	path := "/posts/" + strconv.FormatInt(postID, 10)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete post request failed: %w", err)
	}
	return nil
}

func (c *Client) likeRequest(ctx context.Context, method, path string) (*api.LikeStateResponse, error) {
	var resp api.LikeStateResponse
	if err := c.doRequest(ctx, method, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("like request failed: %w", err)
	}
	return &resp, nil
}

func likePath(postID int64, action string) string {
	return "/posts/" + strconv.FormatInt(postID, 10) + "/" + action
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// doRequest выполняет HTTP запрос с JSON телом
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	if body == nil {
		return c.do(ctx, method, path, nil, "", result)
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, method, path, bytes.NewReader(jsonData), "application/json", result)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.Message = errResp.Message
			if apiErr.Message == "" {
				apiErr.Message = errResp.Error
			}
		} else {
			apiErr.Message = string(bytes.TrimSpace(respBody))
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
