package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/otramalaga/civicmap/internal/domain"
	"github.com/otramalaga/civicmap/internal/logger"
	"github.com/otramalaga/civicmap/internal/utils"
)

// Credentials identify the active session against the backend.
// A nil *Credentials means the request is sent anonymously.
type Credentials struct {
	Token  string
	UserID int64
}

// BookmarkPayload is the create/update wire contract. Location is omitted
// entirely unless both coordinates are known.
type BookmarkPayload struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	TagID           int64            `json:"tagId"`
	CategoryID      int64            `json:"categoryId"`
	Video           string           `json:"video"`
	URL             string           `json:"url"`
	Location        *domain.Location `json:"location,omitempty"`
	PublicationDate time.Time        `json:"publicationDate"`
	ImageURLs       []string         `json:"imageUrls"`
}

// LoginRequest carries the /auth/login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest carries the /auth/register body.
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CountryCode string `json:"countryCode"`
}

// AuthResponse is the login reply: the bearer token plus the user record.
type AuthResponse struct {
	Token    string `json:"token"`
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Client is the typed adapter over the external bookmarks REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

// New builds a Client for the given API base URL (ex: https://host/api).
func New(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log,
	}
}

// ListBookmarks fetches the full bookmark collection.
func (c *Client) ListBookmarks(ctx context.Context) ([]*domain.Bookmark, error) {
	var out []*domain.Bookmark
	if err := c.do(ctx, http.MethodGet, "/bookmarks", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return out, nil
}

// SearchBookmarks runs a server-side title search. Results are never cached.
func (c *Client) SearchBookmarks(ctx context.Context, creds *Credentials, title string) ([]*domain.Bookmark, error) {
	q := url.Values{"title": {strings.TrimSpace(title)}}
	var out []*domain.Bookmark
	if err := c.do(ctx, http.MethodGet, "/bookmarks/search?"+q.Encode(), creds, nil, &out); err != nil {
		return nil, fmt.Errorf("search bookmarks: %w", err)
	}
	return out, nil
}

// GetBookmark fetches a single bookmark by id.
func (c *Client) GetBookmark(ctx context.Context, creds *Credentials, id int64) (*domain.Bookmark, error) {
	var out domain.Bookmark
	if err := c.do(ctx, http.MethodGet, "/bookmarks/"+strconv.FormatInt(id, 10), creds, nil, &out); err != nil {
		return nil, fmt.Errorf("get bookmark %d: %w", id, err)
	}
	return &out, nil
}

// CreateBookmark submits a new bookmark. The backend assigns the id.
func (c *Client) CreateBookmark(ctx context.Context, creds *Credentials, payload *BookmarkPayload) (*domain.Bookmark, error) {
	var out domain.Bookmark
	if err := c.do(ctx, http.MethodPost, "/bookmarks", creds, payload, &out); err != nil {
		return nil, fmt.Errorf("create bookmark: %w", err)
	}
	return &out, nil
}

// UpdateBookmark replaces an existing bookmark owned by the caller.
func (c *Client) UpdateBookmark(ctx context.Context, creds *Credentials, id int64, payload *BookmarkPayload) (*domain.Bookmark, error) {
	var out domain.Bookmark
	if err := c.do(ctx, http.MethodPut, "/bookmarks/"+strconv.FormatInt(id, 10), creds, payload, &out); err != nil {
		return nil, fmt.Errorf("update bookmark %d: %w", id, err)
	}
	return &out, nil
}

// DeleteBookmark removes a bookmark owned by the caller. The backend is
// expected to answer 204; anything else 2xx is treated as a protocol error.
func (c *Client) DeleteBookmark(ctx context.Context, creds *Credentials, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/bookmarks/"+strconv.FormatInt(id, 10), creds, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete bookmark %d: %w", id, err)
	}
	defer utils.Close(resp.Body)

	if err := statusToError(resp.StatusCode, readBody(resp.Body)); err != nil {
		return fmt.Errorf("delete bookmark %d: %w", id, err)
	}
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete bookmark %d: unexpected response %d", id, resp.StatusCode)
	}
	return nil
}

// ListCategories fetches the category vocabulary.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.do(ctx, http.MethodGet, "/categories/all", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// ListTags fetches the tag vocabulary.
func (c *Client) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var out []domain.Tag
	if err := c.do(ctx, http.MethodGet, "/tags/all", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return out, nil
}

// GetUser fetches the public identity of a bookmark owner.
func (c *Client) GetUser(ctx context.Context, creds *Credentials, id int64) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, "/auth/user/"+strconv.FormatInt(id, 10), creds, nil, &out); err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &out, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &out); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if out.Token == "" {
		return nil, fmt.Errorf("login: backend returned no token")
	}
	return &out, nil
}

// Register creates a new account. CountryCode defaults to "ES".
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if req.CountryCode == "" {
		req.CountryCode = "ES"
	}
	var out domain.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &out); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &out, nil
}

// do issues a request and decodes a JSON reply into out (which may be nil).
func (c *Client) do(ctx context.Context, method, path string, creds *Credentials, body, out any) error {
	req, err := c.newRequest(ctx, method, path, creds, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer utils.Close(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := statusToError(resp.StatusCode, string(raw)); err != nil {
		c.logger.Debug("upstream request failed",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", resp.StatusCode))
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, creds *Credentials, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds != nil {
		if creds.Token != "" {
			req.Header.Set("Authorization", "Bearer "+creds.Token)
		}
		if creds.UserID != 0 {
			req.Header.Set("X-User-ID", strconv.FormatInt(creds.UserID, 10))
		}
	}
	return req, nil
}

func readBody(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	return string(raw)
}
