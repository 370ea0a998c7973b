// Package client is the Go counterpart of the browser frontend: a session
// context with an explicit fetch/clear lifecycle, the card like-and-view
// state machine, and the in-memory feed view.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"github.com/promptlover/promptlover-be/internal/models"
	"github.com/promptlover/promptlover-be/internal/services"
)

// Client talks to the gallery API. The cookie jar carries the session
// cookie; the cached session user is explicit state set by FetchSession or
// Login and dropped by ClearSession.
type Client struct {
	baseURL string
	http    *http.Client

	mu   sync.RWMutex
	user *models.PublicUser
}

// New creates a Client for the API at baseURL.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
	}, nil
}

// User returns the cached session user, nil when logged out.
func (c *Client) User() *models.PublicUser {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// FetchSession initializes the session context from the server-side cookie
// state. No active session is not an error; the user just stays nil.
func (c *Client) FetchSession(ctx context.Context) (*models.PublicUser, error) {
	var user models.PublicUser
	err := c.doJSON(ctx, http.MethodGet, "/auth/login", nil, &user)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			c.setUser(nil)
			return nil, nil
		}
		return nil, err
	}
	c.setUser(&user)
	return c.User(), nil
}

// ClearSession drops the cached session user. Local teardown only; use
// Logout to also clear the server-side cookie.
func (c *Client) ClearSession() {
	c.setUser(nil)
}

// Login authenticates and caches the session user.
func (c *Client) Login(ctx context.Context, username, password string) (*models.PublicUser, error) {
	body := map[string]string{"username": username, "password": password}
	var user models.PublicUser
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &user); err != nil {
		return nil, err
	}
	c.setUser(&user)
	return c.User(), nil
}

// Register creates an account and, on success, logs straight in.
func (c *Client) Register(ctx context.Context, username, password string) (*models.PublicUser, error) {
	body := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", body, nil); err != nil {
		return nil, err
	}
	return c.Login(ctx, username, password)
}

// Logout clears the server-side cookie and the cached user.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodDelete, "/auth/login", nil, nil)
	c.setUser(nil)
	return err
}

// ListPrompts fetches the whole feed.
func (c *Client) ListPrompts(ctx context.Context) ([]models.Prompt, error) {
	var out []models.Prompt
	if err := c.doData(ctx, http.MethodGet, "/prompts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyPrompts fetches the cached user's own listings (the profile page feed).
func (c *Client) MyPrompts(ctx context.Context) ([]models.Prompt, error) {
	user := c.User()
	if user == nil {
		return nil, fmt.Errorf("%w: no session", services.ErrUnauthorized)
	}
	var out []models.Prompt
	path := "/prompts?creatorId=" + url.QueryEscape(user.ID)
	if err := c.doData(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPrompt fetches a single prompt. Requires a session.
func (c *Client) GetPrompt(ctx context.Context, id string) (models.Prompt, error) {
	var out models.Prompt
	if err := c.doData(ctx, http.MethodGet, "/prompts/"+id, nil, &out); err != nil {
		return models.Prompt{}, err
	}
	return out, nil
}

// CreatePrompt uploads an image and its metadata as a multipart form.
func (c *Client) CreatePrompt(ctx context.Context, image io.Reader, filename, promptText, aiTool string, category []string) (models.Prompt, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return models.Prompt{}, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return models.Prompt{}, err
	}
	mw.WriteField("promptText", promptText)
	mw.WriteField("aiTool", aiTool)
	for _, cat := range category {
		mw.WriteField("category", cat)
	}
	if err := mw.Close(); err != nil {
		return models.Prompt{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/prompts", &buf)
	if err != nil {
		return models.Prompt{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Prompt{}, err
	}
	defer resp.Body.Close()

	var envelope struct {
		Data models.Prompt `json:"data"`
	}
	if err := decodeResponse(resp, &envelope); err != nil {
		return models.Prompt{}, err
	}
	return envelope.Data, nil
}

// UpdateCounters issues the counters-only write for a prompt.
func (c *Client) UpdateCounters(ctx context.Context, id string, update services.CounterUpdate) (models.Prompt, error) {
	body := map[string]interface{}{}
	if update.Likes != nil {
		body["likes"] = *update.Likes
	}
	if update.Views != nil {
		body["views"] = *update.Views
	}
	if update.LikedBy != nil {
		body["likedBy"] = update.LikedBy
	}
	if update.ViewedBy != nil {
		body["viewedBy"] = update.ViewedBy
	}

	var out models.Prompt
	if err := c.doData(ctx, http.MethodPut, "/prompts/"+id, body, &out); err != nil {
		return models.Prompt{}, err
	}
	return out, nil
}

// DeletePrompt removes one of the session user's listings.
func (c *Client) DeletePrompt(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/prompts/"+id, nil, nil)
}

func (c *Client) setUser(user *models.PublicUser) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = user
}

// doJSON performs a JSON request and decodes the raw body into out.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

// doData performs a JSON request and unwraps the {"data": ...} envelope.
func (c *Client) doData(ctx context.Context, method, path string, body, out interface{}) error {
	envelope := struct {
		Data interface{} `json:"data"`
	}{Data: out}
	return c.doJSON(ctx, method, path, body, &envelope)
}

// decodeResponse maps non-2xx statuses onto the shared error taxonomy and
// otherwise decodes the body into out.
func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Error == "" {
		apiErr.Error = resp.Status
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		sentinel = services.ErrValidation
	case http.StatusUnauthorized:
		sentinel = services.ErrUnauthorized
	case http.StatusForbidden:
		sentinel = services.ErrForbidden
	case http.StatusNotFound:
		sentinel = services.ErrNotFound
	case http.StatusConflict:
		sentinel = services.ErrConflict
	default:
		sentinel = services.ErrUpstream
	}
	return fmt.Errorf("%w: %s", sentinel, apiErr.Error)
}
