package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/notes/internal/model"
)

// HTTPClient implements NotesClient using the notes HTTP/JSON REST API.
// Requests are credential-bearing: the session cookie set by the server is
// kept in a cookie jar and sent on every call.
type HTTPClient struct {
	baseURL    string
	base       *url.URL
	jar        http.CookieJar
	httpClient *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithSessionToken seeds the cookie jar with a previously saved session token.
func WithSessionToken(token string) Option {
	return func(c *HTTPClient) {
		if token == "" || c.base == nil {
			return
		}
		c.jar.SetCookies(c.base, []*http.Cookie{{
			Name:  model.SessionCookieName,
			Value: token,
			Path:  "/",
		}})
	}
}

// WithHTTPClient replaces the underlying http.Client. Its Jar is overwritten
// with the client's cookie jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		hc.Jar = c.jar
		c.httpClient = hc
	}
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080").
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	jar, _ := cookiejar.New(nil)
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		jar:        jar,
		httpClient: &http.Client{Jar: jar},
	}
	if u, err := url.Parse(c.baseURL + "/"); err == nil {
		c.base = u
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionToken returns the current session token held in the cookie jar, or
// "" when the client is not logged in.
func (c *HTTPClient) SessionToken() string {
	if c.base == nil {
		return ""
	}
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == model.SessionCookieName {
			return ck.Value
		}
	}
	return ""
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Notes ---

func (c *HTTPClient) ListNotes(ctx context.Context) ([]*model.Note, error) {
	var notes []*model.Note
	if err := c.doJSON(ctx, http.MethodGet, "/api/notes", nil, &notes); err != nil {
		return nil, opFailed(ActionList, err)
	}
	if notes == nil {
		notes = []*model.Note{}
	}
	return notes, nil
}

func (c *HTTPClient) CreateNote(ctx context.Context, draft model.Draft) (*model.Note, error) {
	var note model.Note
	if err := c.doJSON(ctx, http.MethodPost, "/api/notes", draft, &note); err != nil {
		return nil, opFailed(ActionCreate, err)
	}
	return &note, nil
}

func (c *HTTPClient) UpdateNote(ctx context.Context, id int64, draft model.Draft) (*model.Note, error) {
	var note model.Note
	if err := c.doJSON(ctx, http.MethodPut, notePath(id), draft, &note); err != nil {
		return nil, opFailed(ActionUpdate, err)
	}
	return &note, nil
}

func (c *HTTPClient) ToggleStatus(ctx context.Context, id int64) (model.Status, error) {
	var resp toggleResponse
	if err := c.doJSON(ctx, http.MethodPatch, notePath(id)+"/toggle", nil, &resp); err != nil {
		return "", opFailed(ActionToggle, err)
	}
	return resp.Status, nil
}

func (c *HTTPClient) DeleteNote(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, notePath(id), nil, nil); err != nil {
		return opFailed(ActionDelete, err)
	}
	return nil
}

// --- Session ---

func (c *HTTPClient) CurrentUser(ctx context.Context) (*model.Identity, error) {
	var ident model.Identity
	if err := c.doJSON(ctx, http.MethodGet, "/api/user", nil, &ident); err != nil {
		return nil, opFailed(ActionCurrentUser, err)
	}
	return &ident, nil
}

func (c *HTTPClient) Login(ctx context.Context, req *LoginRequest) (*model.Identity, error) {
	var resp loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", req, &resp); err != nil {
		return nil, opFailed(ActionLogin, err)
	}
	if resp.User == nil {
		return nil, opFailed(ActionLogin, fmt.Errorf("response has no user"))
	}
	return resp.User, nil
}

func (c *HTTPClient) Register(ctx context.Context, req *RegisterRequest) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/register", req, nil); err != nil {
		return opFailed(ActionRegister, err)
	}
	return nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil); err != nil {
		return opFailed(ActionLogout, err)
	}
	return nil
}

// --- internal helpers ---

func notePath(id int64) string {
	return "/api/notes/" + strconv.FormatInt(id, 10)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content: success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
