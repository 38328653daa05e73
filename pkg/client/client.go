package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to the SkyBook REST API. Every method is one round trip
// except when an expired access token has to be refreshed first.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	now        func() time.Time

	sessionMu sync.RWMutex
	session   *Session

	subMu       sync.Mutex
	subscribers map[int]*subscription
	nextSubID   int
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.store = store }
}

// New builds a client for baseURL, e.g. http://localhost:8080/api. A session
// found in the token store is restored.
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: defaultTimeout},
		store:       NewMemoryTokenStore(),
		now:         time.Now,
		subscribers: make(map[int]*subscription),
	}
	for _, opt := range opts {
		opt(c)
	}

	session, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	c.session = session
	return c, nil
}

// Session returns the current session, or nil when signed out
func (c *Client) Session() *Session {
	return c.currentSession()
}

// IsAuthenticated reports whether a session with an access token is held
func (c *Client) IsAuthenticated() bool {
	s := c.currentSession()
	return s != nil && s.AccessToken != ""
}

// CurrentUser returns the cached user record of the session
func (c *Client) CurrentUser() *User {
	s := c.currentSession()
	if s == nil {
		return nil
	}
	return &s.User
}

func (c *Client) currentSession() *Session {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()
	if c.session == nil {
		return nil
	}
	copied := *c.session
	return &copied
}

func (c *Client) setSession(session *Session) error {
	c.sessionMu.Lock()
	c.session = session
	c.sessionMu.Unlock()

	if session == nil {
		return c.store.Clear()
	}
	return c.store.Save(session)
}

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	auth   bool
}

// do sends one request and decodes the envelope's data into out
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if req.auth {
		token, err := c.accessToken(ctx)
		if err != nil {
			return err
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// accessToken returns a usable bearer token, refreshing it first when it has expired
func (c *Client) accessToken(ctx context.Context) (string, error) {
	session := c.currentSession()
	if session == nil || session.AccessToken == "" {
		return "", ErrNotSignedIn
	}

	if session.ExpiresAt.IsZero() || c.now().Before(session.ExpiresAt.Add(-10*time.Second)) {
		return session.AccessToken, nil
	}

	refreshed, err := c.Refresh(ctx)
	if err != nil {
		return "", err
	}
	return refreshed.AccessToken, nil
}
