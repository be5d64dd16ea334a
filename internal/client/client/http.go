package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/fishlog/internal/client/autherr"
	"github.com/dmitrijs2005/fishlog/internal/client/models"
	"github.com/dmitrijs2005/fishlog/internal/common"
)

// Keys of the session secret and its expiry in the SecretStore.
const (
	sessionKey       = "session"
	sessionExpireKey = "session_expire"
)

// SecretStore keeps the session secret across restarts. The local
// metadata repository satisfies it.
type SecretStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
}

// HTTPClient talks to an Appwrite-compatible REST API.
type HTTPClient struct {
	endpoint string
	project  string
	database string
	http     *http.Client
	secrets  SecretStore

	mu     sync.RWMutex
	secret string
}

type Option func(*HTTPClient)

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

// WithSecretStore persists the session secret so a restart can resume it.
func WithSecretStore(s SecretStore) Option {
	return func(c *HTTPClient) { c.secrets = s }
}

// NewHTTPClient validates endpoint (e.g. https://cloud.appwrite.io/v1) and
// returns a client bound to project and database.
func NewHTTPClient(endpoint, project, database string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	if project == "" {
		return nil, errors.New("project id is required")
	}

	c := &HTTPClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		project:  project,
		database: database,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RestoreSession loads a previously persisted session secret, if any. A
// secret whose recorded expiry has passed is forgotten instead.
func (c *HTTPClient) RestoreSession(ctx context.Context) error {
	if c.secrets == nil {
		return nil
	}
	v, err := c.secrets.Get(ctx, sessionKey)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if len(v) == 0 {
		return nil
	}

	raw, err := c.secrets.Get(ctx, sessionExpireKey)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if exp, perr := time.Parse(time.RFC3339, string(raw)); perr == nil && !time.Now().Before(exp) {
		return c.forgetSession(ctx)
	}

	c.setSecret(string(v))
	return nil
}

func (c *HTTPClient) forgetSession(ctx context.Context) error {
	for _, key := range []string{sessionKey, sessionExpireKey} {
		if err := c.secrets.Delete(ctx, key); err != nil {
			return fmt.Errorf("forget session: %w", err)
		}
	}
	return nil
}

// HasSession reports whether a session secret is held.
func (c *HTTPClient) HasSession() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.secret != ""
}

func (c *HTTPClient) setSecret(s string) {
	c.mu.Lock()
	c.secret = s
	c.mu.Unlock()
}

func (c *HTTPClient) currentSecret() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.secret
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) CreateAccount(ctx context.Context, userID, email, password, name string) (*models.Account, error) {
	body := map[string]string{"userId": userID, "email": email, "password": password, "name": name}

	var acc models.Account
	if _, err := c.do(ctx, http.MethodPost, "/account", nil, body, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *HTTPClient) CreateSession(ctx context.Context, email, password string) (*models.Session, error) {
	body := map[string]string{"email": email, "password": password}

	var s models.Session
	resp, err := c.do(ctx, http.MethodPost, "/account/sessions/email", nil, body, &s)
	if err != nil {
		return nil, err
	}

	secret := s.Secret
	if secret == "" {
		secret = c.secretFromResponse(resp)
	}
	if secret != "" {
		c.setSecret(secret)
		if c.secrets != nil {
			values := map[string][]byte{sessionKey: []byte(secret), sessionExpireKey: nil}
			if !s.Expire.IsZero() {
				values[sessionExpireKey] = []byte(s.Expire.UTC().Format(time.RFC3339))
			}
			if err := c.secrets.SetMany(ctx, values); err != nil {
				return nil, fmt.Errorf("persist session: %w", err)
			}
		}
	}
	return &s, nil
}

// GetSession returns the current session or ErrNoSession when there is none.
func (c *HTTPClient) GetSession(ctx context.Context) (*models.Session, error) {
	if c.currentSecret() == "" {
		return nil, ErrNoSession
	}

	var s models.Session
	if _, err := c.do(ctx, http.MethodGet, "/account/sessions/current", nil, nil, &s); err != nil {
		if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNoSession, err)
		}
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) GetAccount(ctx context.Context) (*models.Account, error) {
	var acc models.Account
	if _, err := c.do(ctx, http.MethodGet, "/account", nil, nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *HTTPClient) GetPreferences(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if _, err := c.do(ctx, http.MethodGet, "/account/prefs", nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *HTTPClient) UpdatePreferences(ctx context.Context, prefs models.Preferences) error {
	_, err := c.do(ctx, http.MethodPatch, "/account/prefs", nil, map[string]any{"prefs": prefs}, nil)
	return err
}

// DeleteSession ends the current session remotely. The local secret is
// dropped whatever the outcome.
func (c *HTTPClient) DeleteSession(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/account/sessions/current", nil, nil, nil)

	c.setSecret("")
	if c.secrets != nil {
		if derr := c.forgetSession(ctx); derr != nil && err == nil {
			err = derr
		}
	}
	return err
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health/version", nil, nil, nil)
	return err
}

func (c *HTTPClient) documentsPath(collection string) string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents", url.PathEscape(c.database), url.PathEscape(collection))
}

func (c *HTTPClient) CreateDocument(ctx context.Context, collection, id string, data map[string]any, out any) error {
	body := map[string]any{"documentId": id, "data": data}
	_, err := c.do(ctx, http.MethodPost, c.documentsPath(collection), nil, body, out)
	return err
}

func (c *HTTPClient) UpdateDocument(ctx context.Context, collection, id string, data map[string]any, out any) error {
	path := c.documentsPath(collection) + "/" + url.PathEscape(id)
	_, err := c.do(ctx, http.MethodPatch, path, nil, map[string]any{"data": data}, out)
	return err
}

func (c *HTTPClient) DeleteDocument(ctx context.Context, collection, id string) error {
	path := c.documentsPath(collection) + "/" + url.PathEscape(id)
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, nil)
	return err
}

// ListDocuments decodes the matching documents into out (a pointer to a
// slice) and returns the total count reported by the server.
func (c *HTTPClient) ListDocuments(ctx context.Context, collection string, queries []Query, out any) (int, error) {
	q := url.Values{}
	for _, query := range queries {
		q.Add("queries[]", query.String())
	}

	var page struct {
		Total     int             `json:"total"`
		Documents json.RawMessage `json:"documents"`
	}
	if _, err := c.do(ctx, http.MethodGet, c.documentsPath(collection), q, nil, &page); err != nil {
		return 0, err
	}
	if out != nil && len(page.Documents) > 0 {
		if err := json.Unmarshal(page.Documents, out); err != nil {
			return 0, fmt.Errorf("decode documents: %w", err)
		}
	}
	return page.Total, nil
}

// do performs one request. Transport failures, including a body cut short,
// are wrapped with both ErrUnavailable and autherr.ErrNetwork; non-2xx
// responses come back as *APIError.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) (*http.Response, error) {
	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.ProjectHeaderName, c.project)
	if s := c.currentSecret(); s != "" {
		req.Header.Set(common.SessionHeaderName, s)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrUnavailable, autherr.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: read body: %w", ErrUnavailable, autherr.ErrNetwork, err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if len(data) > 0 {
			_ = json.Unmarshal(data, apiErr)
		}
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return resp, apiErr
	}

	if out != nil && len(data) > 0 && resp.StatusCode != http.StatusNoContent {
		if err := json.Unmarshal(data, out); err != nil {
			return resp, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp, nil
}

// secretFromResponse recovers the session secret from the session cookie,
// or from the fallback header some deployments send to non-browser clients.
func (c *HTTPClient) secretFromResponse(resp *http.Response) string {
	name := "a_session_" + c.project
	for _, ck := range resp.Cookies() {
		if ck.Name == name && ck.Value != "" {
			return ck.Value
		}
	}

	if raw := resp.Header.Get(common.FallbackCookieName); raw != "" {
		var fallback map[string]string
		if err := json.Unmarshal([]byte(raw), &fallback); err == nil {
			return fallback[name]
		}
	}
	return ""
}
