package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fishlog/internal/client/autherr"
	"github.com/dmitrijs2005/fishlog/internal/client/models"
)

const testProject = "proj-1"

// memSecrets is an in-memory SecretStore.
type memSecrets struct {
	mu   sync.Mutex
	data map[string][]byte

	setErr error
}

func newMemSecrets() *memSecrets { return &memSecrets{data: map[string][]byte{}} }

func (m *memSecrets) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memSecrets) Set(_ context.Context, key string, v []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = v
	return nil
}

func (m *memSecrets) SetMany(_ context.Context, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	for k, v := range values {
		m.data[k] = v
	}
	return nil
}

func (m *memSecrets) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type recorded struct {
	method  string
	path    string
	query   string
	project string
	session string
	body    map[string]any
}

// fakePlatform serves a small subset of the REST API.
type fakePlatform struct {
	t        *testing.T
	mu       sync.Mutex
	requests []recorded
	handler  func(w http.ResponseWriter, r *http.Request, rec recorded)
}

func (f *fakePlatform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recorded{
		method:  r.Method,
		path:    r.URL.Path,
		query:   r.URL.RawQuery,
		project: r.Header.Get("X-Appwrite-Project"),
		session: r.Header.Get("X-Appwrite-Session"),
	}
	if r.Body != nil {
		b, _ := io.ReadAll(r.Body)
		if len(b) > 0 {
			assert.NoError(f.t, json.Unmarshal(b, &rec.body))
		}
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()
	f.handler(w, r, rec)
}

func (f *fakePlatform) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h func(w http.ResponseWriter, r *http.Request, rec recorded), opts ...Option) (*HTTPClient, *fakePlatform) {
	t.Helper()
	fp := &fakePlatform{t: t, handler: h}
	srv := httptest.NewServer(fp)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL+"/v1", testProject, "fishlog", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, fp
}

func TestNewHTTPClient_Validates(t *testing.T) {
	_, err := NewHTTPClient("ftp://x", testProject, "db")
	require.Error(t, err)

	_, err = NewHTTPClient("https://api.example/v1", "", "db")
	require.Error(t, err)

	_, err = NewHTTPClient("://bad", testProject, "db")
	require.Error(t, err)

	c, err := NewHTTPClient("https://api.example/v1/", testProject, "db", WithTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "https://api.example/v1", c.endpoint)
	assert.Equal(t, time.Second, c.http.Timeout)
}

func TestCreateSession_CapturesCookieSecretAndPersists(t *testing.T) {
	secrets := newMemSecrets()
	c, fp := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		switch rec.path {
		case "/v1/account/sessions/email":
			http.SetCookie(w, &http.Cookie{Name: "a_session_" + testProject, Value: "secret-123"})
			writeJSON(w, http.StatusCreated, map[string]any{"$id": "s1", "userId": "u1", "current": true, "expire": "2030-01-02T03:04:05Z"})
		case "/v1/account":
			writeJSON(w, http.StatusOK, map[string]any{"$id": "u1", "email": "ann@example.com", "name": "Ann"})
		}
	}, WithSecretStore(secrets))

	s, err := c.CreateSession(context.Background(), "ann@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)
	assert.True(t, c.HasSession())
	assert.Equal(t, []byte("secret-123"), secrets.data[sessionKey])
	assert.Equal(t, []byte("2030-01-02T03:04:05Z"), secrets.data[sessionExpireKey])

	rec := fp.last()
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, testProject, rec.project)
	assert.Equal(t, "ann@example.com", rec.body["email"])
	assert.Equal(t, "pw", rec.body["password"])

	acc, err := c.GetAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", acc.ID)
	assert.Equal(t, "secret-123", fp.last().session, "session header must follow")
}

func TestCreateSession_FallbackCookieHeader(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		w.Header().Set("X-Fallback-Cookies", `{"a_session_`+testProject+`":"fb-secret"}`)
		writeJSON(w, http.StatusCreated, map[string]any{"$id": "s2"})
	})

	_, err := c.CreateSession(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "fb-secret", c.currentSecret())
}

func TestCreateSession_PersistFailureIsReported(t *testing.T) {
	secrets := newMemSecrets()
	secrets.setErr = errors.New("disk full")
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		writeJSON(w, http.StatusCreated, map[string]any{"$id": "s3", "secret": "body-secret"})
	}, WithSecretStore(secrets))

	_, err := c.CreateSession(context.Background(), "a@b.c", "pw")
	require.ErrorContains(t, err, "persist session")
}

func TestAPIError_DecodedAndClassifiable(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"message": "Invalid credentials. Please check the email and password.",
			"code":    401,
			"type":    "user_invalid_credentials",
		})
	})

	_, err := c.CreateSession(context.Background(), "a@b.c", "bad")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode())
	assert.Equal(t, "user_invalid_credentials", apiErr.ErrorType())
	assert.ErrorIs(t, err, ErrUnauthorized)

	classified := autherr.Classify(err, true)
	assert.Equal(t, autherr.NameAuth, classified.Name)
	assert.Equal(t, autherr.MsgInvalidCredential, classified.Message)
}

func TestAPIError_ServerErrorWithoutBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := c.Ping(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 503, apiErr.StatusCode())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, apiErr.Error(), "503")
}

func TestGetSession(t *testing.T) {
	t.Run("no local secret means no session", func(t *testing.T) {
		c, fp := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
			t.Error("no request expected")
		})
		_, err := c.GetSession(context.Background())
		require.ErrorIs(t, err, ErrNoSession)
		assert.Empty(t, fp.requests)
	})

	t.Run("401 maps to ErrNoSession", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "missing scope", "code": 401})
		})
		c.setSecret("stale")

		_, err := c.GetSession(context.Background())
		require.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("5xx is not a missing session", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
			writeJSON(w, http.StatusBadGateway, map[string]any{"message": "bad gateway", "code": 502})
		})
		c.setSecret("s")

		_, err := c.GetSession(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoSession)
	})

	t.Run("current session returned", func(t *testing.T) {
		c, fp := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
			writeJSON(w, http.StatusOK, map[string]any{"$id": "s1", "userId": "u1", "current": true})
		})
		c.setSecret("live")

		s, err := c.GetSession(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "u1", s.UserID)
		assert.Equal(t, "/v1/account/sessions/current", fp.last().path)
	})
}

func TestRestoreSession(t *testing.T) {
	secrets := newMemSecrets()
	secrets.data[sessionKey] = []byte("saved")

	c, err := NewHTTPClient("https://api.example/v1", testProject, "db", WithSecretStore(secrets))
	require.NoError(t, err)

	require.NoError(t, c.RestoreSession(context.Background()))
	assert.True(t, c.HasSession())

	bare, err := NewHTTPClient("https://api.example/v1", testProject, "db")
	require.NoError(t, err)
	require.NoError(t, bare.RestoreSession(context.Background()))
	assert.False(t, bare.HasSession())
}

func TestRestoreSession_ForgetsExpiredSecret(t *testing.T) {
	secrets := newMemSecrets()
	secrets.data[sessionKey] = []byte("stale")
	secrets.data[sessionExpireKey] = []byte(time.Now().Add(-time.Hour).UTC().Format(time.RFC3339))

	c, err := NewHTTPClient("https://api.example/v1", testProject, "db", WithSecretStore(secrets))
	require.NoError(t, err)

	require.NoError(t, c.RestoreSession(context.Background()))
	assert.False(t, c.HasSession())
	assert.NotContains(t, secrets.data, sessionKey)
	assert.NotContains(t, secrets.data, sessionExpireKey)
}

func TestPreferencesRoundTrip(t *testing.T) {
	var stored json.RawMessage = []byte(`{"theme":"dark"}`)
	c, fp := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(stored)
		case http.MethodPatch:
			writeJSON(w, http.StatusOK, map[string]any{"$id": "u1"})
		}
	})

	raw, err := c.GetPreferences(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark"}`, string(raw))

	prefs := models.DefaultPreferences()
	require.NoError(t, c.UpdatePreferences(context.Background(), prefs))

	rec := fp.last()
	assert.Equal(t, http.MethodPatch, rec.method)
	assert.Equal(t, "/v1/account/prefs", rec.path)
	sent, ok := rec.body["prefs"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "system", sent["theme"])
}

func TestCreateAccount(t *testing.T) {
	c, fp := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		writeJSON(w, http.StatusCreated, map[string]any{"$id": rec.body["userId"], "email": rec.body["email"], "name": rec.body["name"]})
	})

	acc, err := c.CreateAccount(context.Background(), "id-1", "ann@example.com", "pw", "Ann")
	require.NoError(t, err)
	assert.Equal(t, "id-1", acc.ID)
	assert.Equal(t, "Ann", acc.Name)
	assert.Equal(t, "/v1/account", fp.last().path)
}

func TestDeleteSession_ForgetsSecretEvenOnFailure(t *testing.T) {
	secrets := newMemSecrets()
	c, fp := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "oops", "code": 500})
	}, WithSecretStore(secrets))
	c.setSecret("s")
	secrets.data[sessionKey] = []byte("s")

	err := c.DeleteSession(context.Background())
	require.Error(t, err)
	assert.False(t, c.HasSession())
	assert.NotContains(t, secrets.data, sessionKey)
	assert.Equal(t, http.MethodDelete, fp.last().method)
}

func TestTransportFailureIsUnavailableAndUnreachable(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	c, err := NewHTTPClient("http://"+addr+"/v1", testProject, "db", WithTimeout(2*time.Second))
	require.NoError(t, err)

	err = c.Ping(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)

	classified := autherr.Classify(err, true)
	assert.Equal(t, autherr.NameNetwork, classified.Name)
	assert.Equal(t, autherr.MsgUnreachable, classified.Message)
}

func TestTruncatedBodyIsNetworkError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"$id":"u`))
	})

	_, err := c.GetAccount(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, autherr.ErrNetwork)

	classified := autherr.Classify(err, true)
	assert.Equal(t, autherr.NameNetwork, classified.Name)
	assert.Equal(t, 0, classified.Code)
	assert.Equal(t, "Connection to the server failed. Please try again later.", classified.Message)
}

func TestServiceUnavailableStaysServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"message": "maintenance", "code": 503})
	})

	_, err := c.GetAccount(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, autherr.ErrNetwork)

	classified := autherr.Classify(err, true)
	assert.Equal(t, autherr.NameServer, classified.Name)
	assert.Equal(t, 503, classified.Code)
}

func TestDocuments(t *testing.T) {
	c, fp := newTestClient(t, func(w http.ResponseWriter, r *http.Request, rec recorded) {
		switch r.Method {
		case http.MethodPost:
			data := rec.body["data"].(map[string]any)
			data["$id"] = rec.body["documentId"]
			writeJSON(w, http.StatusCreated, data)
		case http.MethodPatch:
			data := rec.body["data"].(map[string]any)
			data["$id"] = strings.TrimPrefix(rec.path, "/v1/databases/fishlog/collections/catches/documents/")
			writeJSON(w, http.StatusOK, data)
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{
				"total": 2,
				"documents": []map[string]any{
					{"$id": "c2", "species": "perch"},
					{"$id": "c1", "species": "pike"},
				},
			})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	var created models.Catch
	require.NoError(t, c.CreateDocument(ctx, "catches", "c1", map[string]any{"species": "pike"}, &created))
	assert.Equal(t, "c1", created.ID)
	assert.Equal(t, "/v1/databases/fishlog/collections/catches/documents", fp.last().path)

	var updated models.Catch
	require.NoError(t, c.UpdateDocument(ctx, "catches", "c1", map[string]any{"species": "zander"}, &updated))
	assert.Equal(t, "zander", updated.Species)
	assert.Equal(t, "c1", updated.ID)

	var list []models.Catch
	total, err := c.ListDocuments(ctx, "catches", []Query{Equal("userId", "u1"), OrderDesc("createdAt")}, &list)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "c2", list[0].ID)
	assert.Contains(t, fp.last().query, "queries%5B%5D=")

	require.NoError(t, c.DeleteDocument(ctx, "catches", "c1"))
	assert.Equal(t, "/v1/databases/fishlog/collections/catches/documents/c1", fp.last().path)
}

func TestQuery_String(t *testing.T) {
	assert.JSONEq(t, `{"method":"equal","attribute":"userId","values":["u1"]}`, Equal("userId", "u1").String())
	assert.JSONEq(t, `{"method":"search","attribute":"sharedWithGroups","values":["g1"]}`, Search("sharedWithGroups", "g1").String())
	assert.JSONEq(t, `{"method":"orderDesc","attribute":"createdAt"}`, OrderDesc("createdAt").String())
	assert.JSONEq(t, `{"method":"limit","values":[25]}`, Limit(25).String())
}
