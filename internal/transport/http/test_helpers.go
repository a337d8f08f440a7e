package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatline/chatline-server/internal/auth"
	"github.com/chatline/chatline-server/internal/config"
	"github.com/chatline/chatline-server/internal/core"
	"github.com/chatline/chatline-server/internal/store/sqlite"
)

// testStaticFiles is what the test static dir serves per route.
var testStaticFiles = map[string]string{
	"auth.html":  "<html>auth page</html>",
	"auth.js":    "// auth script",
	"index.html": "<html>chat page</html>",
	"style.css":  "body {}",
	"script.js":  "// chat script",
}

// startTestServer wires a full server around an in-memory store and
// temp static assets.
func startTestServer(t *testing.T) (*httptest.Server, *auth.Service) {
	t.Helper()
	return startTestServerWithRate(t, 600)
}

// startTestServerWithRate is startTestServer with a configurable
// per-connection message limit.
func startTestServerWithRate(t *testing.T, messagesPerMinute int) (*httptest.Server, *auth.Service) {
	t.Helper()

	staticDir := t.TempDir()
	for name, content := range testStaticFiles {
		if err := os.WriteFile(filepath.Join(staticDir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write static file %s: %v", name, err)
		}
	}

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	tokenConfig := &auth.TokenConfig{
		Secret: []byte("test-secret-change-me"),
		Issuer: "test",
	}
	authService := auth.NewService(st, auth.NewRegistry(), tokenConfig)

	logger := zerolog.Nop()
	hub := core.NewHub(st, &logger, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := NewServer(hub, authService, config.Config{
		Addr:              ":0",
		StaticDir:         staticDir,
		MessagesPerMinute: messagesPerMinute,
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, nil, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, authService
}

// noRedirectClient returns a client that reports redirects instead of
// following them.
func noRedirectClient(ts *httptest.Server) *http.Client {
	client := ts.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return client
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	resp, err := ts.Client().Post(ts.URL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return out
}

// registerAndLogin creates an account over the API and returns a
// freshly minted credential.
func registerAndLogin(t *testing.T, ts *httptest.Server, login, password string) string {
	t.Helper()

	resp := postJSON(t, ts, "/api/register", CredentialsRequest{Login: login, Password: password})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: unexpected status %d", login, resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, ts, "/api/login", CredentialsRequest{Login: login, Password: password})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: unexpected status %d", login, resp.StatusCode)
	}
	token := decodeJSON[TokenResponse](t, resp).Token
	if token == "" {
		t.Fatalf("login %s: empty token", login)
	}
	return token
}
