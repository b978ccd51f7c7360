package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/fakasys/fakachat-server/internal/auth"
	"github.com/fakasys/fakachat-server/internal/config"
	"github.com/fakasys/fakachat-server/internal/core"
	"github.com/fakasys/fakachat-server/internal/proto"
	"github.com/fakasys/fakachat-server/internal/service/friends"
	"github.com/fakasys/fakachat-server/internal/store/sqlite"
)

type testEnv struct {
	ts    *httptest.Server
	store *sqlite.SQLiteStore
	auth  *auth.Service
}

func startTestServer(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	logger := zerolog.Nop()

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	}
	authService := auth.NewService(st, jwtConfig, "FakaSys")
	friendsService := friends.New(st, st)

	hub := core.NewHub(st, st, &logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := NewServer(hub, authService, friendsService, st, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		AvatarDir:         t.TempDir(),
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, store: st, auth: authService}
}

// registerUser creates an account via the API and returns its token.
func (e *testEnv) registerUser(t *testing.T, username, password string) string {
	t.Helper()

	body, _ := json.Marshal(RegisterRequest{Username: username, Password: password})
	resp, err := e.ts.Client().Post(e.ts.URL+"/api/register", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: unexpected status %d", username, resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("decode auth response: %v", err)
	}
	return authResp.Token
}

// postJSON sends an authenticated JSON request and returns the response.
func (e *testEnv) postJSON(t *testing.T, token, path string, payload any) *http.Response {
	t.Helper()

	body, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, e.ts.URL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	return resp
}

func (e *testEnv) getJSON(t *testing.T, token, path string, out any) int {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, e.ts.URL+path, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func (e *testEnv) wsURL() string {
	return strings.Replace(e.ts.URL, "http", "ws", 1) + "/ws"
}

func (e *testEnv) dialWS(t *testing.T, ctx context.Context, token string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, e.wsURL()+"?token="+token, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

// readUntil drains outbound frames until one of the given type arrives.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, eventType string) json.RawMessage {
	t.Helper()

	for {
		var outbound struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			t.Fatalf("read waiting for %q: %v", eventType, err)
		}
		if outbound.Type == eventType {
			return outbound.Data
		}
	}
}

// waitForRoster drains frames until a userList with the given size arrives.
func waitForRoster(t *testing.T, ctx context.Context, conn *websocket.Conn, size int) []proto.UserListEntry {
	t.Helper()

	for {
		data := readUntil(t, ctx, conn, proto.OutboundTypeUserList)
		var entries []proto.UserListEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			t.Fatalf("unmarshal userList: %v", err)
		}
		if len(entries) == size {
			return entries
		}
	}
}

func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, eventType string, payload any) {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: eventType, Data: data}); err != nil {
		t.Fatalf("write %s: %v", eventType, err)
	}
}
