package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/skiffworks/skiff/pkg/credentials"
	"github.com/skiffworks/skiff/pkg/log"
)

// Integration tests for the CLI against a fake platform API.
// These tests verify the full flow: command -> client -> HTTP -> output.

// platformServer is a minimal in-memory stand-in for the platform API.
type platformServer struct {
	httpServer *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	hosts    map[string]map[string]any
	uploads  int
}

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   []byte
}

func startPlatformServer(t *testing.T) *platformServer {
	t.Helper()

	ps := &platformServer{hosts: make(map[string]map[string]any)}
	ps.httpServer = httptest.NewServer(http.HandlerFunc(ps.handle))
	t.Cleanup(ps.httpServer.Close)
	return ps
}

func (ps *platformServer) URL() string {
	return ps.httpServer.URL
}

func (ps *platformServer) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	ps.mu.Lock()
	ps.requests = append(ps.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})
	ps.mu.Unlock()

	switch {
	case r.URL.Path == "/login":
		username, password, ok := r.BasicAuth()
		if !ok || password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-" + username,
			"expires_in":   3600,
		})

	case r.URL.Path == "/compile":
		ps.mu.Lock()
		ps.uploads++
		ps.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]string{"ok": "m_100"})

	case r.URL.Path == "/hosts" && r.Method == http.MethodPost:
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "bad payload"})
			return
		}
		host, _ := payload["host"].(string)
		ps.mu.Lock()
		ps.hosts[host] = payload
		ps.mu.Unlock()
		w.WriteHeader(http.StatusOK)

	case strings.HasPrefix(r.URL.Path, "/hosts/") && r.Method == http.MethodPost:
		host := strings.TrimPrefix(r.URL.Path, "/hosts/")
		ps.mu.Lock()
		record, ok := ps.hosts[host]
		if ok {
			var payload map[string]any
			json.Unmarshal(body, &payload)
			for k, v := range payload {
				record[k] = v
			}
		}
		ps.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "no such host"})
			return
		}
		w.WriteHeader(http.StatusOK)

	case strings.HasPrefix(r.URL.Path, "/hosts/") && r.Method == http.MethodGet:
		host := strings.TrimPrefix(r.URL.Path, "/hosts/")
		ps.mu.Lock()
		record, ok := ps.hosts[host]
		ps.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "no such host"})
			return
		}
		json.NewEncoder(w).Encode(record)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (ps *platformServer) lastAuth(t *testing.T) string {
	t.Helper()
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if len(ps.requests) == 0 {
		t.Fatal("no requests recorded")
	}
	return ps.requests[len(ps.requests)-1].Auth
}

// runCommand executes the CLI with the given args against a clean
// environment and returns stdout.
func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd(BuildInfo{Version: "test"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func setupEnv(t *testing.T) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("SKIFF_API", "")
	t.Setenv("SKIFF_ACCOUNT", "")
	t.Setenv("SKIFF_TOKEN", "")

	prev := credentials.UseBackend(credentials.NewMemBackend())
	t.Cleanup(func() { credentials.UseBackend(prev) })

	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
}

func writeWASM(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.wasm")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIntegration_LoginThenHostGet(t *testing.T) {
	setupEnv(t)
	ps := startPlatformServer(t)

	// Log in with password on stdin (non-TTY path)
	_, err := runCommand(t, "hunter2\n", "login", "alice", "--api", ps.URL())
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Seed a host server-side, then fetch it with the stored token
	ps.mu.Lock()
	ps.hosts["myhost"] = map[string]any{"host": "myhost", "customer_id": "cust123"}
	ps.mu.Unlock()

	out, err := runCommand(t, "", "host:get", "myhost", "--api", ps.URL())
	if err != nil {
		t.Fatalf("host:get failed: %v", err)
	}

	if auth := ps.lastAuth(t); auth != "Bearer tok-alice" {
		t.Errorf("expected stored token on request, got %q", auth)
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(out), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if record["customer_id"] != "cust123" {
		t.Errorf("unexpected record: %v", record)
	}
}

func TestIntegration_LoginBadPassword(t *testing.T) {
	setupEnv(t)
	ps := startPlatformServer(t)

	_, err := runCommand(t, "wrong\n", "login", "alice", "--api", ps.URL())
	if err == nil {
		t.Fatal("expected login to fail")
	}
	if !strings.Contains(err.Error(), "Login error: ") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "invalid credentials") {
		t.Errorf("expected server message in error, got: %v", err)
	}
}

func TestIntegration_NotLoggedIn(t *testing.T) {
	setupEnv(t)
	ps := startPlatformServer(t)

	_, err := runCommand(t, "", "host:get", "myhost", "--api", ps.URL())
	if err == nil {
		t.Fatal("expected error without credentials")
	}
	if !strings.Contains(err.Error(), "skiff login") {
		t.Errorf("expected login hint in error, got: %v", err)
	}

	ps.mu.Lock()
	n := len(ps.requests)
	ps.mu.Unlock()
	if n != 0 {
		t.Errorf("expected no requests without credentials, got %d", n)
	}
}

func TestIntegration_ExpiredToken(t *testing.T) {
	setupEnv(t)
	ps := startPlatformServer(t)

	store := credentials.Open(ps.URL(), "default")
	if err := store.Set("stale", -time.Minute); err != nil {
		t.Fatal(err)
	}

	_, err := runCommand(t, "", "host:get", "myhost", "--api", ps.URL())
	if err == nil {
		t.Fatal("expected error with expired token")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("expected expiry message, got: %v", err)
	}
}

func TestIntegration_HostCreateWithLocalModule(t *testing.T) {
	setupEnv(t)
	ps := startPlatformServer(t)

	store := credentials.Open(ps.URL(), "default")
	if err := store.Set("tok-alice", time.Hour); err != nil {
		t.Fatal(err)
	}

	wasm := writeWASM(t, []byte("\x00asm fake module"))

	_, err := runCommand(t, "", "host:create", "myhost", "cust123",
		"--api", ps.URL(),
		"--module", wasm,
		"--env", "LOG_LEVEL=debug",
	)
	if err != nil {
		t.Fatalf("host:create failed: %v", err)
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.uploads != 1 {
		t.Errorf("expected 1 upload, got %d", ps.uploads)
	}
	record := ps.hosts["myhost"]
	if record == nil {
		t.Fatal("host was not created")
	}
	if record["module"] != "m_100" {
		t.Errorf("expected uploaded module ID in payload, got %v", record["module"])
	}
	env, _ := record["env"].(map[string]any)
	if env["LOG_LEVEL"] != "debug" {
		t.Errorf("unexpected env: %v", record["env"])
	}
}

func TestIntegration_HostUpdateNotFound(t *testing.T) {
	setupEnv(t)
	ps := startPlatformServer(t)

	store := credentials.Open(ps.URL(), "default")
	if err := store.Set("tok-alice", time.Hour); err != nil {
		t.Fatal(err)
	}

	_, err := runCommand(t, "", "host:update", "ghost", "--api", ps.URL(), "--function", "handler")
	if err == nil {
		t.Fatal("expected error for unknown host")
	}
	if !strings.Contains(err.Error(), "no such host") {
		t.Errorf("expected server message, got: %v", err)
	}
}

func TestIntegration_UploadPrintsModuleID(t *testing.T) {
	setupEnv(t)
	ps := startPlatformServer(t)

	store := credentials.Open(ps.URL(), "default")
	if err := store.Set("tok-alice", time.Hour); err != nil {
		t.Fatal(err)
	}

	wasm := writeWASM(t, []byte("payload"))

	out, err := runCommand(t, "", "upload", wasm, "--api", ps.URL())
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if strings.TrimSpace(out) != "m_100" {
		t.Errorf("expected module ID on stdout, got %q", out)
	}
}

func TestIntegration_LogoutRemovesCredentials(t *testing.T) {
	setupEnv(t)
	ps := startPlatformServer(t)

	store := credentials.Open(ps.URL(), "default")
	if err := store.Set("tok-alice", time.Hour); err != nil {
		t.Fatal(err)
	}

	if _, err := runCommand(t, "", "logout", "--api", ps.URL()); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if _, err := store.Get(); !credentials.IsNotFound(err) {
		t.Errorf("expected credentials removed, got: %v", err)
	}
}

func TestIntegration_TokenOverrideSkipsStore(t *testing.T) {
	setupEnv(t)
	ps := startPlatformServer(t)
	t.Setenv("SKIFF_TOKEN", "ci-token")

	ps.mu.Lock()
	ps.hosts["myhost"] = map[string]any{"host": "myhost"}
	ps.mu.Unlock()

	if _, err := runCommand(t, "", "host:get", "myhost", "--api", ps.URL()); err != nil {
		t.Fatalf("host:get failed: %v", err)
	}
	if auth := ps.lastAuth(t); auth != "Bearer ci-token" {
		t.Errorf("expected override token, got %q", auth)
	}
}

func TestIntegration_AccountContexts(t *testing.T) {
	setupEnv(t)
	ps := startPlatformServer(t)

	if _, err := runCommand(t, "", "account", "add", "staging", "--api", ps.URL()); err != nil {
		t.Fatalf("account add failed: %v", err)
	}
	if _, err := runCommand(t, "", "account", "use", "staging"); err != nil {
		t.Fatalf("account use failed: %v", err)
	}

	out, err := runCommand(t, "", "account", "list")
	if err != nil {
		t.Fatalf("account list failed: %v", err)
	}
	if !strings.Contains(out, "* staging") {
		t.Errorf("expected staging marked current, got:\n%s", out)
	}

	// Commands now resolve the staging account's endpoint with no --api flag
	store := credentials.Open(ps.URL(), "staging")
	if err := store.Set("tok-staging", time.Hour); err != nil {
		t.Fatal(err)
	}
	ps.mu.Lock()
	ps.hosts["myhost"] = map[string]any{"host": "myhost"}
	ps.mu.Unlock()

	if _, err := runCommand(t, "", "host:get", "myhost"); err != nil {
		t.Fatalf("host:get via account context failed: %v", err)
	}
	if auth := ps.lastAuth(t); auth != "Bearer tok-staging" {
		t.Errorf("expected staging token, got %q", auth)
	}

	if _, err := runCommand(t, "", "account", "remove", "staging"); err != nil {
		t.Fatalf("account remove failed: %v", err)
	}
	out, err = runCommand(t, "", "account", "list")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "staging") {
		t.Errorf("expected staging removed, got:\n%s", out)
	}
}

func TestIntegration_OutputYAML(t *testing.T) {
	setupEnv(t)
	ps := startPlatformServer(t)

	store := credentials.Open(ps.URL(), "default")
	if err := store.Set("tok-alice", time.Hour); err != nil {
		t.Fatal(err)
	}
	ps.mu.Lock()
	ps.hosts["myhost"] = map[string]any{"host": "myhost", "customer_id": "cust123"}
	ps.mu.Unlock()

	out, err := runCommand(t, "", "host:get", "myhost", "--api", ps.URL(), "-o", "yaml")
	if err != nil {
		t.Fatalf("host:get failed: %v", err)
	}
	if !strings.Contains(out, "customer_id: cust123") {
		t.Errorf("expected YAML output, got:\n%s", out)
	}
}

func TestIntegration_UnknownOutputFormat(t *testing.T) {
	setupEnv(t)
	ps := startPlatformServer(t)

	store := credentials.Open(ps.URL(), "default")
	if err := store.Set("tok-alice", time.Hour); err != nil {
		t.Fatal(err)
	}
	ps.mu.Lock()
	ps.hosts["myhost"] = map[string]any{"host": "myhost"}
	ps.mu.Unlock()

	_, err := runCommand(t, "", "host:get", "myhost", "--api", ps.URL(), "-o", "xml")
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("expected format error, got: %v", err)
	}
}
