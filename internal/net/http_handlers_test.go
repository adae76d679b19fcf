package net

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"critter-clash/server"
	"critter-clash/server/internal/observability"
	"critter-clash/server/internal/telemetry"
)

func newTestHub(t *testing.T) *server.Hub {
	t.Helper()
	cfg := server.DefaultHubConfig()
	cfg.Seed = 3
	cfg.Logger = telemetry.WrapLogger(log.New(io.Discard, "", 0))
	return server.NewHubWithConfig(cfg, nil)
}

func TestHealthReturnsOK(t *testing.T) {
	handler := NewHTTPHandler(newTestHub(t), HTTPHandlerConfig{})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	if resp.Code != http.StatusOK || resp.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", resp.Code, resp.Body.String())
	}
}

func TestDiagnosticsReportsHubState(t *testing.T) {
	hub := newTestHub(t)
	handler := NewHTTPHandler(hub, HTTPHandlerConfig{})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/diagnostics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 OK, got %d", resp.Code)
	}
	if contentType := resp.Header().Get("Content-Type"); contentType != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %q", contentType)
	}

	var payload struct {
		Status string `json:"status"`
		Hub    struct {
			Sessions int `json:"sessions"`
			Maps     struct {
				Cached int `json:"cached"`
			} `json:"maps"`
			Config struct {
				PartySize int `json:"partySize"`
			} `json:"config"`
		} `json:"hub"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode diagnostics: %v", err)
	}
	if payload.Status != "ok" || payload.Hub.Sessions != 0 || payload.Hub.Maps.Cached != 1 {
		t.Fatalf("unexpected diagnostics %s", resp.Body.String())
	}
	if payload.Hub.Config.PartySize != 3 {
		t.Fatalf("expected the effective config, got %s", resp.Body.String())
	}
}

func TestDiagnosticsRejectsPost(t *testing.T) {
	handler := NewHTTPHandler(newTestHub(t), HTTPHandlerConfig{})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/diagnostics", nil))

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
}

func TestPprofMountedOnlyWhenEnabled(t *testing.T) {
	hub := newTestHub(t)

	disabled := NewHTTPHandler(hub, HTTPHandlerConfig{})
	resp := httptest.NewRecorder()
	disabled.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected pprof to be hidden, got %d", resp.Code)
	}

	enabled := NewHTTPHandler(hub, HTTPHandlerConfig{Observability: observability.Config{EnablePprofTrace: true}})
	resp = httptest.NewRecorder()
	enabled.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected pprof index, got %d", resp.Code)
	}
}

func TestClientDirServedAsStaticFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>critters</h1>"), 0o644); err != nil {
		t.Fatalf("failed to write index: %v", err)
	}
	handler := NewHTTPHandler(newTestHub(t), HTTPHandlerConfig{ClientDir: dir})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Code != http.StatusOK || resp.Body.String() != "<h1>critters</h1>" {
		t.Fatalf("unexpected static response %d %q", resp.Code, resp.Body.String())
	}
}

func TestWebSocketRouteRequiresUpgrade(t *testing.T) {
	handler := NewHTTPHandler(newTestHub(t), HTTPHandlerConfig{})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/ws", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected a plain GET to be refused, got %d", resp.Code)
	}
}
