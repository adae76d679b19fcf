package net

import (
	"encoding/json"
	"log"
	nethttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"critter-clash/server"
	"critter-clash/server/internal/net/ws"
	"critter-clash/server/internal/observability"
	"critter-clash/server/internal/telemetry"
)

type HTTPHandlerConfig struct {
	ClientDir     string
	Logger        telemetry.Logger
	Observability observability.Config
	WebSocket     ws.HandlerConfig
}

// NewHTTPHandler routes health, diagnostics, the websocket endpoint, and
// optionally the static client and profiling endpoints.
func NewHTTPHandler(hub *server.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	wsCfg := cfg.WebSocket
	if wsCfg.Logger == nil {
		wsCfg.Logger = logger
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	r.Get("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		payload := struct {
			Status     string             `json:"status"`
			ServerTime int64              `json:"serverTime"`
			Hub        server.Diagnostics `json:"hub"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Hub:        hub.DiagnosticsSnapshot(),
		}

		data, err := json.Marshal(payload)
		if err != nil {
			logger.Printf("failed to encode diagnostics: %v", err)
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	r.Get("/ws", ws.NewHandler(hub, wsCfg).Handle)

	if cfg.Observability.EnablePprofTrace {
		r.Mount("/debug", middleware.Profiler())
	}

	if cfg.ClientDir != "" {
		r.Handle("/*", nethttp.FileServer(nethttp.Dir(cfg.ClientDir)))
	}

	return r
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}
