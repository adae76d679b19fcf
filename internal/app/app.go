package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	server "critter-clash/server"
	"critter-clash/server/internal/config"
	servernet "critter-clash/server/internal/net"
	"critter-clash/server/internal/observability"
	"critter-clash/server/internal/telemetry"
	"critter-clash/server/logging"
	loggingSinks "critter-clash/server/logging/sinks"
)

const (
	defaultPort     = "3000"
	shutdownTimeout = 5 * time.Second
)

type Config struct {
	Logger        telemetry.Logger
	Observability observability.Config
}

// Run serves until ctx is cancelled, then shuts the HTTP server down.
func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	fallbackLogger := log.Default()
	if provider, ok := telemetryLogger.(interface{ StandardLogger() *log.Logger }); ok {
		if candidate := provider.StandardLogger(); candidate != nil {
			fallbackLogger = candidate
		}
	}

	logConfig := logging.DefaultConfig()
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if severity, err := logging.ParseSeverity(raw); err == nil {
			logConfig.MinimumSeverity = severity
		} else {
			telemetryLogger.Printf("invalid LOG_LEVEL=%q: %v", raw, err)
		}
	}
	sinks := []logging.NamedSink{
		{Name: "console", Sink: loggingSinks.NewConsoleSink(os.Stdout)},
	}
	if path := os.Getenv("LOG_JSON_PATH"); path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open event log %s: %w", path, err)
		}
		defer file.Close()
		logConfig.EnabledSinks = append(logConfig.EnabledSinks, "json")
		logConfig.JSON.FilePath = path
		sinks = append(sinks, logging.NamedSink{Name: "json", Sink: loggingSinks.NewJSON(file, logConfig.JSON.FlushInterval)})
	}

	router, err := logging.NewRouter(logging.ClockFunc(time.Now), logConfig, fallbackLogger, sinks)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		if cerr := router.Close(context.Background()); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	hubCfg, err := hubConfigFromEnv(os.Getenv, telemetryLogger)
	if err != nil {
		return err
	}
	hubCfg.Logger = telemetryLogger

	observabilityCfg := cfg.Observability
	if raw := os.Getenv("ENABLE_PPROF_TRACE"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			observabilityCfg.EnablePprofTrace = value
		} else {
			telemetryLogger.Printf("invalid ENABLE_PPROF_TRACE=%q: %v", raw, err)
		}
	}

	hub := server.NewHubWithConfig(hubCfg, router)

	clientDir := os.Getenv("CLIENT_DIR")
	if clientDir != "" {
		clientDir = filepath.Clean(clientDir)
	}
	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{
		ClientDir:     clientDir,
		Logger:        telemetryLogger,
		Observability: observabilityCfg,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	srv := &http.Server{Addr: ":" + port, Handler: handler}

	serveErr := make(chan error, 1)
	go func() {
		telemetryLogger.Printf("server listening on %s", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	telemetryLogger.Printf("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// hubConfigFromEnv applies GAME_CONFIG, WORLD_SEED and MAP_CACHE_CAPACITY
// to the default hub config. Unparseable numbers are logged and ignored; an
// unreadable config file is an error.
func hubConfigFromEnv(getenv func(string) string, logger telemetry.Logger) (server.HubConfig, error) {
	hubCfg := server.DefaultHubConfig()
	if path := getenv("GAME_CONFIG"); path != "" {
		game, err := config.LoadFile(path)
		if err != nil {
			return hubCfg, err
		}
		hubCfg.Game = game
	}
	if raw := getenv("WORLD_SEED"); raw != "" {
		hubCfg.Game.World.Seed = raw
	}
	if raw := getenv("MAP_CACHE_CAPACITY"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			hubCfg.Game.World.CacheCapacity = value
		} else {
			logger.Printf("invalid MAP_CACHE_CAPACITY=%q: %v", raw, err)
		}
	}
	return hubCfg, nil
}
