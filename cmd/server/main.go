package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jo-hoe/hoasite/internal/backend"
	"github.com/jo-hoe/hoasite/internal/backend/metrics"
	"github.com/jo-hoe/hoasite/internal/core"
	frontend "github.com/jo-hoe/hoasite/internal/frontend"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const metricsNamespace = "hoa"

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	environment := core.Environment()
	if err := core.LoadEnvFiles(cwd, environment); err != nil {
		return err
	}
	// the env files may set HOA_ENV themselves
	environment = core.Environment()

	// Load configuration
	configPath := core.ConfigPath(cwd, environment)
	config, err := core.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	setupLogger(config)
	slog.Info("configuration loaded", "path", configPath, "environment", config.Environment, "port", config.Port)

	ctx := context.Background()
	coreService, err := core.NewCoreService(ctx, config)
	if err != nil {
		return err
	}

	m := metrics.New(metricsNamespace)
	server := defineServer(m)

	apiService := backend.NewAPIService(coreService, m)
	apiService.SetRoutes(server)
	frontendService := frontend.NewFrontendService(config, coreService, m)
	if err := frontendService.SetRoutes(server); err != nil {
		_ = coreService.Close()
		return err
	}

	portString := fmt.Sprintf(":%d", config.Port)

	// Start HTTP server in a goroutine to allow graceful shutdown
	go func() {
		if err := server.Start(portString); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := coreService.Close(); err != nil {
		slog.Error("core service close error", "error", err)
	}
	return nil
}

// setupLogger writes JSON logs in production and readable text in dev.
func setupLogger(config *core.ServiceConfig) {
	var handler slog.Handler
	if config.IsProd() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}

func isProbe(c echo.Context) bool {
	return c.Path() == "/probe"
}

func defineServer(m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Configure request logger to skip "/probe" endpoint (health check)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper:      isProbe,
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogError:     true,
		LogRemoteIP:  true,
		LogHost:      true,
		LogUserAgent: true,
		LogRoutePath: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"route", v.RoutePath,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"host", v.Host,
				"user_agent", v.UserAgent,
			}
			if v.Error != nil {
				slog.Error("request", append(attrs, "error", v.Error)...)
			} else {
				slog.Info("request", attrs...)
			}
			return nil
		},
	}))

	m.Skipper = isProbe
	e.Use(m.Middleware())
	e.Use(middleware.Recover())
	e.Pre(middleware.RemoveTrailingSlash())

	return e
}
