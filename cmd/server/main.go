package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/shapepad/shapepad/engine-go/internal/auth"
	"github.com/shapepad/shapepad/engine-go/internal/bench"
	"github.com/shapepad/shapepad/engine-go/internal/config"
	"github.com/shapepad/shapepad/engine-go/internal/engine"
	"github.com/shapepad/shapepad/engine-go/internal/export"
	mw "github.com/shapepad/shapepad/engine-go/internal/middleware"
	"github.com/shapepad/shapepad/engine-go/internal/session"
	"github.com/shapepad/shapepad/engine-go/internal/static"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)})))

	eng := engine.New(engine.Options{DisableFastPath: cfg.DisableFastPath})
	slog.Info("engine ready", "backend", eng.BackendName(), "available", eng.Available())

	authService := auth.NewService(cfg.SessionSecret, cfg.SessionTTL)
	authHandler := auth.NewHandler(authService)

	engineHandler := engine.NewHandler(eng)
	benchHandler := bench.NewHandler(bench.NewRunner(eng))
	exportHandler := export.NewHandler(eng)

	hub := session.NewHub()
	go hub.Run()
	sessionHandler := session.NewHandler(hub)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Public API routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/session", authHandler.CreateSession).Methods("POST", "OPTIONS")
	api.HandleFunc("/backend", engineHandler.BackendStatus).Methods("GET")
	api.HandleFunc("/benchmark", benchHandler.Run).Methods("POST", "OPTIONS")
	api.HandleFunc("/benchmark/categories", benchHandler.ListCategories).Methods("GET")
	api.HandleFunc("/export/png", exportHandler.ExportPNG).Methods("POST", "OPTIONS")

	// Diagnostic routes require a session token
	diag := api.PathPrefix("/sessions").Subrouter()
	diag.Use(authService.RequireSession)
	diag.HandleFunc("", sessionHandler.List).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws/session", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, eng, cfg.Origins())
	})

	// Frontend bundle, when a build directory is configured
	if cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(static.NewHandler(cfg.StaticDir).Serve()).Methods("GET")
		slog.Info("serving frontend", "dir", cfg.StaticDir)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "environment", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, authSvc *auth.Service, eng *engine.Engine, origins []string) {
	// Auth via query param; browsers cannot set headers on WebSocket
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	sessionID, err := authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(origins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	sess := session.NewSession(hub, conn, sessionID, eng)
	hub.Register(sess)

	ctx := r.Context()
	go sess.WritePump(ctx)
	sess.ReadPump(ctx)
}

// originPatterns strips schemes so configured origins match the
// host-based patterns Accept expects.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, o)
	}
	return patterns
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
