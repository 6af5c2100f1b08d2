// Copyright (c) 2026 The raktar authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Command raktar runs the stock room web application.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"raktar/internal/config"
	"raktar/internal/handler"
	"raktar/internal/logging"
	"raktar/internal/middleware"
	"raktar/internal/render"
	"raktar/internal/session"
	"raktar/internal/store"
	"raktar/web"
)

// version is set at build time via -ldflags.
var version = "dev"

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("raktar " + version)
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	baseHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(baseHandler))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Once the events table exists, mirror warnings and errors into it.
	slog.SetDefault(slog.New(logging.NewEventLogHandler(baseHandler, db)))

	if err := store.Seed(context.Background(), db); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())

	renderer, err := newRenderer(sessionManager)
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, loginProtection)
	inventoryHandler := handler.NewInventoryHandler(db, renderer)
	exportHandler := handler.NewExportHandler(db)
	usersHandler := handler.NewUsersHandler(db, renderer, sessionManager)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(handler.HeaderContentType, "application/json")
		fmt.Fprintln(w, `{"status":"ok"}`)
	})

	r.Group(func(r chi.Router) {
		r.Use(loginProtection.Middleware())
		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.Post(handler.RouteLogin, authHandler.Login)
	})
	r.Get(handler.RouteLogout, authHandler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))

		r.Get(handler.RouteRoot, inventoryHandler.Dashboard)
		r.Get(handler.RouteExport, exportHandler.Export)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			r.Post(handler.RouteAddCategory, inventoryHandler.AddCategory)
			r.Post(handler.RouteAddProduct, inventoryHandler.AddProduct)
			r.Get(handler.RouteEditProduct, inventoryHandler.EditForm)
			r.Post(handler.RouteEditProduct, inventoryHandler.Update)
			r.Get(handler.RouteDeleteProduct, inventoryHandler.Delete)

			r.Get(handler.RouteUsers, usersHandler.List)
			r.Post(handler.RouteUsers, usersHandler.Create)
			r.Post(handler.RouteChangePassword, usersHandler.ChangePassword)
			r.Get(handler.RouteDeleteUser, usersHandler.Delete)
		})
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      r,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "env", cfg.Env, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func newRenderer(sm *scs.SessionManager) (*render.Renderer, error) {
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return nil, err
	}
	return render.New(templatesFS, sm)
}

func parseLogLevel(level string) slog.Level {
	switch level {
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
