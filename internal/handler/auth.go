// Copyright (c) 2026 The raktar authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"raktar/internal/auth"
	"raktar/internal/middleware"
	"raktar/internal/model"
	"raktar/internal/render"
	"raktar/internal/service"
	"raktar/internal/store"
)

// msgInvalidCredentials is the single error shown for any login failure so
// the response does not reveal whether the username exists.
const msgInvalidCredentials = "Invalid username or password"

// AuthHandler handles authentication routes.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    service.NewEventService(db),
		loginProtection: lp,
	}
}

// LoginForm renders the login page. Already-authenticated users are sent to
// the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID); userID > 0 {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "login", render.TemplateData{Title: "Login"}); err != nil {
		logAndInternalError(w, "failed to render login page", "error", err)
	}
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteLogin, "Invalid form data")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	clientIP := r.RemoteAddr

	if username == "" || password == "" {
		flashError(w, r, h.renderer, RouteLogin, msgInvalidCredentials)
		return
	}

	if h.loginProtection != nil {
		if locked, _ := h.loginProtection.IsAccountLocked(username); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
				"Login attempt on locked account", nil, clientIP, map[string]any{"username": username})
			flashError(w, r, h.renderer, RouteLogin, "Too many failed attempts, try again later")
			return
		}
	}

	user, err := h.queries.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Debug("login attempt for non-existent user", "username", username)
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
				"Login failed: user not found", nil, clientIP, map[string]any{"username": username})
		} else {
			slog.Error("database error during login", "error", err)
		}
		// Record the failure even for unknown users to prevent enumeration
		h.recordFailure(username)
		flashError(w, r, h.renderer, RouteLogin, msgInvalidCredentials)
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err)
		flashError(w, r, h.renderer, RouteLogin, msgInvalidCredentials)
		return
	}
	if !valid {
		slog.Debug("invalid password attempt", "username", username)
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
			"Login failed: invalid password", &user.ID, clientIP, map[string]any{"username": username})
		h.recordFailure(username)
		flashError(w, r, h.renderer, RouteLogin, msgInvalidCredentials)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(username)
	}

	// Re-hash the password if the stored hash uses stale parameters
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now(),
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	if err := h.queries.UpdateUserLastLogin(r.Context(), store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: time.Now(), Valid: true},
		ID:          user.ID,
	}); err != nil {
		// Don't block login on this error
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
	}

	// Regenerate the session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo,
		"User logged in", &user.ID, clientIP, map[string]any{"username": user.Username})

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// Logout handles user logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)
	if userID > 0 {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo,
			"User logged out", &userID, r.RemoteAddr, nil)
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
}

func (h *AuthHandler) recordFailure(username string) {
	if h.loginProtection != nil {
		h.loginProtection.RecordFailedAttempt(username)
	}
}
