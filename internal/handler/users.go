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

// UsersHandler handles user administration routes.
type UsersHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	eventService   *service.EventService
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *UsersHandler {
	return &UsersHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		eventService:   service.NewEventService(db),
	}
}

// usersPageData carries the user list and the selectable roles.
type usersPageData struct {
	Users []store.User
	Roles []string
}

// List renders the user administration page.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list users", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "felhasznalok", render.TemplateData{
		Title: "Users",
		User:  middleware.GetUser(r),
		Data:  usersPageData{Users: users, Roles: model.ValidRoles},
	}); err != nil {
		logAndInternalError(w, "failed to render users page", "error", err)
	}
}

// Create handles the new user form submission. An already-taken username is
// ignored without an error.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteUsers, "Invalid form data")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	role := r.FormValue("role")

	if username == "" || password == "" {
		flashError(w, r, h.renderer, RouteUsers, "Username and password are required")
		return
	}
	if !model.IsValidRole(role) {
		flashError(w, r, h.renderer, RouteUsers, "Unknown role: "+role)
		return
	}

	if _, err := h.queries.GetUserByUsername(r.Context(), username); err == nil {
		http.Redirect(w, r, RouteUsers, http.StatusSeeOther)
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		logAndInternalError(w, "failed to check username", "error", err, "username", username)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}

	now := time.Now()
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		logAndInternalError(w, "failed to create user", "error", err, "username", username)
		return
	}

	actorID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)
	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo,
		"User created", &actorID, r.RemoteAddr,
		map[string]any{"username": user.Username, "role": user.Role})

	flashSuccess(w, r, h.renderer, RouteUsers, "User created: "+user.Username)
}

// ChangePassword handles the per-user password change form.
func (h *UsersHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id := parseIDParam(w, r)
	if id == 0 {
		return
	}

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteUsers, "Invalid form data")
		return
	}

	password := r.FormValue("uj_jelszo")
	if password == "" {
		flashError(w, r, h.renderer, RouteUsers, "Password must not be empty")
		return
	}

	user, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to load user", "error", err, "id", id)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}

	if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
		PasswordHash: hash,
		UpdatedAt:    time.Now(),
		ID:           user.ID,
	}); err != nil {
		logAndInternalError(w, "failed to update password", "error", err, "id", id)
		return
	}

	actorID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)
	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo,
		"Password changed", &actorID, r.RemoteAddr, map[string]any{"username": user.Username})

	flashSuccess(w, r, h.renderer, RouteUsers, "Password updated for "+user.Username)
}

// Delete removes a user. The built-in admin account is never deleted.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := parseIDParam(w, r)
	if id == 0 {
		return
	}

	user, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to load user", "error", err, "id", id)
		return
	}

	if user.Username == store.DefaultAdminUsername {
		slog.Warn("refused to delete built-in admin account", "id", id)
		http.Redirect(w, r, RouteUsers, http.StatusSeeOther)
		return
	}

	if err := h.queries.DeleteUser(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete user", "error", err, "id", id)
		return
	}

	actorID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)
	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo,
		"User deleted", &actorID, r.RemoteAddr, map[string]any{"username": user.Username})

	http.Redirect(w, r, RouteUsers, http.StatusSeeOther)
}
