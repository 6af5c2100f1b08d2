// Copyright (c) 2026 The raktar authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"raktar/internal/middleware"
	"raktar/internal/render"
	"raktar/internal/service"
)

// InventoryHandler handles the dashboard and stock item routes.
type InventoryHandler struct {
	svc      *service.InventoryService
	renderer *render.Renderer
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(db *sql.DB, renderer *render.Renderer) *InventoryHandler {
	return &InventoryHandler{
		svc:      service.NewInventoryService(db),
		renderer: renderer,
	}
}

// Dashboard renders the grouped stock overview with totals and the recent
// activity log.
func (h *InventoryHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Dashboard(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load dashboard", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "index", render.TemplateData{
		Title: "Stock Room",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render dashboard", "error", err)
	}
}

// AddCategory handles the new group form submission.
func (h *InventoryHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteRoot, "Invalid form data")
		return
	}

	name := r.FormValue("kategoria_nev")
	if err := h.svc.AddCategory(r.Context(), middleware.GetUsername(r), name); err != nil {
		logAndInternalError(w, "failed to add category", "error", err, "name", name)
		return
	}

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// AddProduct handles the new stock item form submission.
func (h *InventoryHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteRoot, "Invalid form data")
		return
	}

	in := service.AddProductInput{
		Name:       r.FormValue("nev"),
		Quantity:   r.FormValue("mennyiseg"),
		MinLevel:   r.FormValue("min_szint"),
		CategoryID: r.FormValue("kategoria_id"),
	}

	if _, err := h.svc.AddProduct(r.Context(), middleware.GetUsername(r), in); err != nil {
		if errors.Is(err, service.ErrValidation) {
			http.Error(w, "Invalid quantity value", http.StatusBadRequest)
			return
		}
		logAndInternalError(w, "failed to add product", "error", err, "name", in.Name)
		return
	}

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// EditForm renders the edit page for a single stock item.
func (h *InventoryHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := parseIDParam(w, r)
	if id == 0 {
		return
	}

	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to load product", "error", err, "id", id)
		return
	}

	if err := h.renderer.Render(w, r, "szerkesztes", render.TemplateData{
		Title: "Edit item",
		User:  middleware.GetUser(r),
		Data:  product,
	}); err != nil {
		logAndInternalError(w, "failed to render edit page", "error", err)
	}
}

// Update handles the edit form submission.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := parseIDParam(w, r)
	if id == 0 {
		return
	}

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteRoot, "Invalid form data")
		return
	}

	in := service.EditProductInput{
		Name:     r.FormValue("nev"),
		Quantity: r.FormValue("mennyiseg"),
		MinLevel: r.FormValue("min_szint"),
	}

	if err := h.svc.EditProduct(r.Context(), id, in); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, service.ErrValidation):
			http.Error(w, "Invalid quantity value", http.StatusBadRequest)
		default:
			logAndInternalError(w, "failed to update product", "error", err, "id", id)
		}
		return
	}

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// Delete removes a stock item and returns to the dashboard.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := parseIDParam(w, r)
	if id == 0 {
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to delete product", "error", err, "id", id)
		return
	}

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}
