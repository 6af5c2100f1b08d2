// Copyright (c) 2026 The raktar authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render handles HTML template rendering and flash messages.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"raktar/internal/store"
)

// Renderer renders pages from a parsed template set.
type Renderer struct {
	templates      *template.Template
	sessionManager *scs.SessionManager
}

// New creates a Renderer from all .html files in templatesFS.
func New(templatesFS fs.FS, sm *scs.SessionManager) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{templates: tmpl, sessionManager: sm}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDateTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
		"formatQuantity": func(q float64) string {
			s := strconv.FormatFloat(q, 'f', -1, 64)
			if !strings.Contains(s, ".") {
				s += ".0"
			}
			return strings.ReplaceAll(s, ".", ",")
		},
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	User        *store.User
	Data        any
	Flash       string
	FlashType   string
	CurrentYear int
}

// Render renders the named template. The flash message, if any, is consumed
// from the session.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	data.CurrentYear = time.Now().Year()

	if r.sessionManager != nil {
		if flash := r.sessionManager.PopString(req.Context(), "flash"); flash != "" {
			data.Flash = flash
			data.FlashType = r.sessionManager.PopString(req.Context(), "flash_type")
			if data.FlashType == "" {
				data.FlashType = "info"
			}
		}
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := r.templates.ExecuteTemplate(buf, name+".html", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		r.sessionManager.Put(req.Context(), "flash", message)
		r.sessionManager.Put(req.Context(), "flash_type", flashType)
	}
}
