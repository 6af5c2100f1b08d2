// Copyright (c) 2026 The raktar authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"raktar/internal/service"
)

// ExportHandler serves the CSV stock report.
type ExportHandler struct {
	reports *service.ReportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(db *sql.DB) *ExportHandler {
	return &ExportHandler{reports: service.NewReportService(db)}
}

// Export streams the full stock list as a spreadsheet-friendly CSV download.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.reports.ExportCSV(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to generate CSV export", "error", err)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+service.ExportFilename)
	w.Header().Set(HeaderContentType, "text/csv; charset=utf-8")
	_, _ = w.Write(data)
}
