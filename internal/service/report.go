// Copyright (c) 2026 The raktar authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"raktar/internal/store"
)

// ExportFilename is the download filename for the CSV report.
const ExportFilename = "raktar_kimutatas.csv"

const (
	csvGroupOther = "Other"
	csvStatusLow  = "LOW"
	csvStatusOK   = "OK"
)

// csvHeader is the first row of every export.
var csvHeader = []string{"Name", "Quantity", "Group", "Status"}

// ReportService derives read-only views from store state.
type ReportService struct {
	queries *store.Queries
}

// NewReportService creates a new ReportService.
func NewReportService(db *sql.DB) *ReportService {
	return &ReportService{queries: store.New(db)}
}

// ExportCSV renders the product table as a semicolon-delimited CSV document.
// The output starts with a UTF-8 byte-order mark so spreadsheet applications
// pick up accented characters, and quantities use a decimal comma. Rows come
// in storage order.
func (s *ReportService) ExportCSV(ctx context.Context) ([]byte, error) {
	products, err := s.queries.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	categories, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	categoryNames := make(map[int64]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	var buf bytes.Buffer
	bom := transform.NewWriter(&buf, unicode.UTF8BOM.NewEncoder())
	w := csv.NewWriter(bom)
	w.Comma = ';'

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for _, p := range products {
		group := csvGroupOther
		if p.CategoryID.Valid {
			if name, ok := categoryNames[p.CategoryID.Int64]; ok {
				group = name
			}
		}
		status := csvStatusOK
		if p.IsLow() {
			status = csvStatusLow
		}

		if err := w.Write([]string{p.Name, formatQuantity(p.Quantity), group, status}); err != nil {
			return nil, fmt.Errorf("writing row for %q: %w", p.Name, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	if err := bom.Close(); err != nil {
		return nil, fmt.Errorf("closing writer: %w", err)
	}

	return buf.Bytes(), nil
}

// formatQuantity renders a quantity with a decimal comma, e.g. 0.5 -> "0,5".
// Whole numbers keep an explicit zero fraction: 5 -> "5,0".
func formatQuantity(q float64) string {
	s := strconv.FormatFloat(q, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return strings.ReplaceAll(s, ".", ",")
}
