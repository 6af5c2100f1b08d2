// Copyright (c) 2026 The raktar authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the inventory use-cases on top of the store
// layer: category and product mutations with audit logging, dashboard
// aggregates, CSV reporting, and system event logging.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"raktar/internal/store"
)

// Sentinel errors returned by the service layer. Handlers translate these
// into HTTP status codes.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid input")
)

// DashboardLogLimit is the number of audit entries shown on the dashboard.
const DashboardLogLimit = 10

// InventoryService implements the category and product use-cases.
type InventoryService struct {
	db      *sql.DB
	queries *store.Queries
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(db *sql.DB) *InventoryService {
	return &InventoryService{
		db:      db,
		queries: store.New(db),
	}
}

// AddCategory creates a category and an audit entry. An empty name or a name
// that already exists is a silent no-op, not an error.
func (s *InventoryService) AddCategory(ctx context.Context, actor, name string) error {
	if name == "" {
		return nil
	}

	if _, err := s.queries.GetCategoryByName(ctx, name); err == nil {
		return nil // duplicate name, keep the existing row
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking category name: %w", err)
	}

	return s.inTx(ctx, func(q *store.Queries) error {
		if _, err := q.CreateCategory(ctx, name); err != nil {
			return fmt.Errorf("creating category: %w", err)
		}
		if _, err := q.CreateLogEntry(ctx, store.CreateLogEntryParams{
			Username:    actor,
			Description: "New group: " + name,
			CreatedAt:   time.Now(),
		}); err != nil {
			return fmt.Errorf("appending audit entry: %w", err)
		}
		return nil
	})
}

// AddProductInput holds raw form values for AddProduct. Quantity and
// MinLevel are parsed here so unparseable input surfaces as ErrValidation.
type AddProductInput struct {
	Name       string
	Quantity   string
	MinLevel   string // blank means the 1.0 default
	CategoryID string // blank means uncategorized
}

// AddProduct creates a product and an audit entry.
func (s *InventoryService) AddProduct(ctx context.Context, actor string, in AddProductInput) (store.Product, error) {
	quantity, err := strconv.ParseFloat(in.Quantity, 64)
	if err != nil {
		return store.Product{}, fmt.Errorf("%w: quantity %q is not a number", ErrValidation, in.Quantity)
	}

	minLevel := 1.0
	if in.MinLevel != "" {
		minLevel, err = strconv.ParseFloat(in.MinLevel, 64)
		if err != nil {
			return store.Product{}, fmt.Errorf("%w: minimum level %q is not a number", ErrValidation, in.MinLevel)
		}
	}

	var categoryID sql.NullInt64
	if in.CategoryID != "" {
		id, err := strconv.ParseInt(in.CategoryID, 10, 64)
		if err != nil {
			return store.Product{}, fmt.Errorf("%w: category id %q is not a number", ErrValidation, in.CategoryID)
		}
		categoryID = sql.NullInt64{Int64: id, Valid: true}
	}

	var product store.Product
	err = s.inTx(ctx, func(q *store.Queries) error {
		product, err = q.CreateProduct(ctx, store.CreateProductParams{
			Name:       in.Name,
			Quantity:   quantity,
			MinLevel:   minLevel,
			CategoryID: categoryID,
		})
		if err != nil {
			return fmt.Errorf("creating product: %w", err)
		}
		if _, err := q.CreateLogEntry(ctx, store.CreateLogEntryParams{
			Username:    actor,
			Description: "Added: " + in.Name,
			CreatedAt:   time.Now(),
		}); err != nil {
			return fmt.Errorf("appending audit entry: %w", err)
		}
		return nil
	})
	return product, err
}

// GetProduct returns one product, translating a missing row to ErrNotFound.
func (s *InventoryService) GetProduct(ctx context.Context, id int64) (store.Product, error) {
	product, err := s.queries.GetProductByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Product{}, ErrNotFound
	}
	if err != nil {
		return store.Product{}, fmt.Errorf("getting product: %w", err)
	}
	return product, nil
}

// EditProductInput holds raw form values for EditProduct.
type EditProductInput struct {
	Name     string
	Quantity string
	MinLevel string
}

// EditProduct overwrites name, quantity and min_level of an existing product.
// Edits are not recorded in the audit log.
func (s *InventoryService) EditProduct(ctx context.Context, id int64, in EditProductInput) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}

	quantity, err := strconv.ParseFloat(in.Quantity, 64)
	if err != nil {
		return fmt.Errorf("%w: quantity %q is not a number", ErrValidation, in.Quantity)
	}
	minLevel, err := strconv.ParseFloat(in.MinLevel, 64)
	if err != nil {
		return fmt.Errorf("%w: minimum level %q is not a number", ErrValidation, in.MinLevel)
	}

	if err := s.queries.UpdateProduct(ctx, store.UpdateProductParams{
		Name:     in.Name,
		Quantity: quantity,
		MinLevel: minLevel,
		ID:       id,
	}); err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

// DeleteProduct removes a product. Deletions are not recorded in the audit
// log.
func (s *InventoryService) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.queries.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}

// CategoryGroup is a category together with its products, ordered by name.
type CategoryGroup struct {
	Category store.Category
	Products []store.Product
}

// DashboardData holds everything the dashboard view shows.
type DashboardData struct {
	Categories    []CategoryGroup
	Uncategorized []store.Product
	Log           []store.LogEntry
	TotalQuantity float64
	LowStockCount int64
}

// Dashboard recomputes the dashboard aggregates from current store state.
func (s *InventoryService) Dashboard(ctx context.Context) (DashboardData, error) {
	var data DashboardData

	categories, err := s.queries.ListCategories(ctx)
	if err != nil {
		return data, fmt.Errorf("listing categories: %w", err)
	}
	for _, category := range categories {
		products, err := s.queries.ListProductsByCategory(ctx, category.ID)
		if err != nil {
			return data, fmt.Errorf("listing products of %q: %w", category.Name, err)
		}
		data.Categories = append(data.Categories, CategoryGroup{
			Category: category,
			Products: products,
		})
	}

	if data.Uncategorized, err = s.queries.ListUncategorizedProducts(ctx); err != nil {
		return data, fmt.Errorf("listing uncategorized products: %w", err)
	}
	if data.Log, err = s.queries.ListRecentLogEntries(ctx, DashboardLogLimit); err != nil {
		return data, fmt.Errorf("listing log entries: %w", err)
	}
	if data.TotalQuantity, err = s.queries.SumProductQuantity(ctx); err != nil {
		return data, fmt.Errorf("summing quantities: %w", err)
	}
	if data.LowStockCount, err = s.queries.CountLowStockProducts(ctx); err != nil {
		return data, fmt.Errorf("counting low stock: %w", err)
	}

	return data, nil
}

// inTx runs fn inside a transaction so a mutation and its audit entry commit
// or roll back together.
func (s *InventoryService) inTx(ctx context.Context, fn func(q *store.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(s.queries.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
