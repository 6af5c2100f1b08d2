package service_test

import (
	"context"
	"errors"
	"testing"

	"raktar/internal/service"
	"raktar/internal/store"
	"raktar/internal/testutil"
)

func TestAddCategory(t *testing.T) {
	db := testutil.TestDB(t)
	svc := service.NewInventoryService(db)
	q := store.New(db)
	ctx := context.Background()

	if err := svc.AddCategory(ctx, "admin", "Pékáru"); err != nil {
		t.Fatalf("AddCategory error: %v", err)
	}

	entries, err := q.ListRecentLogEntries(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentLogEntries error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if entries[0].Description != "New group: Pékáru" || entries[0].Username != "admin" {
		t.Errorf("unexpected log entry: %+v", entries[0])
	}
}

func TestAddCategory_DuplicateIsNoOp(t *testing.T) {
	db := testutil.TestDB(t)
	svc := service.NewInventoryService(db)
	q := store.New(db)
	ctx := context.Background()

	if err := svc.AddCategory(ctx, "admin", "Italok"); err != nil {
		t.Fatalf("AddCategory error: %v", err)
	}
	if err := svc.AddCategory(ctx, "admin", "Italok"); err != nil {
		t.Fatalf("duplicate AddCategory error: %v", err)
	}

	cats, err := q.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories error: %v", err)
	}
	if len(cats) != 1 {
		t.Fatalf("got %d categories, want 1", len(cats))
	}

	// The no-op must not produce a second audit entry either
	entries, err := q.ListRecentLogEntries(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentLogEntries error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d log entries, want 1", len(entries))
	}
}

func TestAddCategory_EmptyIsNoOp(t *testing.T) {
	db := testutil.TestDB(t)
	svc := service.NewInventoryService(db)
	q := store.New(db)
	ctx := context.Background()

	if err := svc.AddCategory(ctx, "admin", ""); err != nil {
		t.Fatalf("AddCategory error: %v", err)
	}
	cats, err := q.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories error: %v", err)
	}
	if len(cats) != 0 {
		t.Errorf("empty name created a category: %+v", cats)
	}
}

func TestAddProduct(t *testing.T) {
	db := testutil.TestDB(t)
	svc := service.NewInventoryService(db)
	q := store.New(db)
	ctx := context.Background()

	if err := svc.AddCategory(ctx, "admin", "Pékáru"); err != nil {
		t.Fatalf("AddCategory error: %v", err)
	}
	cat, err := q.GetCategoryByName(ctx, "Pékáru")
	if err != nil {
		t.Fatalf("GetCategoryByName error: %v", err)
	}

	p, err := svc.AddProduct(ctx, "admin", service.AddProductInput{
		Name:       "Liszt",
		Quantity:   "0.5",
		MinLevel:   "1",
		CategoryID: "1",
	})
	if err != nil {
		t.Fatalf("AddProduct error: %v", err)
	}
	if p.CategoryID.Int64 != cat.ID {
		t.Errorf("CategoryID = %v, want %d", p.CategoryID, cat.ID)
	}
	if !p.IsLow() {
		t.Error("0.5 of 1 minimum not reported low")
	}

	entries, err := q.ListRecentLogEntries(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentLogEntries error: %v", err)
	}
	if entries[0].Description != "Added: Liszt" {
		t.Errorf("newest entry = %+v", entries[0])
	}
}

func TestAddProduct_Defaults(t *testing.T) {
	db := testutil.TestDB(t)
	svc := service.NewInventoryService(db)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, "admin", service.AddProductInput{
		Name:     "Só",
		Quantity: "2",
	})
	if err != nil {
		t.Fatalf("AddProduct error: %v", err)
	}
	if p.MinLevel != 1.0 {
		t.Errorf("MinLevel = %v, want 1.0", p.MinLevel)
	}
	if p.CategoryID.Valid {
		t.Error("blank category stored as a real category")
	}
}

func TestAddProduct_InvalidQuantity(t *testing.T) {
	db := testutil.TestDB(t)
	svc := service.NewInventoryService(db)
	q := store.New(db)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, "admin", service.AddProductInput{
		Name:     "Bad",
		Quantity: "sok",
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	// Nothing written: no product, no audit entry
	products, err := q.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts error: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("failed add created products: %+v", products)
	}
	entries, err := q.ListRecentLogEntries(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentLogEntries error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("failed add wrote audit entries: %+v", entries)
	}
}

func TestAddProduct_NegativeQuantityAccepted(t *testing.T) {
	db := testutil.TestDB(t)
	svc := service.NewInventoryService(db)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, "admin", service.AddProductInput{
		Name:     "Hiány",
		Quantity: "-2",
	})
	if err != nil {
		t.Fatalf("AddProduct error: %v", err)
	}
	if p.Quantity != -2 {
		t.Errorf("Quantity = %v, want -2", p.Quantity)
	}
}

func TestEditProduct(t *testing.T) {
	db := testutil.TestDB(t)
	svc := service.NewInventoryService(db)
	q := store.New(db)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, "admin", service.AddProductInput{
		Name:     "Liszt",
		Quantity: "0.5",
	})
	if err != nil {
		t.Fatalf("AddProduct error: %v", err)
	}
	logBefore, _ := q.ListRecentLogEntries(ctx, 10)

	if err := svc.EditProduct(ctx, p.ID, service.EditProductInput{
		Name:     "Finomliszt",
		Quantity: "4",
		MinLevel: "2",
	}); err != nil {
		t.Fatalf("EditProduct error: %v", err)
	}

	got, err := svc.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProduct error: %v", err)
	}
	if got.Name != "Finomliszt" || got.Quantity != 4 || got.MinLevel != 2 {
		t.Errorf("after edit: %+v", got)
	}

	// Edits do not appear in the audit log
	logAfter, _ := q.ListRecentLogEntries(ctx, 10)
	if len(logAfter) != len(logBefore) {
		t.Errorf("edit changed audit log length: %d -> %d", len(logBefore), len(logAfter))
	}
}

func TestEditProduct_NotFound(t *testing.T) {
	db := testutil.TestDB(t)
	svc := service.NewInventoryService(db)

	err := svc.EditProduct(context.Background(), 999, service.EditProductInput{
		Name: "x", Quantity: "1", MinLevel: "1",
	})
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEditProduct_InvalidQuantity(t *testing.T) {
	db := testutil.TestDB(t)
	svc := service.NewInventoryService(db)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, "admin", service.AddProductInput{
		Name:     "Liszt",
		Quantity: "1",
	})
	if err != nil {
		t.Fatalf("AddProduct error: %v", err)
	}

	err = svc.EditProduct(ctx, p.ID, service.EditProductInput{
		Name: "Liszt", Quantity: "abc", MinLevel: "1",
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	db := testutil.TestDB(t)
	svc := service.NewInventoryService(db)
	q := store.New(db)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, "admin", service.AddProductInput{
		Name:     "Liszt",
		Quantity: "1",
	})
	if err != nil {
		t.Fatalf("AddProduct error: %v", err)
	}
	logBefore, _ := q.ListRecentLogEntries(ctx, 10)

	if err := svc.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProduct error: %v", err)
	}
	if _, err := svc.GetProduct(ctx, p.ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.DeleteProduct(ctx, p.ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}

	// Deletions do not appear in the audit log
	logAfter, _ := q.ListRecentLogEntries(ctx, 10)
	if len(logAfter) != len(logBefore) {
		t.Errorf("delete changed audit log length: %d -> %d", len(logBefore), len(logAfter))
	}
}

func TestDashboard(t *testing.T) {
	db := testutil.TestDB(t)
	svc := service.NewInventoryService(db)
	ctx := context.Background()

	if err := svc.AddCategory(ctx, "admin", "Pékáru"); err != nil {
		t.Fatalf("AddCategory error: %v", err)
	}

	add := func(name, qty, min, cat string) {
		t.Helper()
		if _, err := svc.AddProduct(ctx, "admin", service.AddProductInput{
			Name: name, Quantity: qty, MinLevel: min, CategoryID: cat,
		}); err != nil {
			t.Fatalf("AddProduct(%s) error: %v", name, err)
		}
	}
	add("Liszt", "0.5", "1", "1")
	add("Cukor", "3", "3", "1")
	add("Olaj", "10", "2", "")

	data, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard error: %v", err)
	}

	// Total is the sum over every product regardless of grouping
	if data.TotalQuantity != 13.5 {
		t.Errorf("TotalQuantity = %v, want 13.5", data.TotalQuantity)
	}
	// Quantity equal to the minimum counts as low
	if data.LowStockCount != 2 {
		t.Errorf("LowStockCount = %d, want 2", data.LowStockCount)
	}

	if len(data.Categories) != 1 {
		t.Fatalf("got %d category groups, want 1", len(data.Categories))
	}
	group := data.Categories[0]
	if group.Category.Name != "Pékáru" || len(group.Products) != 2 {
		t.Errorf("unexpected group: %+v", group)
	}
	if len(data.Uncategorized) != 1 || data.Uncategorized[0].Name != "Olaj" {
		t.Errorf("unexpected uncategorized: %+v", data.Uncategorized)
	}

	// 1 category + 3 products = 4 audit entries, newest first
	if len(data.Log) != 4 {
		t.Fatalf("got %d log entries, want 4", len(data.Log))
	}
	if data.Log[0].Description != "Added: Olaj" {
		t.Errorf("newest log entry = %+v", data.Log[0])
	}
}

func TestDashboard_LogCappedAtTen(t *testing.T) {
	db := testutil.TestDB(t)
	svc := service.NewInventoryService(db)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		if _, err := svc.AddProduct(ctx, "admin", service.AddProductInput{
			Name:     "Termék",
			Quantity: "1",
		}); err != nil {
			t.Fatalf("AddProduct error: %v", err)
		}
	}

	data, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard error: %v", err)
	}
	if len(data.Log) != service.DashboardLogLimit {
		t.Errorf("got %d log entries, want %d", len(data.Log), service.DashboardLogLimit)
	}
}
