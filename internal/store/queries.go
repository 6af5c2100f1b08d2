// Copyright (c) 2026 The raktar authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by Queries.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries wraps a database handle or transaction with typed query methods.
type Queries struct {
	db DBTX
}

// New creates a Queries instance over the given handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries instance bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// ---- categories ----

// CreateCategory inserts a category and returns the created row.
func (q *Queries) CreateCategory(ctx context.Context, name string) (Category, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES (?) RETURNING id, name`, name)
	var c Category
	err := row.Scan(&c.ID, &c.Name)
	return c, err
}

// GetCategoryByName returns the category with the given name, or
// sql.ErrNoRows.
func (q *Queries) GetCategoryByName(ctx context.Context, name string) (Category, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE name = ?`, name)
	var c Category
	err := row.Scan(&c.ID, &c.Name)
	return c, err
}

// ListCategories returns all categories ordered by name.
func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ---- products ----

// CreateProductParams holds the fields for CreateProduct.
type CreateProductParams struct {
	Name       string
	Quantity   float64
	MinLevel   float64
	CategoryID sql.NullInt64
}

// CreateProduct inserts a product and returns the created row.
func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO products (name, quantity, min_level, category_id)
		 VALUES (?, ?, ?, ?)
		 RETURNING id, name, quantity, min_level, category_id`,
		arg.Name, arg.Quantity, arg.MinLevel, arg.CategoryID)
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.MinLevel, &p.CategoryID)
	return p, err
}

// GetProductByID returns the product with the given id, or sql.ErrNoRows.
func (q *Queries) GetProductByID(ctx context.Context, id int64) (Product, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, name, quantity, min_level, category_id FROM products WHERE id = ?`, id)
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.MinLevel, &p.CategoryID)
	return p, err
}

// UpdateProductParams holds the fields for UpdateProduct.
type UpdateProductParams struct {
	Name     string
	Quantity float64
	MinLevel float64
	ID       int64
}

// UpdateProduct overwrites name, quantity and min_level of a product.
// The category assignment is left untouched.
func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE products SET name = ?, quantity = ?, min_level = ? WHERE id = ?`,
		arg.Name, arg.Quantity, arg.MinLevel, arg.ID)
	return err
}

// DeleteProduct removes a product row.
func (q *Queries) DeleteProduct(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	return err
}

// ListProducts returns all products in storage order.
func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	return q.listProducts(ctx,
		`SELECT id, name, quantity, min_level, category_id FROM products`)
}

// ListProductsByCategory returns the products of one category ordered by name.
func (q *Queries) ListProductsByCategory(ctx context.Context, categoryID int64) ([]Product, error) {
	return q.listProducts(ctx,
		`SELECT id, name, quantity, min_level, category_id FROM products
		 WHERE category_id = ? ORDER BY name ASC`, categoryID)
}

// ListUncategorizedProducts returns products without a category ordered by name.
func (q *Queries) ListUncategorizedProducts(ctx context.Context) ([]Product, error) {
	return q.listProducts(ctx,
		`SELECT id, name, quantity, min_level, category_id FROM products
		 WHERE category_id IS NULL ORDER BY name ASC`)
}

func (q *Queries) listProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Quantity, &p.MinLevel, &p.CategoryID); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// SumProductQuantity returns the sum of all product quantities, 0 when there
// are no products.
func (q *Queries) SumProductQuantity(ctx context.Context) (float64, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM products`)
	var total float64
	err := row.Scan(&total)
	return total, err
}

// CountLowStockProducts counts products with quantity at or below min_level.
func (q *Queries) CountLowStockProducts(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE quantity <= min_level`)
	var count int64
	err := row.Scan(&count)
	return count, err
}

// ---- log entries ----

// CreateLogEntryParams holds the fields for CreateLogEntry.
type CreateLogEntryParams struct {
	Username    string
	Description string
	CreatedAt   time.Time
}

// CreateLogEntry appends an audit log entry. Entries are never updated or
// deleted.
func (q *Queries) CreateLogEntry(ctx context.Context, arg CreateLogEntryParams) (LogEntry, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO log_entries (username, description, created_at)
		 VALUES (?, ?, ?)
		 RETURNING id, username, description, created_at`,
		arg.Username, arg.Description, arg.CreatedAt)
	var e LogEntry
	err := row.Scan(&e.ID, &e.Username, &e.Description, &e.CreatedAt)
	return e, err
}

// ListRecentLogEntries returns the latest audit entries, newest first.
func (q *Queries) ListRecentLogEntries(ctx context.Context, limit int64) ([]LogEntry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, username, description, created_at FROM log_entries
		 ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ---- users ----

// CreateUserParams holds the fields for CreateUser.
type CreateUserParams struct {
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a user and returns the created row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id, username, password_hash, role, created_at, updated_at, last_login_at`,
		arg.Username, arg.PasswordHash, arg.Role, arg.CreatedAt, arg.UpdatedAt)
	return scanUser(row)
}

// GetUserByID returns the user with the given id, or sql.ErrNoRows.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created_at, updated_at, last_login_at
		 FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByUsername returns the user with the given username (exact match),
// or sql.ErrNoRows.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created_at, updated_at, last_login_at
		 FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// ListUsers returns all users ordered by id.
func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, username, password_hash, role, created_at, updated_at, last_login_at
		 FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role,
			&u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserPasswordParams holds the fields for UpdateUserPassword.
type UpdateUserPasswordParams struct {
	PasswordHash string
	UpdatedAt    time.Time
	ID           int64
}

// UpdateUserPassword overwrites a user's password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}

// UpdateUserLastLoginParams holds the fields for UpdateUserLastLogin.
type UpdateUserLastLoginParams struct {
	LastLoginAt sql.NullTime
	ID          int64
}

// UpdateUserLastLogin records the time of the latest successful login.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, arg UpdateUserLastLoginParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, arg.LastLoginAt, arg.ID)
	return err
}

// DeleteUser removes a user row.
func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}

// CountUsers returns the number of user rows.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`)
	var count int64
	err := row.Scan(&count)
	return count, err
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role,
		&u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	return u, err
}

// ---- events ----

// CreateEventParams holds the fields for CreateEvent.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	IpAddress string
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent inserts a system event log record.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO events (level, category, message, user_id, ip_address, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING id, level, category, message, user_id, ip_address, metadata, created_at`,
		arg.Level, arg.Category, arg.Message, arg.UserID, arg.IpAddress, arg.Metadata, arg.CreatedAt)
	var e Event
	err := row.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID,
		&e.IpAddress, &e.Metadata, &e.CreatedAt)
	return e, err
}
