// Copyright (c) 2026 The raktar authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// Category groups products. Categories are created by admins and never
// deleted through the application.
type Category struct {
	ID   int64
	Name string
}

// Product is a stock item. A NULL CategoryID means the product is
// uncategorized.
type Product struct {
	ID         int64
	Name       string
	Quantity   float64
	MinLevel   float64
	CategoryID sql.NullInt64
}

// IsLow reports whether the product counts as low stock.
func (p Product) IsLow() bool {
	return p.Quantity <= p.MinLevel
}

// LogEntry is an append-only audit record of a mutation.
type LogEntry struct {
	ID          int64
	Username    string
	Description string
	CreatedAt   time.Time
}

// User is an account that can log in.
type User struct {
	ID           int64
	Username     string
	PasswordHash string `json:"-"` // Never expose in JSON
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  sql.NullTime
}

// IsAdmin returns true if the user has admin role.
func (u User) IsAdmin() bool {
	return u.Role == "admin"
}

// Event is a system event log record, separate from the audit log shown on
// the dashboard.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	IpAddress string
	Metadata  string // JSON string
	CreatedAt time.Time
}
