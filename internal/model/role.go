// Copyright (c) 2026 The raktar authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain constants shared across the application:
// user roles and system event classification.
package model

// User roles. Roles form a closed set validated at user creation; anything
// else is rejected rather than stored.
const (
	RoleAdmin = "admin"
	RoleGuest = "guest"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []string{RoleAdmin, RoleGuest}

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if role == r {
			return true
		}
	}
	return false
}
