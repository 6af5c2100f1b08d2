// Copyright (c) 2026 The raktar authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the application's routes.
// Route paths are kept identical to the original deployment for
// compatibility with existing bookmarks and forms.
package handler

// Route paths.
const (
	RouteRoot   = "/"
	RouteLogin  = "/login"
	RouteLogout = "/logout"
	RouteExport = "/export"

	RouteAddCategory    = "/kategoria_hozzaadas"
	RouteAddProduct     = "/hozzaadas"
	RouteEditProduct    = "/szerkesztes/{id}"
	RouteDeleteProduct  = "/torles/{id}"
	RouteUsers          = "/felhasznalok"
	RouteChangePassword = "/jelszo_modositas/{id}"
	RouteDeleteUser     = "/felhasznalo_torles/{id}"
)

// HeaderContentType is the Content-Type header name.
const HeaderContentType = "Content-Type"
