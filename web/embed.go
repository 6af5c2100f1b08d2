// Copyright (c) 2026 The raktar authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the HTML templates.
package web

import "embed"

// Templates contains the HTML templates.
//
//go:embed templates
var Templates embed.FS
