// Package web holds the HTML templates and static assets compiled into the
// binary for release builds.
package web

import "embed"

// EmbeddedFS contains templates/ and static/.
//
//go:embed templates static
var EmbeddedFS embed.FS
