// Package web holds the browser client served by the HTTP server.
package web

import "embed"

//go:embed templates static
var Files embed.FS
