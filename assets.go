// Package farmlytic embeds the web shell's templates and static assets.
package farmlytic

import "embed"

// In dev mode (DEV=true) both are read from disk instead.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
