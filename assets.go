// Package posconsole embeds the console's templates and static files.
package posconsole

import "embed"

// In dev mode templates and static files are read from disk so edits show
// up on reload; otherwise these embedded copies are served.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
