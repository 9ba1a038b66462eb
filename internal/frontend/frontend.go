// Package frontend renders the gateway's embedded portal pages.
package frontend

import (
	"embed"
	"html/template"
)

//go:embed assets/*.html.tmpl
var assets embed.FS

// NewTemplates loads the embedded page templates.
func NewTemplates() (*template.Template, error) {
	return template.ParseFS(assets, "assets/*.html.tmpl")
}
