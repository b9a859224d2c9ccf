package docfmt

import (
	"io/fs"

	"github.com/goliatone/go-docfmt/pkg/preset"
	"github.com/goliatone/go-docfmt/pkg/renderers/preview"
	"github.com/goliatone/go-docfmt/pkg/style"
)

// EmbeddedTemplates exposes the built-in HTML preview templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return preview.TemplatesFS()
}

// EmbeddedPresets exposes the bundled institution presets.
func EmbeddedPresets() fs.FS {
	return preset.EmbeddedFS()
}

// DefaultCatalog returns a fresh copy of the system default styles.
func DefaultCatalog() Catalog {
	return style.DefaultCatalog()
}
