// Package template wraps pongo2 behind the small engine the renderers use for
// placeholder labels and HTML previews.
package template
