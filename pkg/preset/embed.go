package preset

import (
	"embed"
	"io/fs"
)

//go:embed presets/*
var embeddedPresets embed.FS

// EmbeddedFS returns the bundled presets.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedPresets, "presets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Embedded returns a store over the bundled presets.
func Embedded(opts ...Option) *FSStore {
	opts = append([]Option{WithName("embedded")}, opts...)
	return NewFSStore(EmbeddedFS(), opts...)
}
