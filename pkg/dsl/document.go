// Package dsl holds the document description handed from the style cascade
// to the renderers: metadata, one resolved catalog and an ordered sequence
// of content blocks.
package dsl

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-docfmt/pkg/style"
)

// Well-known metadata keys.
const (
	MetaTaskID      = "task_id"
	MetaInstitution = "school_conf"
	MetaRenderer    = "renderer"
	MetaTitle       = "title"
)

// Document is immutable once built. Accessors return copies.
type Document struct {
	meta   map[string]string
	styles style.Catalog
	blocks []ContentBlock
}

// New builds a document. Blocks without an id receive a random UUID;
// duplicate ids are rejected. Inputs are copied.
func New(meta map[string]string, styles style.Catalog, blocks []ContentBlock) (Document, error) {
	doc := Document{
		meta:   make(map[string]string, len(meta)),
		styles: styles.Clone(),
		blocks: make([]ContentBlock, 0, len(blocks)),
	}
	for k, v := range meta {
		doc.meta[k] = v
	}

	seen := make(map[string]int, len(blocks))
	for i, block := range blocks {
		b := block.clone()
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		if b.Type == "" {
			b.Type = BodyText
		}
		if prev, dup := seen[b.ID]; dup {
			return Document{}, fmt.Errorf("dsl: duplicate block id %q at positions %d and %d", b.ID, prev, i)
		}
		seen[b.ID] = i
		doc.blocks = append(doc.blocks, b)
	}
	return doc, nil
}

// Meta returns a copy of the metadata.
func (d Document) Meta() map[string]string {
	out := make(map[string]string, len(d.meta))
	for k, v := range d.meta {
		out[k] = v
	}
	return out
}

// MetaValue returns a single metadata entry.
func (d Document) MetaValue(key string) string {
	return d.meta[key]
}

// Styles returns a copy of the resolved catalog.
func (d Document) Styles() style.Catalog {
	return d.styles.Clone()
}

// Blocks returns a copy of the block sequence.
func (d Document) Blocks() []ContentBlock {
	out := make([]ContentBlock, len(d.blocks))
	for i, b := range d.blocks {
		out[i] = b.clone()
	}
	return out
}

// Len reports the number of blocks.
func (d Document) Len() int { return len(d.blocks) }

type wireDocument struct {
	Meta          map[string]string `json:"meta"`
	StyleConfig   style.Catalog     `json:"style_config"`
	ContentBlocks []ContentBlock    `json:"content_blocks"`
}

func (d Document) MarshalJSON() ([]byte, error) {
	blocks := d.blocks
	if blocks == nil {
		blocks = []ContentBlock{}
	}
	meta := d.meta
	if meta == nil {
		meta = map[string]string{}
	}
	return json.Marshal(wireDocument{Meta: meta, StyleConfig: d.styles, ContentBlocks: blocks})
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("dsl: decode document: %w", err)
	}
	doc, err := New(wire.Meta, wire.StyleConfig, wire.ContentBlocks)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}
