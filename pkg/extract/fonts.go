package extract

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed fonts.yaml
var fontsYAML []byte

// FontTable maps typesetting names to font names and point sizes.
type FontTable struct {
	Families []FamilyName `yaml:"families"`
	Sizes    []SizeName   `yaml:"sizes"`
}

type FamilyName struct {
	Name string `yaml:"name"`
	Font string `yaml:"font"`
}

type SizeName struct {
	Name   string  `yaml:"name"`
	Points float64 `yaml:"points"`
}

// ParseFontTable decodes a YAML font table.
func ParseFontTable(data []byte) (*FontTable, error) {
	var table FontTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("extract: parse font table: %w", err)
	}
	return &table, nil
}

// DefaultFontTable returns the bundled table.
func DefaultFontTable() *FontTable {
	table, err := ParseFontTable(fontsYAML)
	if err != nil {
		panic(err)
	}
	return table
}

// Family maps a typesetting name (宋体) to its font name (SimSun).
func (t *FontTable) Family(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	for _, f := range t.Families {
		if f.Name == trimmed {
			return f.Font, true
		}
	}
	return "", false
}

// Size maps a size name (小四) to points (12).
func (t *FontTable) Size(name string) (float64, bool) {
	trimmed := strings.TrimSpace(name)
	for _, s := range t.Sizes {
		if s.Name == trimmed {
			return s.Points, true
		}
	}
	return 0, false
}

// PromptTable renders the table as prompt context lines.
func (t *FontTable) PromptTable() string {
	var b strings.Builder
	b.WriteString("Font names:\n")
	for _, f := range t.Families {
		fmt.Fprintf(&b, "- %s -> %s\n", f.Name, f.Font)
	}
	b.WriteString("Font sizes (points):\n")
	for _, s := range t.Sizes {
		fmt.Fprintf(&b, "- %s -> %s\n", s.Name, strconv.FormatFloat(s.Points, 'f', -1, 64))
	}
	return b.String()
}
