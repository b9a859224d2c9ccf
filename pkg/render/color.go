package render

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/goliatone/go-docfmt/pkg/style"
)

// RGB is an 8-bit colour triple.
type RGB struct {
	R, G, B uint8
}

var (
	Black = RGB{}
	// WarningColor marks placeholder hooks.
	WarningColor = RGB{R: 0xFF}
)

// ParseColor maps "RRGGBB" (leading '#' allowed) to RGB. Anything else,
// including the empty string, yields Black. It never fails.
func ParseColor(hex string) RGB {
	trimmed := strings.TrimLeft(strings.TrimSpace(hex), "#")
	if !isHex6(trimmed) {
		return Black
	}
	c, err := colorful.Hex("#" + trimmed)
	if err != nil {
		return Black
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}
}

func isHex6(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// ColorOf resolves an optional style colour.
func ColorOf(s style.FontStyle) RGB {
	if s.Color == nil {
		return Black
	}
	return ParseColor(*s.Color)
}

// Hex formats the colour as upper-case RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}
