package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/samdwyer/gamebook/internal/story"
)

// Gruvbox dark palette.
var (
	Background = MustParseHexColor("#282828")
	Foreground = MustParseHexColor("#ebdbb2")
	Muted      = MustParseHexColor("#928374")
	Accent     = MustParseHexColor("#fabd2f")
	Highlight  = MustParseHexColor("#8ec07c")
	Good       = MustParseHexColor("#b8bb26")
	Bad        = MustParseHexColor("#fb4934")
	Neutral    = MustParseHexColor("#fe8019")
)

// ParseHexColor converts a hex color string ("#FF0000", "FF0000" or the short
// "#F00") to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
}

// MustParseHexColor converts a hex color string to tcell.Color, panicking on error.
func MustParseHexColor(hex string) tcell.Color {
	color, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return color
}

// EndingColor returns the color used to announce an ending of the given type.
func EndingColor(e story.EndingType) tcell.Color {
	switch e {
	case story.EndingGood:
		return Good
	case story.EndingBad:
		return Bad
	default:
		return Neutral
	}
}
