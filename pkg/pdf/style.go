package pdf

import (
	"strconv"
	"strings"
)

// Points per centimetre.
const CM = 72.0 / 2.54

// Font identifies a core font face at a given size in points.
type Font struct {
	Family string
	Style  string // "", "B", "I" or "BI"
	Size   float64
}

// Bold returns the bold variant of f.
func (f Font) Bold() Font {
	f.Style = "B"
	return f
}

// WithSize returns f at size s.
func (f Font) WithSize(s float64) Font {
	f.Size = s
	return f
}

// Helvetica returns the regular Helvetica face at size s.
func Helvetica(s float64) Font {
	return Font{Family: "Helvetica", Size: s}
}

// Color represents an RGB color
type Color struct {
	R int
	G int
	B int
}

var (
	Black = Color{0, 0, 0}
	Red   = Color{255, 0, 0}
)

// Hex parses "#rrggbb" (the leading # is optional). Malformed input yields black.
func Hex(s string) Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Black
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Black
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
}
