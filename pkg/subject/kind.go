package subject

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind selects the payload a Subject carries. It is fixed by the Init call.
type Kind uint8

const (
	// KindInvalid is the zero value: the subject was never initialized.
	KindInvalid Kind = iota
	KindNone
	KindInt
	KindFloat
	KindString
	KindPointer
	KindColor
	KindGroup
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNone:
		return "none"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindPointer:
		return "pointer"
	case KindColor:
		return "color"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Color is a 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Black is the default color returned on mismatched reads.
var Black = Color{}

// RGB builds a color from its components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Equal compares two colors component-wise.
func (c Color) Equal(other Color) bool {
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// ParseColor parses #rrggbb (the leading # is optional).
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Black, fmt.Errorf("subject: invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Black, fmt.Errorf("subject: invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
