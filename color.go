package overlay

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// RGBA2 creates a color from RGBA components.
func RGBA2(r, g, b, a float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: a}
}

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA".
func Hex(hex string) RGBA {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint32
	a = 255

	switch len(hex) {
	case 3: // RGB
		r, g, b = hexNibble(hex[0]), hexNibble(hex[1]), hexNibble(hex[2])
		r, g, b = r*17, g*17, b*17
	case 4: // RGBA
		r, g, b, a = hexNibble(hex[0]), hexNibble(hex[1]), hexNibble(hex[2]), hexNibble(hex[3])
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6: // RRGGBB
		r = hexNibble(hex[0])<<4 | hexNibble(hex[1])
		g = hexNibble(hex[2])<<4 | hexNibble(hex[3])
		b = hexNibble(hex[4])<<4 | hexNibble(hex[5])
	case 8: // RRGGBBAA
		r = hexNibble(hex[0])<<4 | hexNibble(hex[1])
		g = hexNibble(hex[2])<<4 | hexNibble(hex[3])
		b = hexNibble(hex[4])<<4 | hexNibble(hex[5])
		a = hexNibble(hex[6])<<4 | hexNibble(hex[7])
	default:
		return RGBA{R: 0, G: 0, B: 0, A: 1}
	}

	return RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}
}

// hexNibble decodes a single hex digit. Characters outside [0-9a-fA-F]
// decode as 0.
func hexNibble[C byte | rune](c C) uint32 {
	switch {
	case '0' <= c && c <= '9':
		return uint32(c - '0')
	case 'a' <= c && c <= 'f':
		return uint32(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return uint32(c-'A') + 10
	default:
		return 0
	}
}

// withEscape returns c with its RGB channels replaced by the three hex
// digits of a "^RGB" color escape. Each digit d expands to the 8-bit
// channel d*16+d. Alpha is kept.
func (c RGBA) withEscape(r, g, b rune) RGBA {
	expand := func(d rune) float64 {
		n := hexNibble(d)
		return float64(n*16+n) / 255
	}
	return RGBA{R: expand(r), G: expand(g), B: expand(b), A: c.A}
}

// vec4 converts the color to the float32 layout used in instance records.
func (c RGBA) vec4() Vec4 {
	return Vec4{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Yellow      = RGB(1, 1, 0)
	Cyan        = RGB(0, 1, 1)
	Magenta     = RGB(1, 0, 1)
	Gray        = RGB(0.5, 0.5, 0.5)
	Transparent = RGBA2(0, 0, 0, 0)
)
