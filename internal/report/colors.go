package report

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var (
	colorRed  = color.RGBA{R: 255, A: 255}
	colorBlue = color.RGBA{B: 255, A: 255}
)

// plotColors is cycled when a job names fewer colors than it has series.
var plotColors = []color.Color{
	colorRed,
	colorBlue,
	color.RGBA{G: 128, A: 255},         // Green
	color.RGBA{R: 255, G: 165, A: 255}, // Orange
	color.RGBA{R: 128, B: 128, A: 255}, // Purple
	color.RGBA{G: 128, B: 128, A: 255}, // Teal
}

var namedColors = map[string]color.Color{
	"red":    colorRed,
	"blue":   colorBlue,
	"green":  plotColors[2],
	"orange": plotColors[3],
	"purple": plotColors[4],
	"teal":   plotColors[5],
	"black":  color.Black,
	"gray":   color.Gray{Y: 128},
}

// ParseColor accepts a color name (red, blue, ...) or a #rrggbb hex string.
func ParseColor(s string) (color.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[name]; ok {
		return c, nil
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		v, err := strconv.ParseUint(name[1:], 16, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid hex color %q: %v", s, err)
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return nil, fmt.Errorf("unknown color: %s", s)
}

// ParseColors parses every entry of names.
func ParseColors(names []string) ([]color.Color, error) {
	colors := make([]color.Color, 0, len(names))
	for _, n := range names {
		c, err := ParseColor(n)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, nil
}

// colorAt picks the i-th configured color, falling back to the default palette.
func colorAt(colors []color.Color, i int) color.Color {
	if i < len(colors) && colors[i] != nil {
		return colors[i]
	}
	return plotColors[i%len(plotColors)]
}
