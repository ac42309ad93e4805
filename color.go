package armature

import (
	"image/color"

	"github.com/solarlune/armature/math32"
)

// A Color represents a color, containing R, G, B, and A components, each expected to range from 0 to 1.
type Color struct {
	R, G, B, A float32
}

// NewColor returns a new Color, with the provided R, G, B, and A components expected to range from 0 to 1.
func NewColor(r, g, b, a float32) Color {
	return Color{r, g, b, a}
}

// NewColorFromSlice returns a Color from a slice of 3 or 4 components. A missing alpha component defaults to 1; any other
// length returns opaque white and false.
func NewColorFromSlice(components []float32) (Color, bool) {
	switch len(components) {
	case 3:
		return NewColor(components[0], components[1], components[2], 1), true
	case 4:
		return NewColor(components[0], components[1], components[2], components[3]), true
	}
	return NewColor(1, 1, 1, 1), false
}

// Mix returns a copy of the Color mixed towards the other Color by the percentage given (0 returns the calling Color, 1 returns other).
func (c Color) Mix(other Color, percentage float32) Color {
	p := math32.Clamp(percentage, 0, 1)
	c.R += (other.R - c.R) * p
	c.G += (other.G - c.G) * p
	c.B += (other.B - c.B) * p
	c.A += (other.A - c.A) * p
	return c
}

// ToRGBA converts the Color to a standard library color.RGBA, clamping each component.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(math32.Clamp(c.R, 0, 1) * 255),
		G: uint8(math32.Clamp(c.G, 0, 1) * 255),
		B: uint8(math32.Clamp(c.B, 0, 1) * 255),
		A: uint8(math32.Clamp(c.A, 0, 1) * 255),
	}
}
