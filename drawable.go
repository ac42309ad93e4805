package armature

import (
	"fmt"

	"github.com/solarlune/armature/math32"
)

// Dimensions represents the minimum and maximum spatial extents of a Drawable's vertices.
type Dimensions struct {
	Min, Max Vector3
}

// Center returns the center point inbetween the two corners of the dimension set.
func (dim Dimensions) Center() Vector3 {
	return dim.Min.Add(dim.Max).Scale(0.5)
}

// Size returns the width, height, and depth of the Dimensions as a Vector3.
func (dim Dimensions) Size() Vector3 {
	return dim.Max.Sub(dim.Min)
}

// Drawable is an opaque, read-only geometry resource that a Node renders with its world transform. Vertices are a
// triangle list (every three vertices make up a triangle). Once created, a Drawable is never modified, so one Drawable
// may be shared freely between Nodes.
type Drawable struct {
	name       string
	vertices   []Vector3
	colors     []Color
	dimensions Dimensions
}

// NewDrawable creates a new Drawable from a triangle list of vertex positions. colors is optional; if provided, there must be
// one Color per vertex. An empty vertex list, or a vertex count that doesn't make up whole triangles, returns a ConfigurationError.
func NewDrawable(name string, vertices []Vector3, colors []Color) (*Drawable, error) {

	if len(vertices) == 0 {
		return nil, &ConfigurationError{Node: name, Reason: "drawable has no vertices"}
	}

	if len(vertices)%3 != 0 {
		return nil, &ConfigurationError{Node: name, Reason: fmt.Sprintf("drawable vertex count %d is not divisible by 3", len(vertices))}
	}

	if len(colors) > 0 && len(colors) != len(vertices) {
		return nil, &ConfigurationError{Node: name, Reason: fmt.Sprintf("drawable has %d colors for %d vertices", len(colors), len(vertices))}
	}

	drawable := &Drawable{
		name:     name,
		vertices: append(make([]Vector3, 0, len(vertices)), vertices...),
	}

	if len(colors) > 0 {
		drawable.colors = append(make([]Color, 0, len(colors)), colors...)
	}

	drawable.updateDimensions()

	return drawable, nil

}

// NewIndexedDrawable creates a new Drawable from a list of unique vertex positions and a triangle index list, which is
// expanded into a triangle list. Every vertex is tinted with the Color given.
func NewIndexedDrawable(name string, positions []Vector3, indices []int, color Color) (*Drawable, error) {

	if len(indices) == 0 {
		return nil, &ConfigurationError{Node: name, Reason: "drawable has no indices"}
	}

	vertices := make([]Vector3, 0, len(indices))
	colors := make([]Color, 0, len(indices))

	for _, index := range indices {
		if index < 0 || index >= len(positions) {
			return nil, &ConfigurationError{Node: name, Reason: fmt.Sprintf("drawable index %d is out of range of %d positions", index, len(positions))}
		}
		vertices = append(vertices, positions[index])
		colors = append(colors, color)
	}

	return NewDrawable(name, vertices, colors)

}

// Name returns the Drawable's name.
func (drawable *Drawable) Name() string {
	return drawable.name
}

// VertexCount returns the number of vertices in the Drawable.
func (drawable *Drawable) VertexCount() int {
	return len(drawable.vertices)
}

// TriangleCount returns the number of triangles in the Drawable.
func (drawable *Drawable) TriangleCount() int {
	return len(drawable.vertices) / 3
}

// Vertex returns the position of the vertex at the given index.
func (drawable *Drawable) Vertex(index int) Vector3 {
	return drawable.vertices[index]
}

// VertexColor returns the color of the vertex at the given index. Drawables created without colors are white.
func (drawable *Drawable) VertexColor(index int) Color {
	if len(drawable.colors) == 0 {
		return NewColor(1, 1, 1, 1)
	}
	return drawable.colors[index]
}

// Dimensions returns the Drawable's bounds, in its own local space.
func (drawable *Drawable) Dimensions() Dimensions {
	return drawable.dimensions
}

// ForEachTriangle calls the function given with the triangle index and the three vertex positions of each triangle in the Drawable,
// transformed by the matrix given (pass NewMatrix4() for the untransformed positions).
func (drawable *Drawable) ForEachTriangle(transform Matrix4, forEach func(triIndex int, a, b, c Vector3)) {
	for i := 0; i+2 < len(drawable.vertices); i += 3 {
		forEach(i/3,
			transform.MultVec(drawable.vertices[i]),
			transform.MultVec(drawable.vertices[i+1]),
			transform.MultVec(drawable.vertices[i+2]),
		)
	}
}

func (drawable *Drawable) valid() bool {
	return drawable != nil && len(drawable.vertices) > 0
}

func (drawable *Drawable) updateDimensions() {

	dim := Dimensions{Min: drawable.vertices[0], Max: drawable.vertices[0]}

	for _, v := range drawable.vertices[1:] {
		dim.Min.X = min(dim.Min.X, v.X)
		dim.Min.Y = min(dim.Min.Y, v.Y)
		dim.Min.Z = min(dim.Min.Z, v.Z)
		dim.Max.X = max(dim.Max.X, v.X)
		dim.Max.Y = max(dim.Max.Y, v.Y)
		dim.Max.Z = max(dim.Max.Z, v.Z)
	}

	drawable.dimensions = dim

}

func (drawable *Drawable) String() string {
	if drawable == nil {
		return "<nil drawable>"
	}
	size := drawable.dimensions.Size()
	return fmt.Sprintf("%s (%d verts, %sx%sx%s)", drawable.name, len(drawable.vertices),
		formatFloat(size.X), formatFloat(size.Y), formatFloat(size.Z))
}

func formatFloat(f float32) string {
	return fmt.Sprintf("%.2f", math32.Round(f*100)/100)
}
