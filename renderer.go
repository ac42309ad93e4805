package armature

// Renderer draws a Drawable with the world transform given. Render calls Draw once per Node per frame, parents before children.
type Renderer interface {
	Draw(drawable *Drawable, world Matrix4)
}

// RenderFunc adapts an ordinary function into a Renderer.
type RenderFunc func(drawable *Drawable, world Matrix4)

func (f RenderFunc) Draw(drawable *Drawable, world Matrix4) {
	f(drawable, world)
}

// DrawCall is one recorded call to a Renderer.
type DrawCall struct {
	Drawable *Drawable
	World    Matrix4
}

// DrawList is a Renderer that records every draw call, in order, rather than drawing anything. It's used for headless runs
// and for testing.
type DrawList struct {
	Calls []DrawCall
}

func (dl *DrawList) Draw(drawable *Drawable, world Matrix4) {
	dl.Calls = append(dl.Calls, DrawCall{Drawable: drawable, World: world})
}

// Clear empties the DrawList, keeping its allocated capacity.
func (dl *DrawList) Clear() {
	dl.Calls = dl.Calls[:0]
}

// Len returns the number of recorded draw calls.
func (dl *DrawList) Len() int {
	return len(dl.Calls)
}

// MultiRenderer forwards every draw call to each of the Renderers it contains, in order.
type MultiRenderer []Renderer

func (mr MultiRenderer) Draw(drawable *Drawable, world Matrix4) {
	for _, r := range mr {
		if r != nil {
			r.Draw(drawable, world)
		}
	}
}
