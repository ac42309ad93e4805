package ebiten3d

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/solarlune/armature"
)

// Wireframe is an armature.Renderer that draws the edges of every triangle of each Drawable onto an ebiten.Image, as seen
// through an armature.Camera.
type Wireframe struct {
	Screen      *ebiten.Image
	Camera      *armature.Camera
	Color       color.Color // Color to draw lines with; if nil, each line takes the color of its first vertex.
	StrokeWidth float32     // Width of lines in pixels. Defaults to 1.

	DrawnTriangles int // Number of triangles drawn since the last call to Reset.
	TotalTriangles int // Number of triangles submitted since the last call to Reset.
}

// NewWireframe creates a new Wireframe renderer drawing to the screen given through the camera given.
func NewWireframe(screen *ebiten.Image, camera *armature.Camera) *Wireframe {
	return &Wireframe{
		Screen:      screen,
		Camera:      camera,
		StrokeWidth: 1,
	}
}

// Reset clears the Wireframe's triangle counts; call it once at the start of each frame.
func (wf *Wireframe) Reset() {
	wf.DrawnTriangles = 0
	wf.TotalTriangles = 0
}

// Draw draws the Drawable with the world transform given.
func (wf *Wireframe) Draw(drawable *armature.Drawable, world armature.Matrix4) {

	project := wf.Camera.Projector(world)

	strokeWidth := wf.StrokeWidth
	if strokeWidth <= 0 {
		strokeWidth = 1
	}

	drawable.ForEachTriangle(armature.NewMatrix4(), func(triIndex int, a, b, c armature.Vector3) {

		wf.TotalTriangles++

		x0, y0, ok0 := project(a)
		x1, y1, ok1 := project(b)
		x2, y2, ok2 := project(c)

		// Triangles that reach behind the eye aren't clipped, just skipped.
		if !ok0 || !ok1 || !ok2 {
			return
		}

		if !wf.onScreen(x0, y0, x1, y1, x2, y2) {
			return
		}

		clr := wf.Color
		if clr == nil {
			clr = drawable.VertexColor(triIndex * 3).ToRGBA()
		}

		vector.StrokeLine(wf.Screen, x0, y0, x1, y1, strokeWidth, clr, true)
		vector.StrokeLine(wf.Screen, x1, y1, x2, y2, strokeWidth, clr, true)
		vector.StrokeLine(wf.Screen, x2, y2, x0, y0, strokeWidth, clr, true)

		wf.DrawnTriangles++

	})

}

// onScreen returns false when a projected triangle lies wholly off one side of the Camera's viewport. The viewport is the
// Camera's size, as that's what points are projected into, whatever the size of the Screen.
func (wf *Wireframe) onScreen(x0, y0, x1, y1, x2, y2 float32) bool {

	w := float32(wf.Camera.Width)
	h := float32(wf.Camera.Height)

	return !((x0 < 0 && x1 < 0 && x2 < 0) ||
		(y0 < 0 && y1 < 0 && y2 < 0) ||
		(x0 > w && x1 > w && x2 > w) ||
		(y0 > h && y1 > h && y2 > h))

}
