// ebiten3d draws armature trees with Ebitengine: a wireframe Renderer, a keyboard input source that feeds an EventQueue,
// and a heads-up display for the current selection and camera.
package ebiten3d

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/solarlune/armature"
	"github.com/solarlune/armature/colors"
)

// DrawAxes draws the world X, Y and Z axes from the origin, each length units long, in red, green and blue.
func DrawAxes(screen *ebiten.Image, camera *armature.Camera, length float32) {

	project := camera.Projector(armature.NewMatrix4())

	ox, oy, ok := project(armature.Vector3{})
	if !ok {
		return
	}

	axes := []struct {
		dir   armature.Vector3
		color armature.Color
	}{
		{armature.WorldRight, colors.Red()},
		{armature.WorldUp, colors.Green()},
		{armature.WorldBackward, colors.Blue()},
	}

	for _, axis := range axes {
		x, y, ok := project(axis.dir.Scale(length))
		if !ok {
			continue
		}
		vector.StrokeLine(screen, ox, oy, x, y, 1, axis.color.ToRGBA(), true)
	}

}

// DrawOrigin draws a small filled circle at the world position of a Node's origin.
func DrawOrigin(screen *ebiten.Image, camera *armature.Camera, world armature.Matrix4, radius float32, clr color.Color) {
	x, y, ok := camera.Project(armature.Vector3{}, world)
	if !ok {
		return
	}
	vector.DrawFilledCircle(screen, x, y, radius, clr, true)
}
