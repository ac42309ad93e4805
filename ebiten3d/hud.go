package ebiten3d

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/solarlune/armature"
	"github.com/solarlune/armature/colors"
)

// HUDText returns the heads-up display text for a Snapshot: the selected Node and its angles, the camera, and the frame rate.
func HUDText(snapshot armature.Snapshot, camera *armature.Camera) string {

	builder := strings.Builder{}

	selected := snapshot.Selected
	if selected == "" {
		selected = "<root>"
	}

	builder.WriteString(fmt.Sprintf("Selected: %s\n", selected))

	if ns, ok := snapshot.Node(snapshot.Selected); ok {
		builder.WriteString(fmt.Sprintf("Angles: %.1f, %.1f, %.1f\n", ns.Angles[0], ns.Angles[1], ns.Angles[2]))
		builder.WriteString(fmt.Sprintf("Position: %s\n", ns.WorldPosition))
	}

	if camera != nil {
		projection := "orthographic"
		if camera.Perspective {
			projection = "perspective"
		}
		builder.WriteString(fmt.Sprintf("Camera: %s, %s\n", camera.Rotation, projection))
	}

	builder.WriteString(fmt.Sprintf("Frame: %d  FPS: %.1f", snapshot.Frame, ebiten.ActualFPS()))

	return builder.String()

}

// DrawHUD draws the heads-up display text for a Snapshot onto the screen at the top-left, with a dark outline so it reads
// over the wireframe.
func DrawHUD(screen *ebiten.Image, snapshot armature.Snapshot, camera *armature.Camera, clr color.Color) {
	DrawText(screen, HUDText(snapshot, camera), 8, 16, clr)
}

// DrawText draws text with basicfont's 7x13 face, outlined in black. x and y give the position of the first line's baseline.
func DrawText(screen *ebiten.Image, txt string, x, y int, clr color.Color) {

	face := basicfont.Face7x13
	shadow := colors.Black().ToRGBA()

	for oy := -1; oy < 2; oy++ {
		for ox := -1; ox < 2; ox++ {
			text.Draw(screen, txt, face, x+ox, y+oy, shadow)
		}
	}

	text.Draw(screen, txt, face, x, y, clr)

}
