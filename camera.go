package armature

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/solarlune/armature/math32"
)

const (
	DefaultWidth  = 512
	DefaultHeight = 512

	// CameraRotationStep is how many degrees a camera Command rotates the Camera by.
	CameraRotationStep = 1.0
)

// Camera orbits the world origin. Its eye and up vectors are rotated by the Camera's rotation angles, and it always looks at
// the origin. The projection is either a perspective frustum or an orthographic box.
type Camera struct {
	Rotation    Vector3 // Rotation angles in degrees about the X, Y, and Z axes.
	Eye         Vector3 // Eye position before rotation. Defaults to {0, 0, 2}.
	Up          Vector3 // Up vector before rotation. Defaults to {0, 1, 0}.
	Perspective bool    // Whether the Camera uses a perspective projection (true) or an orthographic one (false).

	Width, Height int // Size of the screen in pixels, used by Project.
}

// NewCamera creates a new Camera for a screen of the width and height given, looking at the origin from {0, 0, 2},
// with an orthographic projection.
func NewCamera(w, h int) *Camera {
	return &Camera{
		Eye:    NewVector3(0, 0, 2),
		Up:     WorldUp,
		Width:  w,
		Height: h,
	}
}

// Rotate rotates the Camera about the axis given by the number of degrees given.
func (camera *Camera) Rotate(axis Axis, degrees float64) {
	switch axis {
	case AxisX:
		camera.Rotation.X += float32(degrees)
	case AxisY:
		camera.Rotation.Y += float32(degrees)
	case AxisZ:
		camera.Rotation.Z += float32(degrees)
	}
}

// TogglePerspective switches the Camera between perspective and orthographic projection.
func (camera *Camera) TogglePerspective() {
	camera.Perspective = !camera.Perspective
}

// rotation returns the Camera's orientation; the Z rotation is applied first, then Y, then X.
func (camera *Camera) rotation() Matrix4 {
	rot := NewMatrix4RotateAxis(AxisZ, float64(camera.Rotation.Z))
	rot = rot.Mult(NewMatrix4RotateAxis(AxisY, float64(camera.Rotation.Y)))
	return rot.Mult(NewMatrix4RotateAxis(AxisX, float64(camera.Rotation.X)))
}

// EyePosition returns the Camera's eye position after rotation.
func (camera *Camera) EyePosition() Vector3 {
	return camera.rotation().MultVec(camera.Eye)
}

// View returns the Camera's view matrix.
func (camera *Camera) View() Matrix4 {

	rot := camera.rotation()
	eye := rot.MultVec(camera.Eye)
	up := rot.MultVec(camera.Up)

	return Matrix4FromMgl(mgl32.LookAtV(
		mgl32.Vec3(eye.Floats()),
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3(up.Floats()),
	))

}

// Projection returns the Camera's projection matrix.
func (camera *Camera) Projection() Matrix4 {
	if camera.Perspective {
		return Matrix4FromMgl(mgl32.Frustum(-1, 1, -1, 1, 1, 5))
	}
	return Matrix4FromMgl(mgl32.Ortho(-2, 2, -2, 2, -5, 5))
}

// ViewProjection returns the view matrix combined with the projection matrix (the view is applied first).
func (camera *Camera) ViewProjection() Matrix4 {
	return camera.View().Mult(camera.Projection())
}

// Project transforms a point in a model's local space by the model's world transform and the Camera's view and projection,
// returning the point's position on screen in pixels. ok is false if the point is behind the eye, in which case x and y are
// meaningless.
func (camera *Camera) Project(point Vector3, world Matrix4) (x, y float32, ok bool) {
	return camera.project(point, world.Mult(camera.ViewProjection()))
}

func (camera *Camera) project(point Vector3, mvp Matrix4) (x, y float32, ok bool) {

	clip := mvp.MultVecW(point)

	if clip.W <= 1e-6 || math32.IsNaN(clip.W) {
		return 0, 0, false
	}

	ndcX := clip.X / clip.W
	ndcY := clip.Y / clip.W

	w := float32(camera.Width)
	h := float32(camera.Height)

	return (ndcX + 1) / 2 * w, (1 - ndcY) / 2 * h, true

}

// Projector returns a function that projects points of a model with the given world transform to the screen, like Project does,
// but with the combined matrix calculated just once.
func (camera *Camera) Projector(world Matrix4) func(point Vector3) (x, y float32, ok bool) {
	mvp := world.Mult(camera.ViewProjection())
	return func(point Vector3) (float32, float32, bool) {
		return camera.project(point, mvp)
	}
}
