package armature

import (
	"strconv"

	"github.com/solarlune/armature/math32"
)

// WorldRight represents a unit vector in the global direction of WorldRight on the right-handed OpenGL coordinate system (+X).
var WorldRight = NewVector3(1, 0, 0)

// WorldUp represents a unit vector in the global direction of WorldUp on the right-handed OpenGL coordinate system (+Y).
var WorldUp = NewVector3(0, 1, 0)

// WorldBackward represents a unit vector in the global direction of WorldBackward on the right-handed OpenGL coordinate system (+Z, towards the viewer).
var WorldBackward = NewVector3(0, 0, 1)

// Vector3 represents a 3D Vector, which is used for positions, offsets, and rotation angles.
// Any Vector3 functions that modify the calling Vector3 return copies of the modified Vector3, meaning you can do method-chaining easily.
type Vector3 struct {
	X float32 // The X (1st) component of the Vector
	Y float32 // The Y (2nd) component of the Vector
	Z float32 // The Z (3rd) component of the Vector
}

// NewVector3 creates a new Vector3 with the specified x, y, and z components.
func NewVector3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns a copy of the calling vector, added together with the other Vector3 provided.
func (vec Vector3) Add(other Vector3) Vector3 {
	vec.X += other.X
	vec.Y += other.Y
	vec.Z += other.Z
	return vec
}

// Sub returns a copy of the calling Vector3, with the other Vector3 subtracted from it.
func (vec Vector3) Sub(other Vector3) Vector3 {
	vec.X -= other.X
	vec.Y -= other.Y
	vec.Z -= other.Z
	return vec
}

// Scale returns a copy of the Vector3 with each component multiplied by the scalar given.
func (vec Vector3) Scale(scalar float32) Vector3 {
	vec.X *= scalar
	vec.Y *= scalar
	vec.Z *= scalar
	return vec
}

// Cross returns a new Vector3, indicating the cross product of the calling Vector3 and the provided Other Vector3.
func (vec Vector3) Cross(other Vector3) Vector3 {

	ogVecY := vec.Y
	ogVecZ := vec.Z

	vec.Z = vec.X*other.Y - other.X*vec.Y
	vec.Y = ogVecZ*other.X - other.Z*vec.X
	vec.X = ogVecY*other.Z - other.Y*ogVecZ

	return vec

}

// Invert returns a copy of the Vector3 with all components negated.
func (vec Vector3) Invert() Vector3 {
	vec.X = -vec.X
	vec.Y = -vec.Y
	vec.Z = -vec.Z
	return vec
}

// Magnitude returns the length of the Vector3.
func (vec Vector3) Magnitude() float32 {
	return math32.Sqrt(vec.X*vec.X + vec.Y*vec.Y + vec.Z*vec.Z)
}

// Distance returns the distance from the calling Vector3 to the other Vector3 provided.
func (vec Vector3) Distance(other Vector3) float32 {
	return vec.Sub(other).Magnitude()
}

// Unit returns a copy of the Vector3, normalized (set to be of unit length).
func (vec Vector3) Unit() Vector3 {
	l := vec.Magnitude()
	if l < 1e-8 {
		// If it's 0, then don't modify the vector
		return vec
	}
	vec.X, vec.Y, vec.Z = vec.X/l, vec.Y/l, vec.Z/l
	return vec
}

// Equals returns true if the two Vector3s are close enough in all values (within 0.0001).
func (vec Vector3) Equals(other Vector3) bool {

	eps := float32(0.0001)

	return math32.Abs(vec.X-other.X) <= eps &&
		math32.Abs(vec.Y-other.Y) <= eps &&
		math32.Abs(vec.Z-other.Z) <= eps

}

// Floats returns the Vector3 as an array of three float32s.
func (vec Vector3) Floats() [3]float32 {
	return [3]float32{vec.X, vec.Y, vec.Z}
}

// String returns a string representation of the Vector3, with each component truncated to the first 3 decimals.
func (vec Vector3) String() string {
	return "{" + strconv.FormatFloat(float64(vec.X), 'f', 3, 32) +
		", " + strconv.FormatFloat(float64(vec.Y), 'f', 3, 32) +
		", " + strconv.FormatFloat(float64(vec.Z), 'f', 3, 32) + "}"
}

// Vector4 represents a 4D vector, used for rows of a Matrix4 and for homogeneous (clip-space) coordinates.
type Vector4 struct {
	X, Y, Z, W float32
}

// Vector3 returns the X, Y, and Z components of the Vector4 as a Vector3.
func (vec Vector4) Vector3() Vector3 {
	return Vector3{X: vec.X, Y: vec.Y, Z: vec.Z}
}

// Magnitude returns the length of the Vector4, ignoring the W component.
func (vec Vector4) Magnitude() float32 {
	return vec.Vector3().Magnitude()
}

// Unit returns a copy of the Vector4 with its X, Y, and Z components normalized. W is left as-is.
func (vec Vector4) Unit() Vector4 {
	u := vec.Vector3().Unit()
	vec.X, vec.Y, vec.Z = u.X, u.Y, u.Z
	return vec
}
