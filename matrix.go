package armature

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/solarlune/armature/math32"
)

// Matrix4 represents a 4x4 matrix for translation and rotation. A Matrix4 in armature is row-major (i.e. the X axis is matrix[0]),
// and vectors are treated as rows multiplied on the left (v' = v × M). This means transforms read left-to-right in the order they
// are applied: a.Mult(b) applies a first, then b.
type Matrix4 [4][4]float32

// NewMatrix4 returns a new identity Matrix4.
func NewMatrix4() Matrix4 {

	mat := Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	return mat

}

// NewMatrix4Translate returns a new identity Matrix4, but with the x, y, and z translation components set as provided.
func NewMatrix4Translate(x, y, z float32) Matrix4 {
	mat := NewMatrix4()
	mat[3][0] = x
	mat[3][1] = y
	mat[3][2] = z
	return mat
}

// NewMatrix4Rotate returns a new Matrix4 designed to rotate by the angle given (in radians) along the axis given [x, y, z].
// This rotation works as though you pierced the object utilizing the matrix through by the axis, and then rotated it
// counter-clockwise by the angle in radians.
func NewMatrix4Rotate(x, y, z, angle float32) Matrix4 {

	// Default to spinning on +Y axis if there is no valid axis
	if x == 0 && y == 0 && z == 0 {
		y = 1
	}

	mat := NewMatrix4()
	vector := Vector3{X: x, Y: y, Z: z}.Unit()
	s, c := math32.Sincos(angle)
	m := 1 - c

	mat[0][0] = m*vector.X*vector.X + c
	mat[0][1] = m*vector.X*vector.Y + vector.Z*s
	mat[0][2] = m*vector.Z*vector.X - vector.Y*s

	mat[1][0] = m*vector.X*vector.Y - vector.Z*s
	mat[1][1] = m*vector.Y*vector.Y + c
	mat[1][2] = m*vector.Y*vector.Z + vector.X*s

	mat[2][0] = m*vector.Z*vector.X + vector.Y*s
	mat[2][1] = m*vector.Y*vector.Z - vector.X*s
	mat[2][2] = m*vector.Z*vector.Z + c

	return mat

}

// NewMatrix4RotateAxis returns a rotation Matrix4 for one of the three principal axes. The angle is in degrees, and is reduced
// modulo 360 before being converted, so arbitrarily large accumulated angles produce the same matrix as their wrapped equivalent.
func NewMatrix4RotateAxis(axis Axis, degrees float64) Matrix4 {

	radians := math32.ToRadians(float32(wrapDegrees(degrees)))

	switch axis {
	case AxisX:
		return NewMatrix4Rotate(1, 0, 0, radians)
	case AxisZ:
		return NewMatrix4Rotate(0, 0, 1, radians)
	default:
		return NewMatrix4Rotate(0, 1, 0, radians)
	}

}

// Inverted returns an inverted version of the Matrix4. A singular matrix gives the zero matrix.
func (matrix Matrix4) Inverted() Matrix4 {
	return Matrix4FromMgl(matrix.Mgl().Inv())
}

// Row returns the indiced row from the Matrix4 as a Vector4.
func (matrix Matrix4) Row(rowIndex int) Vector4 {
	return Vector4{
		X: matrix[rowIndex][0],
		Y: matrix[rowIndex][1],
		Z: matrix[rowIndex][2],
		W: matrix[rowIndex][3],
	}
}

// Position returns the translation component of the Matrix4 (its fourth row). For a world transform, this is where the local origin ends up.
func (matrix Matrix4) Position() Vector3 {
	return matrix.Row(3).Vector3()
}

// MultVec multiplies the vector provided by the Matrix4, giving a vector that has been rotated or translated as desired.
func (matrix Matrix4) MultVec(vect Vector3) Vector3 {

	return Vector3{
		X: matrix[0][0]*vect.X + matrix[1][0]*vect.Y + matrix[2][0]*vect.Z + matrix[3][0],
		Y: matrix[0][1]*vect.X + matrix[1][1]*vect.Y + matrix[2][1]*vect.Z + matrix[3][1],
		Z: matrix[0][2]*vect.X + matrix[1][2]*vect.Y + matrix[2][2]*vect.Z + matrix[3][2],
	}

}

// MultVecW multiplies the vector provided by the Matrix4, including the fourth (W) component, giving a homogeneous vector
// (this is what a projection needs, as the perspective divide happens afterwards).
func (matrix Matrix4) MultVecW(vect Vector3) Vector4 {

	return Vector4{
		X: matrix[0][0]*vect.X + matrix[1][0]*vect.Y + matrix[2][0]*vect.Z + matrix[3][0],
		Y: matrix[0][1]*vect.X + matrix[1][1]*vect.Y + matrix[2][1]*vect.Z + matrix[3][1],
		Z: matrix[0][2]*vect.X + matrix[1][2]*vect.Y + matrix[2][2]*vect.Z + matrix[3][2],
		W: matrix[0][3]*vect.X + matrix[1][3]*vect.Y + matrix[2][3]*vect.Z + matrix[3][3],
	}

}

// Mult multiplies a Matrix4 by another provided Matrix4 - this effectively combines them, with the calling Matrix4's
// transformation applied first.
func (matrix Matrix4) Mult(other Matrix4) Matrix4 {

	newMat := NewMatrix4()

	newMat[0][0] = matrix[0][0]*other[0][0] + matrix[0][1]*other[1][0] + matrix[0][2]*other[2][0] + matrix[0][3]*other[3][0]
	newMat[1][0] = matrix[1][0]*other[0][0] + matrix[1][1]*other[1][0] + matrix[1][2]*other[2][0] + matrix[1][3]*other[3][0]
	newMat[2][0] = matrix[2][0]*other[0][0] + matrix[2][1]*other[1][0] + matrix[2][2]*other[2][0] + matrix[2][3]*other[3][0]
	newMat[3][0] = matrix[3][0]*other[0][0] + matrix[3][1]*other[1][0] + matrix[3][2]*other[2][0] + matrix[3][3]*other[3][0]

	newMat[0][1] = matrix[0][0]*other[0][1] + matrix[0][1]*other[1][1] + matrix[0][2]*other[2][1] + matrix[0][3]*other[3][1]
	newMat[1][1] = matrix[1][0]*other[0][1] + matrix[1][1]*other[1][1] + matrix[1][2]*other[2][1] + matrix[1][3]*other[3][1]
	newMat[2][1] = matrix[2][0]*other[0][1] + matrix[2][1]*other[1][1] + matrix[2][2]*other[2][1] + matrix[2][3]*other[3][1]
	newMat[3][1] = matrix[3][0]*other[0][1] + matrix[3][1]*other[1][1] + matrix[3][2]*other[2][1] + matrix[3][3]*other[3][1]

	newMat[0][2] = matrix[0][0]*other[0][2] + matrix[0][1]*other[1][2] + matrix[0][2]*other[2][2] + matrix[0][3]*other[3][2]
	newMat[1][2] = matrix[1][0]*other[0][2] + matrix[1][1]*other[1][2] + matrix[1][2]*other[2][2] + matrix[1][3]*other[3][2]
	newMat[2][2] = matrix[2][0]*other[0][2] + matrix[2][1]*other[1][2] + matrix[2][2]*other[2][2] + matrix[2][3]*other[3][2]
	newMat[3][2] = matrix[3][0]*other[0][2] + matrix[3][1]*other[1][2] + matrix[3][2]*other[2][2] + matrix[3][3]*other[3][2]

	newMat[0][3] = matrix[0][0]*other[0][3] + matrix[0][1]*other[1][3] + matrix[0][2]*other[2][3] + matrix[0][3]*other[3][3]
	newMat[1][3] = matrix[1][0]*other[0][3] + matrix[1][1]*other[1][3] + matrix[1][2]*other[2][3] + matrix[1][3]*other[3][3]
	newMat[2][3] = matrix[2][0]*other[0][3] + matrix[2][1]*other[1][3] + matrix[2][2]*other[2][3] + matrix[2][3]*other[3][3]
	newMat[3][3] = matrix[3][0]*other[0][3] + matrix[3][1]*other[1][3] + matrix[3][2]*other[2][3] + matrix[3][3]*other[3][3]

	return newMat

}

// Compose returns the world transform of a node given its parent's world transform and its own local transform.
// In the row-vector convention armature uses, this is local × parent: the local transform is applied first, then the parent's.
// Written with column vectors this is the familiar parent · local.
func Compose(parentWorld, local Matrix4) Matrix4 {
	return local.Mult(parentWorld)
}

// Equals returns true if the matrix equals the same values in the provided Other Matrix4 (within 0.0001).
func (matrix Matrix4) Equals(other Matrix4) bool {
	return matrix.EqualsWithin(other, 0.0001)
}

// EqualsWithin returns true if every element of the Matrix4 is within epsilon of the corresponding element of other.
func (matrix Matrix4) EqualsWithin(other Matrix4, epsilon float32) bool {
	for i := 0; i < len(matrix); i++ {
		for j := 0; j < len(matrix[i]); j++ {
			if math32.Abs(matrix[i][j]-other[i][j]) > epsilon {
				return false
			}
		}
	}
	return true
}

var identityMatrix = NewMatrix4()

// IsIdentity returns true if the matrix is an unmodified identity matrix.
func (matrix Matrix4) IsIdentity() bool {
	return matrix.Equals(identityMatrix)
}

// Matrix4FromMgl converts a mathgl matrix (column-major storage, column vectors) into a Matrix4 (row-major storage, row vectors).
// The two conventions are transposes of each other, and transposing swaps the storage order, so the 16 floats carry over as-is.
func Matrix4FromMgl(m mgl32.Mat4) Matrix4 {
	out := Matrix4{}
	for i := 0; i < 16; i++ {
		out[i/4][i%4] = m[i]
	}
	return out
}

// Mgl converts the Matrix4 into a mathgl matrix; this is the inverse of Matrix4FromMgl.
func (matrix Matrix4) Mgl() mgl32.Mat4 {
	out := mgl32.Mat4{}
	for i := 0; i < 16; i++ {
		out[i] = matrix[i/4][i%4]
	}
	return out
}

func (matrix Matrix4) String() string {
	s := "{"
	for i, y := range matrix {
		for _, x := range y {
			s += strconv.FormatFloat(float64(x), 'f', -1, 32) + ", "
		}
		if i < len(matrix)-1 {
			s += "\n"
		}
	}
	s += "}"
	return s
}
