package common

import (
	"unsafe"

	"github.com/chewxy/math32"
)

// Matrices are flat slices of 16 float32 values in column-major order, the
// WebGPU and OpenGL convention. Element (row, col) lives at index col*4+row.

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	clear(m)
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 multiplies two 4x4 matrices: out = a * b. Each output column is a
// linear combination of the columns of a weighted by a column of b. out may
// alias a or b.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for c := range 4 {
		base := c * 4
		bx, by, bz, bw := b[base], b[base+1], b[base+2], b[base+3]
		for r := range 4 {
			buf[base+r] = a[r]*bx + a[4+r]*by + a[8+r]*bz + a[12+r]*bw
		}
	}
	copy(out, buf[:])
}

// Perspective fills out with a perspective projection matrix mapping depth to
// the WebGPU [0, 1] clip range.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	focal := 1 / math32.Tan(fovY/2)
	depth := far / (near - far)

	Identity(out)
	out[0] = focal / aspect
	out[5] = focal
	out[10] = depth
	out[11] = -1
	out[14] = near * depth
	out[15] = 0
}

// LookAt fills out with a view matrix for a camera at eye looking toward
// center. The matrix maps world coordinates into view space.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eyeX, eyeY, eyeZ: camera position in world space
//   - centerX, centerY, centerZ: target point the camera looks at
//   - upX, upY, upZ: up vector defining camera orientation (typically 0,1,0)
func LookAt(out []float32, eyeX, eyeY, eyeZ, centerX, centerY, centerZ, upX, upY, upZ float32) {
	eye := [3]float32{eyeX, eyeY, eyeZ}
	back := normalize3([3]float32{eyeX - centerX, eyeY - centerY, eyeZ - centerZ})
	right := normalize3(cross3([3]float32{upX, upY, upZ}, back))
	up := cross3(back, right)

	out[0], out[1], out[2], out[3] = right[0], up[0], back[0], 0
	out[4], out[5], out[6], out[7] = right[1], up[1], back[1], 0
	out[8], out[9], out[10], out[11] = right[2], up[2], back[2], 0
	out[12] = -dot3(right, eye)
	out[13] = -dot3(up, eye)
	out[14] = -dot3(back, eye)
	out[15] = 1
}

// BuildModelMatrix composes translation, Euler rotation, and scale into a 4x4
// model matrix. Rotation applies as yaw, pitch, roll: R = Ry * Rx * Rz.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - posX, posY, posZ: translation in world space
//   - rotX, rotY, rotZ: rotation angles in radians around each axis
//   - scaleX, scaleY, scaleZ: scale factors along each axis
func BuildModelMatrix(out []float32, posX, posY, posZ, rotX, rotY, rotZ, scaleX, scaleY, scaleZ float32) {
	sx, cx := math32.Sin(rotX), math32.Cos(rotX)
	sy, cy := math32.Sin(rotY), math32.Cos(rotY)
	sz, cz := math32.Sin(rotZ), math32.Cos(rotZ)

	out[0], out[1], out[2], out[3] = (cy*cz+sy*sx*sz)*scaleX, cx*sz*scaleX, (cy*sx*sz-sy*cz)*scaleX, 0
	out[4], out[5], out[6], out[7] = (sy*sx*cz-cy*sz)*scaleY, cx*cz*scaleY, (sy*sz+cy*sx*cz)*scaleY, 0
	out[8], out[9], out[10], out[11] = sy*cx*scaleZ, -sx*scaleZ, cy*cx*scaleZ, 0
	out[12], out[13], out[14], out[15] = posX, posY, posZ, 1
}

// Invert4 computes the inverse of a 4x4 matrix by the adjugate method,
// building the twelve 2x2 sub-determinants of the upper and lower halves
// first. If the matrix is singular the output is left unchanged and the
// function returns false. out may alias m.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, column-major)
//
// Returns:
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert4(out, m []float32) bool {
	u0 := m[0]*m[5] - m[4]*m[1]
	u1 := m[0]*m[6] - m[4]*m[2]
	u2 := m[0]*m[7] - m[4]*m[3]
	u3 := m[1]*m[6] - m[5]*m[2]
	u4 := m[1]*m[7] - m[5]*m[3]
	u5 := m[2]*m[7] - m[6]*m[3]

	l0 := m[8]*m[13] - m[12]*m[9]
	l1 := m[8]*m[14] - m[12]*m[10]
	l2 := m[8]*m[15] - m[12]*m[11]
	l3 := m[9]*m[14] - m[13]*m[10]
	l4 := m[9]*m[15] - m[13]*m[11]
	l5 := m[10]*m[15] - m[14]*m[11]

	det := u0*l5 - u1*l4 + u2*l3 + u3*l2 - u4*l1 + u5*l0
	if det == 0 {
		return false
	}

	adj := [16]float32{
		m[5]*l5 - m[6]*l4 + m[7]*l3,
		-m[1]*l5 + m[2]*l4 - m[3]*l3,
		m[13]*u5 - m[14]*u4 + m[15]*u3,
		-m[9]*u5 + m[10]*u4 - m[11]*u3,

		-m[4]*l5 + m[6]*l2 - m[7]*l1,
		m[0]*l5 - m[2]*l2 + m[3]*l1,
		-m[12]*u5 + m[14]*u2 - m[15]*u1,
		m[8]*u5 - m[10]*u2 + m[11]*u1,

		m[4]*l4 - m[5]*l2 + m[7]*l0,
		-m[0]*l4 + m[1]*l2 - m[3]*l0,
		m[12]*u4 - m[13]*u2 + m[15]*u0,
		-m[8]*u4 + m[9]*u2 - m[11]*u0,

		-m[4]*l3 + m[5]*l1 - m[6]*l0,
		m[0]*l3 - m[1]*l1 + m[2]*l0,
		-m[12]*u3 + m[13]*u1 - m[14]*u0,
		m[8]*u3 - m[9]*u1 + m[10]*u0,
	}

	invDet := 1 / det
	for i, v := range adj {
		out[i] = v * invDet
	}
	return true
}

// TransformPoint applies a 4x4 column-major matrix to a 3D point (w = 1).
//
// Parameters:
//   - m: the transform matrix (16 elements, column-major)
//   - x, y, z: the point to transform
//
// Returns:
//   - [3]float32: the transformed point
func TransformPoint(m []float32, x, y, z float32) [3]float32 {
	return [3]float32{
		m[0]*x + m[4]*y + m[8]*z + m[12],
		m[1]*x + m[5]*y + m[9]*z + m[13],
		m[2]*x + m[6]*y + m[10]*z + m[14],
	}
}

// MaxScale returns the largest axis scale factor encoded in the upper-left 3x3
// of a column-major transform. Used to grow bounding radii under scaling.
//
// Parameters:
//   - m: the transform matrix (16 elements, column-major)
//
// Returns:
//   - float32: the largest column length of the 3x3 block
func MaxScale(m []float32) float32 {
	sx := math32.Sqrt(m[0]*m[0] + m[1]*m[1] + m[2]*m[2])
	sy := math32.Sqrt(m[4]*m[4] + m[5]*m[5] + m[6]*m[6])
	sz := math32.Sqrt(m[8]*m[8] + m[9]*m[9] + m[10]*m[10])
	return math32.Max(sx, math32.Max(sy, sz))
}

// BoundingSphere computes a local-space bounding sphere for a vertex array.
// The center is the midpoint of the axis-aligned bounding box; the radius is
// the largest distance from that center to any vertex position.
//
// Parameters:
//   - vertices: the vertex array to bound
//
// Returns:
//   - [4]float32: center (x, y, z) and radius (w); zero for an empty input
func BoundingSphere(vertices []Vertex) [4]float32 {
	if len(vertices) == 0 {
		return [4]float32{}
	}

	minP := vertices[0].Position
	maxP := vertices[0].Position
	for _, v := range vertices[1:] {
		for i := range 3 {
			minP[i] = math32.Min(minP[i], v.Position[i])
			maxP[i] = math32.Max(maxP[i], v.Position[i])
		}
	}

	center := [3]float32{
		(minP[0] + maxP[0]) * 0.5,
		(minP[1] + maxP[1]) * 0.5,
		(minP[2] + maxP[2]) * 0.5,
	}

	var radiusSq float32
	for _, v := range vertices {
		dx := v.Position[0] - center[0]
		dy := v.Position[1] - center[1]
		dz := v.Position[2] - center[2]
		radiusSq = math32.Max(radiusSq, dx*dx+dy*dy+dz*dz)
	}

	return [4]float32{center[0], center[1], center[2], math32.Sqrt(radiusSq)}
}

// SliceToBytes reinterprets a slice's backing array as raw bytes for GPU
// buffer uploads. The view shares memory with the input, so the input must
// stay alive and unmodified while the bytes are in use.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte view of the slice data, or nil if the input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	n := len(data) * int(unsafe.Sizeof(data[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(data))), n)
}

func dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// normalize3 scales v to unit length, leaving the zero vector unchanged.
func normalize3(v [3]float32) [3]float32 {
	lenSq := dot3(v, v)
	if lenSq == 0 {
		return v
	}
	inv := 1 / math32.Sqrt(lenSq)
	return [3]float32{v[0] * inv, v[1] * inv, v[2] * inv}
}
