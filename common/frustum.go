package common

import (
	"github.com/chewxy/math32"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// ExtractFrustumFromMatrix extracts frustum planes from a combined
// View * Projection matrix using the Gribb/Hartmann method: summing or
// subtracting a matrix row with the last row yields the clip plane pair for
// that axis.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: 16 float32 values representing the view-projection matrix (column-major)
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustumFromMatrix(viewProj []float32) Frustum {
	// Row i of the column-major matrix as a clip plane coefficient vector.
	row := func(i int) [4]float32 {
		return [4]float32{viewProj[i], viewProj[4+i], viewProj[8+i], viewProj[12+i]}
	}
	last := row(3)

	var f Frustum
	for axis := range 3 {
		r := row(axis)
		// Lower bound plane (left, bottom, near), then its opposite.
		f.Planes[axis*2] = newPlane(last[0]+r[0], last[1]+r[1], last[2]+r[2], last[3]+r[3])
		f.Planes[axis*2+1] = newPlane(last[0]-r[0], last[1]-r[1], last[2]-r[2], last[3]-r[3])
	}
	return f
}

// IntersectsSphere reports whether a sphere is at least partially inside the
// frustum. Spheres that straddle a plane count as inside, so the test is
// conservative: it never rejects anything visible.
//
// Parameters:
//   - center: the sphere center in the same space the frustum was extracted in
//   - radius: the sphere radius
//
// Returns:
//   - bool: true if the sphere intersects or is contained by the frustum
func (f *Frustum) IntersectsSphere(center [3]float32, radius float32) bool {
	for i := range f.Planes {
		p := &f.Planes[i]
		if dot3(p.Normal, center)+p.Distance < -radius {
			return false
		}
	}
	return true
}

// newPlane builds a plane from raw coefficients, scaled so the normal has
// unit length. Degenerate coefficients are kept as-is.
func newPlane(a, b, c, d float32) Plane {
	p := Plane{Normal: [3]float32{a, b, c}, Distance: d}
	length := math32.Sqrt(dot3(p.Normal, p.Normal))
	if length > 0 {
		inv := 1 / length
		p.Normal[0] *= inv
		p.Normal[1] *= inv
		p.Normal[2] *= inv
		p.Distance *= inv
	}
	return p
}
