package common

import (
	"github.com/chewxy/math32"
)

// SphereMesh builds a UV sphere centered at the origin. Normals point outward,
// tangents follow the longitude direction, and triangles wind counter-clockwise
// when viewed from outside so the mesh renders correctly with back-face culling.
//
// Parameters:
//   - name: the asset identifier for the mesh
//   - radius: the sphere radius in world units
//   - rings: latitude subdivisions (clamped to a minimum of 2)
//   - segments: longitude subdivisions (clamped to a minimum of 3)
//
// Returns:
//   - MeshData: the generated mesh, ready for registration
func SphereMesh(name string, radius float32, rings, segments int) MeshData {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}

	vertices := make([]Vertex, 0, (rings+1)*(segments+1))
	indices := make([]uint32, 0, rings*segments*6)

	for r := 0; r <= rings; r++ {
		phi := math32.Pi * float32(r) / float32(rings) // 0 (top) to pi (bottom)
		y := math32.Cos(phi) * radius
		ringRadius := math32.Sin(phi) * radius

		for s := 0; s <= segments; s++ {
			theta := 2 * math32.Pi * float32(s) / float32(segments)
			x := ringRadius * math32.Cos(theta)
			z := ringRadius * math32.Sin(theta)

			// Normal is the normalized position for a sphere at the origin.
			nx := math32.Sin(phi) * math32.Cos(theta)
			ny := math32.Cos(phi)
			nz := math32.Sin(phi) * math32.Sin(theta)

			// Tangent along the longitude direction (+theta).
			tx := -math32.Sin(theta)
			tz := math32.Cos(theta)

			vertices = append(vertices, Vertex{
				Position: [3]float32{x, y, z},
				Normal:   [3]float32{nx, ny, nz},
				Tangent:  [4]float32{tx, 0, tz, 1},
				UV: [2]float32{
					float32(s) / float32(segments),
					float32(r) / float32(rings),
				},
			})
		}
	}

	stride := segments + 1
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r*stride + s)
			b := uint32(r*stride + s + 1)
			c := uint32((r+1)*stride + s)
			d := uint32((r+1)*stride + s + 1)

			indices = append(indices, a, c, b)
			indices = append(indices, b, c, d)
		}
	}

	return MeshData{Name: name, Vertices: vertices, Indices: indices}
}

// PlaneMesh builds a flat quad in the XZ plane facing +Y, centered at the
// origin. UVs tile uvTiles times across each axis so a repeating texture keeps
// its texel density on large floors.
//
// Parameters:
//   - name: the asset identifier for the mesh
//   - halfExtent: half the side length in world units
//   - uvTiles: how many times the texture repeats across the full side
//
// Returns:
//   - MeshData: the generated mesh, ready for registration
func PlaneMesh(name string, halfExtent, uvTiles float32) MeshData {
	if uvTiles <= 0 {
		uvTiles = 1
	}
	h := halfExtent

	vertices := []Vertex{
		{Position: [3]float32{-h, 0, -h}, Normal: [3]float32{0, 1, 0}, Tangent: [4]float32{1, 0, 0, 1}, UV: [2]float32{0, 0}},
		{Position: [3]float32{h, 0, -h}, Normal: [3]float32{0, 1, 0}, Tangent: [4]float32{1, 0, 0, 1}, UV: [2]float32{uvTiles, 0}},
		{Position: [3]float32{h, 0, h}, Normal: [3]float32{0, 1, 0}, Tangent: [4]float32{1, 0, 0, 1}, UV: [2]float32{uvTiles, uvTiles}},
		{Position: [3]float32{-h, 0, h}, Normal: [3]float32{0, 1, 0}, Tangent: [4]float32{1, 0, 0, 1}, UV: [2]float32{0, uvTiles}},
	}

	// CCW when viewed from above.
	indices := []uint32{0, 2, 1, 0, 3, 2}

	return MeshData{Name: name, Vertices: vertices, Indices: indices}
}

// CubeMesh builds a closed axis-aligned cube centered at the origin with four
// vertices per face so each face carries flat normals and its own UV square.
//
// Parameters:
//   - name: the asset identifier for the mesh
//   - halfExtent: half the edge length in world units
//
// Returns:
//   - MeshData: the generated mesh (24 vertices, 36 indices)
func CubeMesh(name string, halfExtent float32) MeshData {
	h := halfExtent

	v := func(px, py, pz, nx, ny, nz, u, vt, tx, ty, tz float32) Vertex {
		return Vertex{
			Position: [3]float32{px, py, pz},
			Normal:   [3]float32{nx, ny, nz},
			Tangent:  [4]float32{tx, ty, tz, 1},
			UV:       [2]float32{u, vt},
		}
	}

	vertices := []Vertex{
		// Top face (+Y), tangent +X
		v(-h, h, -h, 0, 1, 0, 0, 0, 1, 0, 0),
		v(h, h, -h, 0, 1, 0, 1, 0, 1, 0, 0),
		v(h, h, h, 0, 1, 0, 1, 1, 1, 0, 0),
		v(-h, h, h, 0, 1, 0, 0, 1, 1, 0, 0),

		// Bottom face (-Y), tangent +X
		v(-h, -h, h, 0, -1, 0, 0, 0, 1, 0, 0),
		v(h, -h, h, 0, -1, 0, 1, 0, 1, 0, 0),
		v(h, -h, -h, 0, -1, 0, 1, 1, 1, 0, 0),
		v(-h, -h, -h, 0, -1, 0, 0, 1, 1, 0, 0),

		// Front face (+Z), tangent +X
		v(-h, -h, h, 0, 0, 1, 0, 0, 1, 0, 0),
		v(h, -h, h, 0, 0, 1, 1, 0, 1, 0, 0),
		v(h, h, h, 0, 0, 1, 1, 1, 1, 0, 0),
		v(-h, h, h, 0, 0, 1, 0, 1, 1, 0, 0),

		// Back face (-Z), tangent -X
		v(h, -h, -h, 0, 0, -1, 0, 0, -1, 0, 0),
		v(-h, -h, -h, 0, 0, -1, 1, 0, -1, 0, 0),
		v(-h, h, -h, 0, 0, -1, 1, 1, -1, 0, 0),
		v(h, h, -h, 0, 0, -1, 0, 1, -1, 0, 0),

		// Right face (+X), tangent +Z
		v(h, -h, h, 1, 0, 0, 0, 0, 0, 0, 1),
		v(h, -h, -h, 1, 0, 0, 1, 0, 0, 0, 1),
		v(h, h, -h, 1, 0, 0, 1, 1, 0, 0, 1),
		v(h, h, h, 1, 0, 0, 0, 1, 0, 0, 1),

		// Left face (-X), tangent -Z
		v(-h, -h, -h, -1, 0, 0, 0, 0, 0, 0, -1),
		v(-h, -h, h, -1, 0, 0, 1, 0, 0, 0, -1),
		v(-h, h, h, -1, 0, 0, 1, 1, 0, 0, -1),
		v(-h, h, -h, -1, 0, 0, 0, 1, 0, 0, -1),
	}

	// CCW winding for each face when viewed from outside the cube.
	indices := []uint32{
		0, 2, 1, 0, 3, 2, // top
		4, 6, 5, 4, 7, 6, // bottom
		8, 10, 9, 8, 11, 10, // front
		12, 14, 13, 12, 15, 14, // back
		16, 18, 17, 16, 19, 18, // right
		20, 22, 21, 20, 23, 22, // left
	}

	return MeshData{Name: name, Vertices: vertices, Indices: indices}
}

// CheckerImage builds staging data for a square checkerboard texture.
//
// Parameters:
//   - size: texture side length in pixels
//   - cell: checker cell side length in pixels (clamped to a minimum of 1)
//   - a: RGBA color of the cell at the origin
//   - b: RGBA color of the alternate cells
//
// Returns:
//   - TextureStagingData: the filled staging data
func CheckerImage(size, cell uint32, a, b [4]byte) TextureStagingData {
	if cell == 0 {
		cell = 1
	}
	pixels := make([]byte, size*size*4)
	for y := uint32(0); y < size; y++ {
		for x := uint32(0); x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			i := (y*size + x) * 4
			pixels[i+0] = c[0]
			pixels[i+1] = c[1]
			pixels[i+2] = c[2]
			pixels[i+3] = c[3]
		}
	}
	return TextureStagingData{Pixels: pixels, Width: size, Height: size}
}

// VerticalGradientImage builds staging data for a vertical color gradient,
// interpolating linearly from top at row 0 to bottom at the last row. Useful as
// a cheap procedural sky for image-based ambient lighting.
//
// Parameters:
//   - width, height: texture dimensions in pixels
//   - top: RGBA color of the first row
//   - bottom: RGBA color of the last row
//
// Returns:
//   - TextureStagingData: the filled staging data
func VerticalGradientImage(width, height uint32, top, bottom [4]byte) TextureStagingData {
	pixels := make([]byte, width*height*4)
	for y := uint32(0); y < height; y++ {
		t := float32(0)
		if height > 1 {
			t = float32(y) / float32(height-1)
		}
		var row [4]byte
		for i := 0; i < 4; i++ {
			row[i] = byte(float32(top[i]) + (float32(bottom[i])-float32(top[i]))*t)
		}
		for x := uint32(0); x < width; x++ {
			i := (y*width + x) * 4
			pixels[i+0] = row[0]
			pixels[i+1] = row[1]
			pixels[i+2] = row[2]
			pixels[i+3] = row[3]
		}
	}
	return TextureStagingData{Pixels: pixels, Width: width, Height: height}
}
