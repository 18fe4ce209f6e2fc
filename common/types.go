// Package common holds the plain data types shared across the engine: mesh
// and image payloads, matrix math, and the vertex layout. Nothing here is
// interface-wrapped; these are the values that cross package boundaries.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// Vertex is the CPU-side layout of one mesh vertex: position, normal, tangent
// (xyz + handedness in w), and texture coordinates. 48 bytes, matching the
// vertex buffer layout declared by the geometry pipeline.
type Vertex struct {
	// Position is the object-space vertex position.
	Position [3]float32
	// Normal is the object-space surface normal.
	Normal [3]float32
	// Tangent is the object-space tangent; w holds the bitangent handedness (+1 or -1).
	Tangent [4]float32
	// UV is the texture coordinate pair.
	UV [2]float32
}

// Primitive identifies a sub-range of a mesh's index buffer drawn with a single material.
// A mesh with multiple materials carries one Primitive per material section.
type Primitive struct {
	// IndexOffset is the first index of this primitive within the mesh index buffer.
	IndexOffset uint32
	// IndexCount is the number of indices this primitive spans.
	IndexCount uint32
	// Material is the asset identifier of the material shading this primitive.
	Material string
}

// MeshData is the raw mesh payload handed to the resource registry by an asset
// loader. Vertices and indices are uploaded verbatim; primitives partition the
// index buffer by material.
type MeshData struct {
	// Name is the asset identifier for the mesh.
	Name string
	// Vertices is the full vertex array.
	Vertices []Vertex
	// Indices is the full uint32 index array.
	Indices []uint32
	// Primitives partitions Indices by material. When empty, the whole index
	// range is treated as a single primitive with no material override.
	Primitives []Primitive
	// MaxInstances hints how many instances of this mesh may be drawn per frame.
	// Used to size per-frame uniform arenas. Zero means one.
	MaxInstances uint32
}

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
// Pixel data is tightly packed RGBA8, 4 bytes per pixel, row-major.
type TextureStagingData struct {
	// Pixels is the raw pixel data, len must be at least Width*Height*4.
	Pixels []byte
	// Width is the texture width in pixels.
	Width uint32
	// Height is the texture height in pixels.
	Height uint32
}

// ImageData represents image bytes produced by an asset loader, either embedded
// (Data) or on disk (Path). Decode converts it to RGBA staging data.
type ImageData struct {
	// Name is an identifier for this image (e.g., "bricks_albedo").
	Name string

	// Path is the file path for external images (empty for embedded).
	Path string

	// Data contains raw image bytes for embedded images (PNG/JPEG).
	Data []byte

	// MimeType indicates the image format (e.g., "image/png", "image/jpeg").
	MimeType string

	// Width is the image width in pixels (populated after Decode).
	Width int

	// Height is the image height in pixels (populated after Decode).
	Height int
}

// Decode decodes the image to raw RGBA pixel data, reading from the embedded
// Data bytes when present and the Path on disk otherwise. PNG and JPEG are
// supported.
// Reference: https://pkg.go.dev/image
//
// Returns:
//   - []byte: raw RGBA pixel data (4 bytes per pixel, row-major order)
//   - uint32: image width in pixels
//   - uint32: image height in pixels
//   - error: error if decoding fails
func (t *ImageData) Decode() ([]byte, uint32, uint32, error) {
	if t == nil {
		return nil, 0, 0, fmt.Errorf("image is nil")
	}

	img, err := t.decodeSource()
	if err != nil {
		return nil, 0, 0, err
	}

	// Repack into tightly packed RGBA8 regardless of the source pixel format.
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	t.Width = bounds.Dx()
	t.Height = bounds.Dy()
	return rgba.Pix, uint32(t.Width), uint32(t.Height), nil
}

func (t *ImageData) decodeSource() (image.Image, error) {
	switch {
	case len(t.Data) > 0:
		img, _, err := image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode embedded image %q: %w", t.Name, err)
		}
		return img, nil
	case t.Path != "":
		file, err := os.Open(t.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open image file %s: %w", t.Path, err)
		}
		defer file.Close()

		img, _, err := image.Decode(file)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image file %s: %w", t.Path, err)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("image %q has neither data nor path", t.Name)
	}
}

// SolidImage builds a TextureStagingData filled with a single RGBA color.
// Used for 1x1 fallback textures and procedural demo content.
//
// Parameters:
//   - width, height: texture dimensions in pixels
//   - r, g, b, a: the fill color components
//
// Returns:
//   - TextureStagingData: the filled staging data
func SolidImage(width, height uint32, r, g, b, a byte) TextureStagingData {
	pixels := make([]byte, width*height*4)
	for i := uint32(0); i < width*height; i++ {
		pixels[i*4+0] = r
		pixels[i*4+1] = g
		pixels[i*4+2] = b
		pixels[i*4+3] = a
	}
	return TextureStagingData{Pixels: pixels, Width: width, Height: height}
}
