package registry

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/Carmen-Shannon/lumen-go/common"
)

type mipLevel struct {
	pixels []byte
	width  uint32
	height uint32
}

// buildMipChain builds the full mip chain for tightly packed RGBA pixels,
// halving each level with Catmull-Rom resampling down to 1x1. Level 0 aliases
// the input pixels.
func buildMipChain(pixels []byte, width, height uint32) []mipLevel {
	levels := make([]mipLevel, 0, common.MipLevelCount(width, height))
	levels = append(levels, mipLevel{pixels: pixels, width: width, height: height})

	src := &image.RGBA{
		Pix:    pixels,
		Stride: int(width) * 4,
		Rect:   image.Rect(0, 0, int(width), int(height)),
	}
	w, h := width, height
	for w > 1 || h > 1 {
		w = max(w/2, 1)
		h = max(h/2, 1)
		dst := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
		draw.CatmullRom.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
		levels = append(levels, mipLevel{pixels: dst.Pix, width: w, height: h})
		src = dst
	}
	return levels
}
