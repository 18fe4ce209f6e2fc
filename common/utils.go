package common

import "math/bits"

// Coalesce returns the first of values that is not the zero value of T.
// Builders use it to substitute defaults for options the caller left unset.
//
// Parameters:
//   - values: candidate values in priority order
//
// Returns:
//   - T: the first non-zero candidate, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// MipLevelCount returns the number of levels in a full mip chain for a texture
// of the given dimensions, down to and including the 1x1 level.
//
// Parameters:
//   - width: base level width in pixels
//   - height: base level height in pixels
//
// Returns:
//   - uint32: the full mip chain length (at least 1)
func MipLevelCount(width, height uint32) uint32 {
	longest := max(width, height)
	if longest == 0 {
		return 1
	}
	return uint32(bits.Len32(longest))
}
