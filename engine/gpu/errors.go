package gpu

import "errors"

var (
	// ErrSurfaceLost indicates the presentation surface became unusable and
	// must be reconfigured before the next acquire.
	ErrSurfaceLost = errors.New("presentation surface lost")

	// ErrDeviceLost indicates the device itself is gone and no further work
	// can be submitted to it.
	ErrDeviceLost = errors.New("device lost")
)
