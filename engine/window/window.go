package window

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/lumen-go/common"
)

// Window hosts the swapchain surface and forwards desktop input events to the
// application. The engine only needs the surface descriptor and resize
// notifications; the input callbacks exist so applications can drive camera
// controls without talking to the platform layer directly.
type Window interface {
	// SurfaceDescriptor returns the platform-specific descriptor used to
	// create the WebGPU surface for this window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the surface descriptor, or nil before the
	//     window exists
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Size returns the current framebuffer size in pixels. On high-DPI
	// displays this differs from the logical window size.
	//
	// Returns:
	//   - width, height: framebuffer dimensions in pixels
	Size() (width, height int)

	// SetResizeCallback registers fn to run whenever the framebuffer size
	// changes.
	//
	// Parameters:
	//   - fn: receives the new width and height in pixels
	SetResizeCallback(fn func(width, height int))

	// SetScrollCallback registers fn for mouse wheel input.
	//
	// Parameters:
	//   - fn: receives the scroll delta, positive when scrolling up
	SetScrollCallback(fn func(delta float32))

	// SetKeyDownCallback registers fn for key presses and repeats.
	//
	// Parameters:
	//   - fn: receives the pressed key
	SetKeyDownCallback(fn func(key common.Key))

	// SetKeyUpCallback registers fn for key releases.
	//
	// Parameters:
	//   - fn: receives the released key
	SetKeyUpCallback(fn func(key common.Key))

	// SetDragStartCallback registers fn for the start of a middle-button
	// drag.
	//
	// Parameters:
	//   - fn: receives the cursor position where the drag began
	SetDragStartCallback(fn func(x, y int32))

	// SetDragEndCallback registers fn for the end of a middle-button drag.
	//
	// Parameters:
	//   - fn: receives the cursor position where the drag ended
	SetDragEndCallback(fn func(x, y int32))

	// SetMouseMoveCallback registers fn for cursor movement.
	//
	// Parameters:
	//   - fn: receives the cursor position in window coordinates
	SetMouseMoveCallback(fn func(x, y int32))

	// IsRunning reports whether the window is still open.
	//
	// Returns:
	//   - bool: false once the window has been closed
	IsRunning() bool

	// ProcessMessages pumps platform events until the window closes. Must run
	// on the main goroutine; rendering happens on the engine's goroutines.
	ProcessMessages()

	// Close destroys the window and shuts the platform layer down.
	//
	// Returns:
	//   - error: non-nil when the window was never created
	Close() error
}
