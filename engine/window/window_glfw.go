package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/Carmen-Shannon/lumen-go/common"
)

// desktopWindow drives a GLFW window. Callbacks are registered before
// ProcessMessages starts and fire on the goroutine pumping events.
type desktopWindow struct {
	title  string
	width  int
	height int
	hidden bool

	native *glfw.Window
	open   bool

	callbacks struct {
		resize    func(width, height int)
		scroll    func(delta float32)
		keyDown   func(key common.Key)
		keyUp     func(key common.Key)
		dragStart func(x, y int32)
		dragEnd   func(x, y int32)
		mouseMove func(x, y int32)
	}
}

var _ Window = (*desktopWindow)(nil)

// NewWindow creates and opens a desktop window. GLFW requires the creating
// goroutine to stay on its OS thread, so call NewWindow and ProcessMessages
// from the same goroutine, normally main.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the opened window
//   - error: non-nil when the platform layer fails to initialize
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &desktopWindow{
		title:  "lumen",
		width:  1280,
		height: 720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := w.create(); err != nil {
		return nil, err
	}
	return w, nil
}

// create initializes GLFW, opens the native window, and wires the event
// callbacks. WebGPU brings its own graphics API, so the GL context is
// disabled.
func (w *desktopWindow) create() error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	visible := glfw.True
	if w.hidden {
		visible = glfw.False
	}
	glfw.WindowHint(glfw.Visible, visible)

	native, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("create window: %w", err)
	}
	w.native = native
	w.open = true
	w.installCallbacks()

	// The framebuffer can come up larger than requested on high-DPI
	// displays; the renderer sizes its surface from these values.
	w.width, w.height = native.GetFramebufferSize()
	return nil
}

// installCallbacks bridges GLFW events onto the registered callbacks. GLFW
// key codes convert directly to common.Key, both use ASCII values for
// printable keys.
func (w *desktopWindow) installCallbacks() {
	w.native.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		switch action {
		case glfw.Press, glfw.Repeat:
			if w.callbacks.keyDown != nil {
				w.callbacks.keyDown(common.Key(key))
			}
		case glfw.Release:
			if w.callbacks.keyUp != nil {
				w.callbacks.keyUp(common.Key(key))
			}
		}
	})

	w.native.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.callbacks.scroll != nil {
			w.callbacks.scroll(float32(yoff))
		}
	})

	w.native.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonMiddle {
			return
		}
		x, y := win.GetCursorPos()
		switch action {
		case glfw.Press:
			if w.callbacks.dragStart != nil {
				w.callbacks.dragStart(int32(x), int32(y))
			}
		case glfw.Release:
			if w.callbacks.dragEnd != nil {
				w.callbacks.dragEnd(int32(x), int32(y))
			}
		}
	})

	w.native.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.callbacks.mouseMove != nil {
			w.callbacks.mouseMove(int32(x), int32(y))
		}
	})

	w.native.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.callbacks.resize != nil {
			w.callbacks.resize(width, height)
		}
	})
}

func (w *desktopWindow) SetResizeCallback(fn func(width, height int)) {
	w.callbacks.resize = fn
}

func (w *desktopWindow) SetScrollCallback(fn func(delta float32)) {
	w.callbacks.scroll = fn
}

func (w *desktopWindow) SetKeyDownCallback(fn func(key common.Key)) {
	w.callbacks.keyDown = fn
}

func (w *desktopWindow) SetKeyUpCallback(fn func(key common.Key)) {
	w.callbacks.keyUp = fn
}

func (w *desktopWindow) SetDragStartCallback(fn func(x, y int32)) {
	w.callbacks.dragStart = fn
}

func (w *desktopWindow) SetDragEndCallback(fn func(x, y int32)) {
	w.callbacks.dragEnd = fn
}

func (w *desktopWindow) SetMouseMoveCallback(fn func(x, y int32)) {
	w.callbacks.mouseMove = fn
}

func (w *desktopWindow) Size() (width, height int) {
	return w.width, w.height
}

func (w *desktopWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.native == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.native)
}

func (w *desktopWindow) IsRunning() bool {
	return w.open && w.native != nil && !w.native.ShouldClose()
}

func (w *desktopWindow) ProcessMessages() {
	for w.IsRunning() {
		glfw.PollEvents()
		runtime.Gosched()
	}
}

func (w *desktopWindow) Close() error {
	if w.native == nil {
		return fmt.Errorf("window was never created")
	}
	w.open = false
	w.native.SetShouldClose(true)
	w.native.Destroy()
	w.native = nil
	glfw.Terminate()
	return nil
}
