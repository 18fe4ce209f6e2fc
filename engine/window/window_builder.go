package window

// WindowBuilderOption configures a window during NewWindow.
type WindowBuilderOption func(*desktopWindow)

// WithTitle sets the text shown in the title bar.
//
// Parameters:
//   - title: the window title
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *desktopWindow) {
		w.title = title
	}
}

// WithSize sets the requested window size. The framebuffer may come up
// larger on high-DPI displays; read Size after creation for pixel
// dimensions.
//
// Parameters:
//   - width: requested width in screen coordinates
//   - height: requested height in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *desktopWindow) {
		w.width = width
		w.height = height
	}
}

// WithHidden creates the window without showing it. The window still
// provides a surface descriptor, so tooling can probe the GPU without
// flashing a frame on screen.
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHidden() WindowBuilderOption {
	return func(w *desktopWindow) {
		w.hidden = true
	}
}
