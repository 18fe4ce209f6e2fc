package registry

import "fmt"

// UploadError reports a failed asset upload. The owning texture entry moves
// to the failed state and binds its fallback, so frames keep rendering while
// the failure stays observable through UploadErrors and the log.
type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %q failed: %v", e.Name, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
