package material

import (
	"errors"
	"fmt"
)

// ErrTextureNotReady reports that a material references a texture whose
// upload has not completed. Callers skip the dependent draw item and try
// again on a later frame once the upload has been observed.
var ErrTextureNotReady = errors.New("material references a pending texture")

// BindingLimitExceeded reports that building one more distinct descriptor set
// would exceed the device budget. The build is not retried; whether to merge
// materials or drop detail is the caller's decision.
type BindingLimitExceeded struct {
	Active int
	Limit  int
}

func (e *BindingLimitExceeded) Error() string {
	return fmt.Sprintf("descriptor set budget exceeded: %d active sets of %d allowed", e.Active, e.Limit)
}
