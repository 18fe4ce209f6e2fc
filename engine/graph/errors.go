package graph

import "fmt"

// RecordError reports a failure while recording one frame's passes, typically
// a missing target attachment during a surface resize race. The frame is
// dropped wholesale; the scheduler proceeds to the next tick.
type RecordError struct {
	// Pass names the pass that could not be recorded.
	Pass string
	// Err is the underlying failure.
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("graph: recording %q: %v", e.Pass, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
