package framepool

import (
	"fmt"
	"time"
)

// SlotTimeout reports that no frame slot was reclaimed within the acquire
// timeout, meaning the GPU has fallen behind the CPU by the whole ring. The
// frame is retried on the next tick.
type SlotTimeout struct {
	Slot    int
	Timeout time.Duration
}

func (e *SlotTimeout) Error() string {
	return fmt.Sprintf("frame slot %d not reclaimed within %v", e.Slot, e.Timeout)
}
