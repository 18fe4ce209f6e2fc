package profiler

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/lumen-go/log"
)

func TestTickReportsAfterInterval(t *testing.T) {
	var buf bytes.Buffer
	log.SetSink(&buf)
	defer func() {
		log.SetSink(os.Stdout)
		log.SetLevel(log.Notice)
	}()

	p := NewProfiler(WithInterval(10 * time.Millisecond))
	p.SetSource(func() string { return "Draws: 7 (skipped 0)" })

	assert.False(t, p.Tick())
	time.Sleep(15 * time.Millisecond)
	assert.True(t, p.Tick())

	out := buf.String()
	assert.Contains(t, out, "[profiler]")
	assert.Contains(t, out, "FPS:")
	assert.Contains(t, out, "Draws: 7 (skipped 0)")
}

func TestTickStaysQuietWithinInterval(t *testing.T) {
	p := NewProfiler(WithInterval(time.Hour))
	for range 10 {
		assert.False(t, p.Tick())
	}
}
