package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer func() {
		SetSink(os.Stdout)
		SetLevel(Notice)
	}()

	logger := New("test")

	SetLevel(Warning)
	logger.Info("quiet")
	logger.Warningf("loud %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud 1")
	assert.Contains(t, out, "[test]")
}

func TestModuleLevelOverride(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer func() {
		SetSink(os.Stdout)
		SetLevel(Notice)
	}()

	chatty := New("chatty")
	frame := New("frame")

	SetLevel(Debug)
	SetModuleLevel("chatty", Error)

	chatty.Debug("drowned out")
	frame.Debug("kept")

	out := buf.String()
	assert.NotContains(t, out, "drowned out")
	assert.Contains(t, out, "kept")
}
