package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Debugf("hidden debug")
	log.Infof("hidden info")
	log.Warnf("visible warning")
	log.Errorf("visible error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] visible warning")
	assert.Contains(t, out, "[ERROR] visible error")
}

func TestLoggerDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "")

	log.Debugf("hidden")
	log.Infof("shown %d", 42)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO] shown 42")
}

func TestLoggerUnknownLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "verbose")

	log.Infof("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoggerTimestampPrefix(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info")

	log.Infof("message")
	line := strings.TrimSpace(buf.String())
	// "[HH:MM:SS] [INFO] message"
	assert.Regexp(t, `^\[\d{2}:\d{2}:\d{2}\] \[INFO\] message$`, line)
}

func TestNilLoggerIsSilent(t *testing.T) {
	var log *Logger
	log.Infof("no panic")

	log = New(nil, "info")
	log.Errorf("still no panic")
}

func TestLoggerNoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info")

	log.Infof("plain")
	assert.NotContains(t, buf.String(), "\x1b[", "no ANSI codes for non-terminal writers")
}
