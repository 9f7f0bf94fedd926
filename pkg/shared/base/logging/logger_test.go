// 指示: miu200521358
package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerWritesConsoleLine(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger(&out)

	logger.With("run_id", "abc").Info("焼き込み完了: %s", "mirror")

	got := out.String()
	if !strings.Contains(got, "[INFO] 焼き込み完了: mirror") || !strings.Contains(got, "run_id=abc") {
		t.Fatalf("console line mismatch: got=%q", got)
	}
	if strings.Contains(got, "\x1b[") {
		t.Fatalf("buffer writer should not be colorized: got=%q", got)
	}
}

func TestLoggerLevelFiltersAndBuffers(t *testing.T) {
	logger := NewLogger(nil)
	logger.SetLevel(LOG_LEVEL_WARN)

	logger.Info("hidden")
	logger.Warn("shown %d", 1)

	lines := logger.MessageBuffer().Lines()
	if len(lines) != 1 || lines[0] != "[WARN] shown 1" {
		t.Fatalf("buffer lines mismatch: got=%v", lines)
	}
	logger.MessageBuffer().Clear()
	if len(logger.MessageBuffer().Lines()) != 0 {
		t.Fatalf("buffer should be cleared")
	}
}

func TestJSONFormat(t *testing.T) {
	var out bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Writer: &out})
	if err != nil {
		t.Fatalf("new logger failed: %v", err)
	}
	logger.Debug("value=%d", 3)
	if !strings.Contains(out.String(), `"msg":"value=3"`) {
		t.Fatalf("json output mismatch: got=%q", out.String())
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestSetDefaultLoggerIgnoresNil(t *testing.T) {
	prev := DefaultLogger()
	t.Cleanup(func() { SetDefaultLogger(prev) })

	logger := NewLogger(nil)
	SetDefaultLogger(logger)
	SetDefaultLogger(nil)
	if DefaultLogger() != logger {
		t.Fatalf("default logger should not be replaced by nil")
	}
}

func TestMessageBufferLimit(t *testing.T) {
	buffer := NewMessageBuffer(2)
	buffer.Append("a")
	buffer.Append("b")
	buffer.Append("c")
	if got := buffer.Lines(); len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Fatalf("buffer limit mismatch: got=%v", got)
	}
}
