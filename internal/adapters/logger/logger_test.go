package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"go.trai.ch/flo/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func capture(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	lg, ok := logger.New().(*logger.Logger)
	if !ok {
		t.Fatal("New() did not return *logger.Logger")
	}
	var buf bytes.Buffer
	lg.SetOutput(&buf)
	return lg, &buf
}

func TestLogger_Info(t *testing.T) {
	lg, buf := capture(t)
	lg.Info("some message")

	out := buf.String()
	if !strings.Contains(out, "some message") {
		t.Errorf("expected output to contain 'some message', got: %s", out)
	}
	if !strings.Contains(out, "INFO") {
		t.Errorf("expected output to contain 'INFO', got: %s", out)
	}
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := capture(t)
	lg.Warn("some warning")

	out := buf.String()
	if !strings.Contains(out, "some warning") {
		t.Errorf("expected output to contain 'some warning', got: %s", out)
	}
	if !strings.Contains(out, "WARN") {
		t.Errorf("expected output to contain 'WARN', got: %s", out)
	}
}

func TestLogger_Error(t *testing.T) {
	lg, buf := capture(t)
	lg.Error(zerr.New("boom"))

	out := buf.String()
	if !strings.Contains(out, "boom") {
		t.Errorf("expected output to contain 'boom', got: %s", out)
	}
	if !strings.Contains(out, "ERROR") {
		t.Errorf("expected output to contain 'ERROR', got: %s", out)
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := capture(t)
	lg.Error(nil)

	if buf.Len() != 0 {
		t.Errorf("expected no output for nil error, got: %s", buf.String())
	}
}
