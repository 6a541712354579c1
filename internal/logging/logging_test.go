package logging

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitAndLoggingToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "eer_plotter.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogFileResult("in.txt", "out.png", nil)
	LogFileResult("bad.txt", "", errors.New("too few fields"))
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	for _, want := range []string{"hello world", "[ OK ] in.txt -> out.png", "[FAIL] bad.txt: too few fields"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in log, got: %s", want, content)
		}
	}
}

func TestDebugf(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		SetDebug(false)
	})

	SetDebug(false)
	Debugf("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no debug output, got: %s", buf.String())
	}

	SetDebug(true)
	Debugf("shown %d", 1)
	if !strings.Contains(buf.String(), "[debug] shown 1") {
		t.Fatalf("expected debug output, got: %s", buf.String())
	}
}

func TestCloseWithoutFile(t *testing.T) {
	if err := Close(); err != nil {
		t.Fatalf("Close without file: %v", err)
	}
}
