package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildPDFReport(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "eer.txt")
	writeFile(t, input, "EER\n1.8 30 5\n1.9 10 20\n2.0 0 50\n")
	res, err := mustRenderer(t, BackendGonum).RenderFile(input, filepath.Join(dir, "eer.txt.png"), mustPreset(t, PresetEERAbs))
	if err != nil {
		t.Fatalf("RenderFile: %v", err)
	}

	out := filepath.Join(dir, "report.pdf")
	entries := []ReportEntry{
		{Name: "eer.txt", Label: "genuine", Result: res},
		{Name: "bad.txt", Label: "forgery", Err: errors.New("parse error in bad.txt line 3: too few fields")},
	}
	if err := BuildPDFReport(out, "EER charts", entries); err != nil {
		t.Fatalf("BuildPDFReport: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("report does not look like a PDF")
	}
}

func TestBuildPDFReportEmpty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.pdf")
	if err := BuildPDFReport(out, "Nothing", nil); err != nil {
		t.Fatalf("BuildPDFReport: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected report file: %v", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Fatalf("unexpected %q", got)
	}
}
