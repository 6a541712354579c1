package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/eer_plotter_go/internal/parser"
	"github.com/user/eer_plotter_go/internal/report"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newRenderer(t *testing.T) *report.Renderer {
	t.Helper()
	r, err := report.NewRenderer(report.Options{Backend: report.BackendGonum, Width: 300, Height: 200})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func eerJob(t *testing.T) report.Job {
	t.Helper()
	job, err := report.Preset(report.PresetEERAbs)
	if err != nil {
		t.Fatalf("Preset: %v", err)
	}
	return job
}

func TestRunEmptyDirectory(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "plots")

	summary, err := Run(context.Background(), newRenderer(t), Options{InputDir: in, OutputDir: out, Job: eerJob(t)})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if summary.Rendered != 0 || summary.Failed != 0 || len(summary.Files) != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}

func TestRunContinuesPastBadFiles(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "plots")
	writeFile(t, filepath.Join(in, "a.txt"), "EER\n1 0.5 0.3\n2 0.2 0.9\n")
	writeFile(t, filepath.Join(in, "b.txt"), "EER\n1 0.5\n")
	writeFile(t, filepath.Join(in, "c.txt"), "EER\n1 0.1 0.4\n")
	writeFile(t, filepath.Join(in, ".hidden"), "ignored")
	if err := os.Mkdir(filepath.Join(in, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	summary, err := Run(context.Background(), newRenderer(t), Options{InputDir: in, OutputDir: out, Job: eerJob(t)})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if summary.Rendered != 2 || summary.Failed != 1 {
		t.Fatalf("expected 2 rendered / 1 failed, got %d / %d", summary.Rendered, summary.Failed)
	}
	names := []string{"a.txt", "b.txt", "c.txt"}
	for i, fr := range summary.Files {
		if filepath.Base(fr.InputPath) != names[i] {
			t.Fatalf("file %d: expected %s, got %s", i, names[i], fr.InputPath)
		}
		if want := filepath.Join(out, names[i]+".png"); fr.OutputPath != want {
			t.Fatalf("expected output %s, got %s", want, fr.OutputPath)
		}
	}
	var pe *parser.ParseError
	if !errors.As(summary.Files[1].Err, &pe) {
		t.Fatalf("expected ParseError for b.txt, got %v", summary.Files[1].Err)
	}
	if _, err := os.Stat(filepath.Join(out, "b.txt.png")); !os.IsNotExist(err) {
		t.Fatalf("expected no output for b.txt")
	}
	for _, name := range []string{"a.txt.png", "c.txt.png"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}

func TestRunMissingInputDirectoryAborts(t *testing.T) {
	_, err := Run(context.Background(), newRenderer(t), Options{
		InputDir:  filepath.Join(t.TempDir(), "missing"),
		OutputDir: t.TempDir(),
		Job:       eerJob(t),
	})
	if err == nil || !strings.Contains(err.Error(), "failed to list input directory") {
		t.Fatalf("expected enumeration error, got %v", err)
	}
}

func TestRunWithLabels(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(in, "genuine", "001_1.txt"), "EER\n1 0.5 0.3\n")
	writeFile(t, filepath.Join(in, "forgery", "002_001_1.txt"), "EER\n1 0.9 0.3\n")
	writeFile(t, filepath.Join(in, "unmapped", "x.txt"), "EER\n1 0.9 0.3\n")

	summary, err := Run(context.Background(), newRenderer(t), Options{
		InputDir:  in,
		OutputDir: out,
		Job:       eerJob(t),
		Labels:    map[string]string{"genuine": "genuine", "forgery": "forgery"},
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(summary.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(summary.Files))
	}
	if summary.Files[0].Label != "forgery" || summary.Files[1].Label != "genuine" {
		t.Fatalf("expected sorted subdirectories, got %s then %s", summary.Files[0].Label, summary.Files[1].Label)
	}
	if _, err := os.Stat(filepath.Join(out, "genuine", "001_1.txt.png")); err != nil {
		t.Fatalf("expected labelled output: %v", err)
	}
}

func TestRunRejectsInvalidLabels(t *testing.T) {
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "genuine", "a.txt"), "EER\n1 2 3\n")
	writeFile(t, filepath.Join(in, "plain.txt"), "EER\n1 2 3\n")

	tests := []struct {
		name   string
		labels map[string]string
	}{
		{"missing subdirectory", map[string]string{"forgery": "forgery"}},
		{"empty label", map[string]string{"genuine": " "}},
		{"not a directory", map[string]string{"plain.txt": "plain"}},
		{"nested path", map[string]string{"genuine/x": "x"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Run(context.Background(), newRenderer(t), Options{InputDir: in, OutputDir: t.TempDir(), Job: eerJob(t), Labels: tc.labels})
			if !errors.Is(err, ErrInvalidLabels) {
				t.Fatalf("expected ErrInvalidLabels, got %v", err)
			}
		})
	}
}

func TestRunParallelKeepsOrderAndWritesReport(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	names := []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"}
	for _, name := range names {
		writeFile(t, filepath.Join(in, name), "EER\n1.8 30 5\n1.9 10 20\n2.0 0 50\n")
	}
	reportPath := filepath.Join(out, "report.pdf")

	summary, err := Run(context.Background(), newRenderer(t), Options{
		InputDir:   in,
		OutputDir:  out,
		Job:        eerJob(t),
		Workers:    3,
		Extension:  ".chart.png",
		ReportPath: reportPath,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if summary.Rendered != len(names) {
		t.Fatalf("expected %d rendered, got %d", len(names), summary.Rendered)
	}
	for i, fr := range summary.Files {
		if filepath.Base(fr.InputPath) != names[i] {
			t.Fatalf("order lost at %d: %s", i, fr.InputPath)
		}
		if !strings.HasSuffix(fr.OutputPath, ".txt.chart.png") {
			t.Fatalf("unexpected output name %s", fr.OutputPath)
		}
		if fr.Result == nil || fr.Result.EER == nil {
			t.Fatalf("expected EER estimate for %s", fr.InputPath)
		}
	}
	if _, err := os.Stat(reportPath); err != nil {
		t.Fatalf("expected PDF report: %v", err)
	}
	if entries := summary.ReportEntries(); len(entries) != len(names) || entries[0].Name != "a.txt" {
		t.Fatalf("unexpected report entries: %+v", entries)
	}
}

func TestRunCancelledContext(t *testing.T) {
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "a.txt"), "EER\n1 0.5 0.3\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := Run(ctx, newRenderer(t), Options{InputDir: in, OutputDir: t.TempDir(), Job: eerJob(t)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if summary == nil || summary.Failed != 1 {
		t.Fatalf("expected the unscheduled file to be counted as failed, got %+v", summary)
	}
}
