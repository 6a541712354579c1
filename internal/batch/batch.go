// Package batch drives the chart renderer over a directory of data files.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/user/eer_plotter_go/internal/logging"
	"github.com/user/eer_plotter_go/internal/report"
)

// DefaultExtension is appended to each input file name to form its output name.
const DefaultExtension = ".png"

// ErrInvalidLabels indicates a subdirectory-to-label mapping that does not match the input tree.
var ErrInvalidLabels = errors.New("invalid label mapping")

// Options configure a batch run.
type Options struct {
	InputDir  string
	OutputDir string
	Job       report.Job
	// Labels maps subdirectories of InputDir to dataset labels (e.g. "genuine", "forgery").
	// When empty, the files directly inside InputDir are processed.
	Labels     map[string]string
	Extension  string
	Workers    int
	ReportPath string
}

// FileResult is the outcome for one input file.
type FileResult struct {
	InputPath  string
	OutputPath string
	Label      string
	Result     *report.Result
	Err        error
}

// Summary aggregates a batch run. Files is in enumeration order.
type Summary struct {
	Files    []FileResult
	Rendered int
	Failed   int
}

// task is one enumerated file awaiting rendering.
type task struct {
	input  string
	output string
	label  string
}

// validateLabels checks that every mapped subdirectory exists and carries a non-empty label.
func validateLabels(inputDir string, labels map[string]string) error {
	for sub, label := range labels {
		if strings.TrimSpace(label) == "" {
			return fmt.Errorf("%w: subdirectory %q has an empty label", ErrInvalidLabels, sub)
		}
		if sub == "" || sub != filepath.Base(sub) || sub == "." || sub == ".." {
			return fmt.Errorf("%w: %q is not a plain subdirectory name", ErrInvalidLabels, sub)
		}
		info, err := os.Stat(filepath.Join(inputDir, sub))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidLabels, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", ErrInvalidLabels, sub)
		}
	}
	return nil
}

// listFiles returns the regular, non-hidden files of dir sorted by name.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir) // sorted by filename
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !e.Type().IsRegular() {
			info, err := os.Stat(filepath.Join(dir, e.Name()))
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// enumerate lists every file to render together with its output path and label.
func enumerate(opts Options) ([]task, error) {
	ext := opts.Extension
	if ext == "" {
		ext = DefaultExtension
	}

	if len(opts.Labels) == 0 {
		names, err := listFiles(opts.InputDir)
		if err != nil {
			return nil, fmt.Errorf("failed to list input directory: %w", err)
		}
		tasks := make([]task, 0, len(names))
		for _, name := range names {
			tasks = append(tasks, task{
				input:  filepath.Join(opts.InputDir, name),
				output: filepath.Join(opts.OutputDir, name+ext),
			})
		}
		return tasks, nil
	}

	if _, err := os.ReadDir(opts.InputDir); err != nil {
		return nil, fmt.Errorf("failed to list input directory: %w", err)
	}
	if err := validateLabels(opts.InputDir, opts.Labels); err != nil {
		return nil, err
	}
	subdirs := make([]string, 0, len(opts.Labels))
	for sub := range opts.Labels {
		subdirs = append(subdirs, sub)
	}
	sort.Strings(subdirs)

	var tasks []task
	for _, sub := range subdirs {
		names, err := listFiles(filepath.Join(opts.InputDir, sub))
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", sub, err)
		}
		for _, name := range names {
			tasks = append(tasks, task{
				input:  filepath.Join(opts.InputDir, sub, name),
				output: filepath.Join(opts.OutputDir, sub, name+ext),
				label:  opts.Labels[sub],
			})
		}
	}
	return tasks, nil
}

// Run renders every enumerated file. Per-file failures are logged and recorded in the summary;
// only a failure to enumerate the input (or an invalid label mapping) aborts the batch.
// Cancelling ctx stops scheduling new files and returns ctx.Err() with the partial summary.
func Run(ctx context.Context, r *report.Renderer, opts Options) (*Summary, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer is nil")
	}
	if err := opts.Job.Validate(); err != nil {
		return nil, err
	}
	tasks, err := enumerate(opts)
	if err != nil {
		return nil, err
	}
	logging.LogEvent("Found %d data files in %s", len(tasks), opts.InputDir)

	files := make([]FileResult, len(tasks))
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, tk := range tasks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				files[i] = FileResult{InputPath: tk.input, OutputPath: tk.output, Label: tk.label, Err: err}
				return nil
			}
			logging.Debugf("Rendering %s", tk.input)
			res, err := r.RenderFile(tk.input, tk.output, opts.Job)
			logging.LogFileResult(tk.input, tk.output, err)
			if err == nil && res.EER != nil {
				logging.LogEvent("EER of %s is %.4f at threshold %.4f", tk.input, res.EER.Rate, res.EER.Threshold)
			}
			files[i] = FileResult{InputPath: tk.input, OutputPath: tk.output, Label: tk.label, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	summary := &Summary{}
	for i, fr := range files {
		if fr.InputPath == "" { // never scheduled
			tk := tasks[i]
			fr = FileResult{InputPath: tk.input, OutputPath: tk.output, Label: tk.label, Err: ctx.Err()}
		}
		if fr.Err != nil {
			summary.Failed++
		} else {
			summary.Rendered++
		}
		summary.Files = append(summary.Files, fr)
	}
	logging.LogEvent("Batch complete: %d rendered, %d failed", summary.Rendered, summary.Failed)

	if opts.ReportPath != "" {
		if err := report.BuildPDFReport(opts.ReportPath, reportTitle(opts), summary.ReportEntries()); err != nil {
			return summary, fmt.Errorf("failed to build PDF report: %w", err)
		}
		logging.LogEvent("PDF report written to %s", opts.ReportPath)
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func reportTitle(opts Options) string {
	name := opts.Job.Name
	if name == "" {
		name = "custom"
	}
	return fmt.Sprintf("Charts for %s (%s)", filepath.Base(opts.InputDir), name)
}

// ReportEntries converts the summary into PDF report rows.
func (s *Summary) ReportEntries() []report.ReportEntry {
	entries := make([]report.ReportEntry, 0, len(s.Files))
	for _, fr := range s.Files {
		entries = append(entries, report.ReportEntry{
			Name:   filepath.Base(fr.InputPath),
			Label:  fr.Label,
			Result: fr.Result,
			Err:    fr.Err,
		})
	}
	return entries
}
