package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/eer_plotter_go/internal/analysis"
	"github.com/user/eer_plotter_go/internal/parser"
)

// Backend names a headless raster plotting library.
type Backend string

const (
	BackendGonum   Backend = "gonum"
	BackendGoChart Backend = "gochart"
)

// Options configure a Renderer at construction time.
type Options struct {
	Backend Backend
	Width   float64 // points for gonum, pixels for gochart
	Height  float64
}

// DefaultOptions returns the gonum backend at 800x400.
func DefaultOptions() Options {
	return Options{Backend: BackendGonum, Width: 800, Height: 400}
}

type drawFunc func(spec *ChartSpec, width, height float64) ([]byte, error)

// ParseBackend validates a backend name.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case BackendGonum, BackendGoChart:
		return b, nil
	case "":
		return BackendGonum, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}
}

// Renderer turns data files into chart images. It holds no per-file state and is safe for
// concurrent use.
type Renderer struct {
	opts Options
	draw drawFunc
}

// Result describes one rendered chart.
type Result struct {
	InputPath  string
	OutputPath string
	Title      string
	Points     int
	Series     []analysis.Series
	EER        *analysis.EERPoint
	Image      []byte
}

// NewRenderer validates opts and binds the selected backend.
func NewRenderer(opts Options) (*Renderer, error) {
	backend, err := ParseBackend(string(opts.Backend))
	if err != nil {
		return nil, err
	}
	opts.Backend = backend
	defaults := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = defaults.Width
	}
	if opts.Height <= 0 {
		opts.Height = defaults.Height
	}

	r := &Renderer{opts: opts}
	switch backend {
	case BackendGoChart:
		r.draw = drawGoChartLinePlot
	default:
		r.draw = drawGonumLinePlot
	}
	return r, nil
}

// Options returns the resolved renderer configuration.
func (r *Renderer) Options() Options {
	return r.opts
}

// Prepare derives the plotted series of a parsed table and assembles its ChartSpec.
func (r *Renderer) Prepare(table *parser.Table, job Job) (*ChartSpec, []analysis.Series, error) {
	series, err := analysis.DeriveSeries(table, job.Derivation)
	if err != nil {
		return nil, nil, err
	}
	if job.Normalize {
		for i := range series {
			if series[i], err = analysis.NormalizeSeries(series[i]); err != nil {
				return nil, nil, err
			}
		}
	}
	return job.buildSpec(table, series), series, nil
}

// Draw renders a ChartSpec to PNG bytes with the configured backend.
func (r *Renderer) Draw(spec *ChartSpec) ([]byte, error) {
	if spec == nil {
		return nil, fmt.Errorf("no chart spec to plot")
	}
	if err := spec.checkRanges(); err != nil {
		return nil, err
	}
	return r.draw(spec, r.opts.Width, r.opts.Height)
}

// RenderFile reads inputPath, plots it according to job and writes the PNG to outputPath.
// Nothing is written unless every step succeeds; an existing file at outputPath is replaced.
// Errors are *IOError, *parser.ParseError or *analysis.NormalizationError.
func (r *Renderer) RenderFile(inputPath, outputPath string, job Job) (*Result, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return nil, &IOError{Op: "open", Path: inputPath, Err: err}
	}
	defer file.Close()

	table, err := parser.ParseTable(file, inputPath, job.Mapping)
	if err != nil {
		var pe *parser.ParseError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &IOError{Op: "read", Path: inputPath, Err: err}
	}

	spec, series, err := r.Prepare(table, job)
	if err != nil {
		return nil, err
	}
	img, err := r.Draw(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to draw %s: %w", inputPath, err)
	}
	if err := writeImage(outputPath, img); err != nil {
		return nil, err
	}

	return &Result{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Title:      spec.Title(),
		Points:     len(table.Records),
		Series:     series,
		EER:        analysis.EstimateTableEER(table),
		Image:      img,
	}, nil
}

// writeImage replaces path atomically: the bytes go to a temp file in the same directory
// which is renamed into place only after a successful write.
func writeImage(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
