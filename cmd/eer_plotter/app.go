package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/fatih/color"

	"github.com/user/eer_plotter_go/internal/appconfig"
	"github.com/user/eer_plotter_go/internal/batch"
	"github.com/user/eer_plotter_go/internal/logging"
	"github.com/user/eer_plotter_go/internal/report"
)

var (
	successfulResult = color.New(color.FgGreen).SprintFunc()
	failedResult     = color.New(color.FgRed).SprintFunc()
	heading          = color.New(color.Bold).SprintFunc()
)

// App ties the loaded configuration to a renderer for one CLI invocation.
type App struct {
	cfg      appconfig.Config
	renderer *report.Renderer
	out      io.Writer
}

// NewApp builds the renderer described by cfg.
func NewApp(cfg appconfig.Config, out io.Writer) (*App, error) {
	opts, err := cfg.RendererOptions()
	if err != nil {
		return nil, err
	}
	renderer, err := report.NewRenderer(opts)
	if err != nil {
		return nil, err
	}
	return &App{cfg: cfg, renderer: renderer, out: out}, nil
}

// Startup initializes logging.
func (a *App) Startup() error {
	if err := logging.Init(a.cfg.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.SetDebug(a.cfg.Debug)
	if a.cfg.ConfigPath != "" {
		logging.Debugf("Using config %s", a.cfg.ConfigPath)
	}
	return nil
}

// Shutdown closes the log file.
func (a *App) Shutdown() {
	if err := logging.Close(); err != nil {
		log.Printf("failed to close log file: %v", err)
	}
}

func (a *App) sendStatus(message string) {
	fmt.Fprintln(a.out, message)
}

// RunBatch renders every file of the configured input directory.
func (a *App) RunBatch(ctx context.Context) (*batch.Summary, error) {
	opts, err := a.cfg.BatchOptions()
	if err != nil {
		return nil, err
	}
	logging.LogEvent("Rendering %s -> %s (preset %s, backend %s)", opts.InputDir, opts.OutputDir, opts.Job.Name, a.renderer.Options().Backend)

	summary, err := batch.Run(ctx, a.renderer, opts)
	if summary != nil {
		for _, fr := range summary.Files {
			if fr.Err != nil {
				a.sendStatus(fmt.Sprintf("%s %s: %v", failedResult("FAIL"), fr.InputPath, fr.Err))
			} else {
				a.sendStatus(fmt.Sprintf("%s %s", successfulResult(" OK "), fr.OutputPath))
			}
		}
		a.sendStatus(fmt.Sprintf("%d rendered, %d failed", summary.Rendered, summary.Failed))
	}
	return summary, err
}

// RenderOne renders a single data file.
func (a *App) RenderOne(inputPath, outputPath string) (*report.Result, error) {
	job, err := a.cfg.Job()
	if err != nil {
		return nil, err
	}
	res, err := a.renderer.RenderFile(inputPath, outputPath, job)
	logging.LogFileResult(inputPath, outputPath, err)
	if err != nil {
		return nil, err
	}
	a.sendStatus(fmt.Sprintf("%s %s (%d points)", successfulResult(" OK "), outputPath, res.Points))
	if res.EER != nil {
		a.sendStatus(fmt.Sprintf("EER %.4f at threshold %.4f", res.EER.Rate, res.EER.Threshold))
	}
	return res, nil
}
