// Package appconfig loads the plotter configuration from flags, environment and an optional
// config file, and resolves it into renderer and batch settings.
package appconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/user/eer_plotter_go/internal/analysis"
	"github.com/user/eer_plotter_go/internal/batch"
	"github.com/user/eer_plotter_go/internal/report"
)

const (
	// DefaultConfigName is searched for (any viper-supported extension) when no --config is given.
	DefaultConfigName = "eer_plotter"
	// EnvPrefix prefixes environment overrides, e.g. EER_PLOTTER_BACKEND.
	EnvPrefix = "EER_PLOTTER"

	defaultInputDir  = "./datas"
	defaultOutputDir = "./plots"
)

// Config represents the merged application configuration (flags > env > file > defaults).
type Config struct {
	InputDir   string   `mapstructure:"input_dir"`
	OutputDir  string   `mapstructure:"output_dir"`
	Preset     string   `mapstructure:"preset"`
	TitleMode  string   `mapstructure:"title_mode"`
	Title      string   `mapstructure:"title"`
	XColumn    *int     `mapstructure:"x_column"`
	YColumns   []int    `mapstructure:"y_columns"`
	Derivation string   `mapstructure:"derivation"`
	XLabel     string   `mapstructure:"x_label"`
	YLabel     string   `mapstructure:"y_label"`
	Colors     []string `mapstructure:"colors"`
	Normalize  bool     `mapstructure:"normalize"`
	Backend    string   `mapstructure:"backend"`
	Width      float64  `mapstructure:"width"`
	Height     float64  `mapstructure:"height"`
	Labels     []string `mapstructure:"labels"`
	Workers    int      `mapstructure:"workers"`
	Report     string   `mapstructure:"report"`
	LogFile    string   `mapstructure:"log_file"`
	Debug      bool     `mapstructure:"debug"`
	Extension  string   `mapstructure:"extension"`
	ConfigPath string   `mapstructure:"-"`
}

// NewViper returns a viper instance with defaults and environment overrides wired.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	opts := report.DefaultOptions()
	v.SetDefault("input_dir", defaultInputDir)
	v.SetDefault("output_dir", defaultOutputDir)
	v.SetDefault("preset", report.DefaultPreset)
	v.SetDefault("backend", string(opts.Backend))
	v.SetDefault("width", opts.Width)
	v.SetDefault("height", opts.Height)
	v.SetDefault("workers", 1)
	v.SetDefault("extension", batch.DefaultExtension)
	return v
}

// BindFlags registers the persistent CLI flags and binds them to viper keys.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.String("preset", "", "chart preset: pair, eer-abs, eer-signed")
	flags.String("backend", "", "plot backend: gonum or gochart")
	flags.String("derivation", "", "derivation rule: identity, abs-diff, signed-diff")
	flags.String("title-mode", "", "title source: fixed, header, header-token")
	flags.String("title", "", "fixed chart title")
	flags.Bool("normalize", false, "mean-normalize plotted values")
	flags.Int("workers", 0, "number of files rendered concurrently")
	flags.String("report", "", "write a PDF summary of the batch to this path")
	flags.StringSlice("label", nil, "subdirectory=label mapping, repeatable (e.g. genuine=genuine)")
	flags.String("log-file", "", "also append log output to this file")
	flags.Bool("debug", false, "enable debug logging")

	bind := map[string]string{
		"preset":     "preset",
		"backend":    "backend",
		"derivation": "derivation",
		"title_mode": "title-mode",
		"title":      "title",
		"normalize":  "normalize",
		"workers":    "workers",
		"report":     "report",
		"labels":     "label",
		"log_file":   "log-file",
		"debug":      "debug",
	}
	for key, flag := range bind {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
}

// Load reads the config file (path, or a search for DefaultConfigName when path is empty),
// validates it and unmarshals the merged settings. A missing file is only an error when
// path was given explicitly.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		v.AddConfigPath("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to load config: %w", err)
		}
	}

	used := v.ConfigFileUsed()
	if used != "" {
		if err := validateFile(used); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigPath = used
	return cfg, nil
}

// validateFile checks a config file on its own, before flags and environment are merged in.
func validateFile(path string) error {
	fv := viper.New()
	fv.SetConfigFile(path)
	if err := fv.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := validateSettings(fv.AllSettings()); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Job resolves the preset and applies every explicitly configured override.
func (c Config) Job() (report.Job, error) {
	job, err := report.Preset(c.Preset)
	if err != nil {
		return report.Job{}, err
	}
	if c.XColumn != nil {
		job.Mapping.X = *c.XColumn
	}
	if len(c.YColumns) > 0 {
		job.Mapping.Y = append([]int(nil), c.YColumns...)
	}
	if c.Derivation != "" {
		if job.Derivation, err = analysis.ParseDerivation(c.Derivation); err != nil {
			return report.Job{}, err
		}
	}
	if c.TitleMode != "" {
		if job.TitleMode, err = report.ParseTitleMode(c.TitleMode); err != nil {
			return report.Job{}, err
		}
	}
	if c.Title != "" {
		job.Title = c.Title
	}
	if c.XLabel != "" {
		job.XLabel = c.XLabel
	}
	if c.YLabel != "" {
		job.YLabel = c.YLabel
	}
	if len(c.Colors) > 0 {
		if job.Colors, err = report.ParseColors(c.Colors); err != nil {
			return report.Job{}, err
		}
	}
	job.Normalize = job.Normalize || c.Normalize

	if err := job.Validate(); err != nil {
		return report.Job{}, err
	}
	return job, nil
}

// RendererOptions returns the renderer construction options.
func (c Config) RendererOptions() (report.Options, error) {
	backend, err := report.ParseBackend(c.Backend)
	if err != nil {
		return report.Options{}, err
	}
	return report.Options{Backend: backend, Width: c.Width, Height: c.Height}, nil
}

// LabelMap parses "subdir=label" entries.
func (c Config) LabelMap() (map[string]string, error) {
	if len(c.Labels) == 0 {
		return nil, nil
	}
	labels := make(map[string]string, len(c.Labels))
	for _, entry := range c.Labels {
		sub, label, ok := strings.Cut(entry, "=")
		sub, label = strings.TrimSpace(sub), strings.TrimSpace(label)
		if !ok || sub == "" || label == "" {
			return nil, fmt.Errorf("%w: expected subdir=label, got %q", batch.ErrInvalidLabels, entry)
		}
		if _, dup := labels[sub]; dup {
			return nil, fmt.Errorf("%w: subdirectory %q mapped twice", batch.ErrInvalidLabels, sub)
		}
		labels[sub] = label
	}
	return labels, nil
}

// BatchOptions assembles the batch driver options.
func (c Config) BatchOptions() (batch.Options, error) {
	job, err := c.Job()
	if err != nil {
		return batch.Options{}, err
	}
	labels, err := c.LabelMap()
	if err != nil {
		return batch.Options{}, err
	}
	return batch.Options{
		InputDir:   c.InputDir,
		OutputDir:  c.OutputDir,
		Job:        job,
		Labels:     labels,
		Extension:  c.Extension,
		Workers:    c.Workers,
		ReportPath: c.Report,
	}, nil
}
