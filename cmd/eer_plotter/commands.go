package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/user/eer_plotter_go/internal/appconfig"
	"github.com/user/eer_plotter_go/internal/report"
)

var presetDescriptions = map[string]string{
	report.PresetPair:      "columns 1 and 2 against column 0, red and blue, titled by the header's first word",
	report.PresetEERAbs:    "|column 1 - column 2| against K, titled EER",
	report.PresetEERSigned: "column 1 - column 2 against X, titled EER",
}

func newRootCmd() *cobra.Command {
	v := appconfig.NewViper()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "eer_plotter [input-dir] [output-dir]",
		Short: "Render line charts from whitespace-delimited data files",
		Long: `eer_plotter reads data files (one header line, then numeric rows),
derives the plotted values and writes one PNG line chart per file.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				v.Set("input_dir", args[0])
			}
			if len(args) > 1 {
				v.Set("output_dir", args[1])
			}
			app, err := loadApp(cmd, v, cfgFile)
			if err != nil {
				return err
			}
			defer app.Shutdown()
			_, err = app.RunBatch(cmd.Context())
			return err
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: eer_plotter.{yaml,json,toml} in . or ./config)")
	appconfig.BindFlags(v, rootCmd.PersistentFlags())

	rootCmd.AddCommand(newRenderCmd(v, &cfgFile), newPresetsCmd(), newShowConfigCmd(v, &cfgFile))
	return rootCmd
}

func loadApp(cmd *cobra.Command, v *viper.Viper, cfgFile string) (*App, error) {
	cfg, err := appconfig.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}
	app, err := NewApp(cfg, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	if err := app.Startup(); err != nil {
		return nil, err
	}
	return app, nil
}

func newRenderCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "render <input> <output>",
		Short: "Render a single data file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, v, *cfgFile)
			if err != nil {
				return err
			}
			defer app.Shutdown()
			_, err = app.RenderOne(args[0], args[1])
			return err
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in chart presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range report.PresetNames() {
				marker := " "
				if name == report.DefaultPreset {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-11s %s\n", marker, name, presetDescriptions[name])
			}
			return nil
		},
	}
}

func newShowConfigCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show-config",
		Short: "Print the merged configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(v, *cfgFile)
			if err != nil {
				return err
			}
			job, err := cfg.Job()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			file := cfg.ConfigPath
			if file == "" {
				file = "(none)"
			}
			fmt.Fprintln(out, heading("Configuration"))
			fmt.Fprintf(out, "  Config file:  %s\n", file)
			fmt.Fprintf(out, "  Input dir:    %s\n", cfg.InputDir)
			fmt.Fprintf(out, "  Output dir:   %s\n", cfg.OutputDir)
			fmt.Fprintf(out, "  Backend:      %s (%.0fx%.0f)\n", cfg.Backend, cfg.Width, cfg.Height)
			fmt.Fprintf(out, "  Workers:      %d\n", cfg.Workers)
			fmt.Fprintf(out, "  Labels:       %s\n", strings.Join(cfg.Labels, ", "))
			fmt.Fprintf(out, "  PDF report:   %s\n", cfg.Report)
			fmt.Fprintln(out, heading("Job"))
			fmt.Fprintf(out, "  Preset:       %s\n", job.Name)
			fmt.Fprintf(out, "  Columns:      x=%d y=%v\n", job.Mapping.X, job.Mapping.Y)
			fmt.Fprintf(out, "  Derivation:   %s\n", job.Derivation)
			fmt.Fprintf(out, "  Title mode:   %s\n", job.TitleMode)
			fmt.Fprintf(out, "  Axis labels:  %s / %s\n", job.XLabel, job.YLabel)
			fmt.Fprintf(out, "  Normalize:    %v\n", job.Normalize)
			return nil
		},
	}
}
