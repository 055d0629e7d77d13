package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ekisa-team/modelload/internal/config"
	"github.com/ekisa-team/modelload/internal/env"
	"github.com/ekisa-team/modelload/internal/envvar"
	"github.com/ekisa-team/modelload/internal/logger"
)

type rootFlags struct {
	configPath  string
	verbose     bool
	noProgress  bool
	metricsFile string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	var a *app

	cmd := &cobra.Command{
		Use:   "modelload",
		Short: "Resolve, load and compile saved interatomic potential models",
		Long: `modelload resolves a saved model reference to a local file and hands it
to the framework's checkpoint or package loader.

A reference is one of:
  path/to/model.ckpt                  local checkpoint or package
  https://host/model.nequip.zip       downloaded to a temporary file
  s3://bucket/key                     fetched from object storage
  nequip.net:group/name:version       looked up in the model registry`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			if flags.metricsFile != "" {
				cfg.Metrics.Textfile = flags.metricsFile
			}

			level := logger.ParseLevel(cfg.Logging.Level)
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(logger.New(env.FromEnv(),
				logger.WithLevel(level),
				logger.WithLogToFile(cfg.Logging.File != ""),
				logger.WithLogFile(cfg.Logging.File),
			))

			a = newApp(cfg, cfg.Download.ProgressEnabled() && !flags.noProgress)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", defaultConfigFile(), "Path to config file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVar(&flags.noProgress, "no-progress", false, "Disable download progress bars")
	cmd.PersistentFlags().StringVar(&flags.metricsFile, "metrics-file", "", "Write prometheus metrics to this textfile after the run")

	cmd.AddCommand(
		withMetrics(&a, resolveCmd(&a)),
		withMetrics(&a, loadCmd(&a)),
		withMetrics(&a, compileCmd(&a)),
	)

	return cmd
}

// defaultConfigFile honors MODELLOAD_CONFIG, then the platform config directory.
func defaultConfigFile() string {
	if p := os.Getenv(envvar.ModelloadConfig); p != "" {
		return p
	}
	return filepath.Join(config.DefaultConfigPath(), "config.yaml")
}

// withMetrics writes the metrics textfile when sub returns, whether it failed or not.
func withMetrics(a **app, sub *cobra.Command) *cobra.Command {
	run := sub.RunE
	sub.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if *a == nil {
				return
			}
			if werr := (*a).writeMetrics(); werr != nil {
				if err == nil {
					err = werr
				} else {
					slog.Error("Failed to write metrics", "error", werr)
				}
			}
		}()
		return run(cmd, args)
	}
	return sub
}
