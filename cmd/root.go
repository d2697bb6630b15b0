package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var log = logrus.New()

func newRootCmd() *cobra.Command {
	config := NewConfig()
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "minefield",
		Short: "Play manual or computer-driven Minesweeper",
		Long: `minefield is a Minesweeper engine which supports human- or
computer-driven playing, in the terminal or over HTTP.

Run with no arguments to play manually
	minefield

Use the director flag to make the computer play for you
	minefield --director constraint

Serve games over HTTP and websockets
	minefield serve --addr :8080
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := applyConfigFile(cmd, configPath, &config); err != nil {
					return err
				}
				if err := newDirectorValue(&config.Director).Set(config.Director); err != nil {
					return fmt.Errorf("config %s: %w", configPath, err)
				}
			}
			return setupLogging(config)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file; flags given on the command line take precedence")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&config.LogFile, "log-file", config.LogFile, "Also write logs to this file, rotating it as it grows")
	rootCmd.PersistentFlags().StringVar(&config.DifficultiesFile, "difficulties-file", config.DifficultiesFile, "YAML file replacing the built-in difficulty presets")

	playCmd := newPlayCmd(&config)
	rootCmd.Flags().AddFlagSet(playCmd.Flags())
	rootCmd.RunE = playCmd.RunE

	rootCmd.AddCommand(
		playCmd,
		newServeCmd(&config),
		newDifficultiesCmd(&config),
	)

	return rootCmd
}

// applyConfigFile loads the config file over config, then restores the flags
// that were set explicitly so the command line keeps precedence
func applyConfigFile(cmd *cobra.Command, path string, config *Config) error {
	var restore []func() error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if slice, ok := f.Value.(pflag.SliceValue); ok {
			values := slice.GetSlice()
			restore = append(restore, func() error {
				return slice.Replace(values)
			})
			return
		}

		value := f.Value.String()
		restore = append(restore, func() error {
			return f.Value.Set(value)
		})
	})

	if err := loadConfigFile(path, config); err != nil {
		return err
	}

	for _, fn := range restore {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
