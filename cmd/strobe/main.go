// Package main is the entry point for the strobe CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.Strobe/internal/audio"
	"github.com/LISSConsulting/LISSTech.Strobe/internal/config"
	"github.com/LISSConsulting/LISSTech.Strobe/internal/tui"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	registerQuitHandler()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.RenderError(err))
		os.Exit(1)
	}
}

const longHelp = `Flash the screen at a fixed rate until interrupted or a limit is reached.

  interval-ms   time between toggles in milliseconds (positive integer)
  limit         optional; "<seconds>s" stops after that much time,
                a bare positive integer stops after that many flashes

Press Ctrl+C, Esc, or q to stop.`

func rootCmd() *cobra.Command {
	var (
		configPath string
		backend    string
	)

	root := &cobra.Command{
		Use:     "strobe <interval-ms> [limit]",
		Short:   "Full-screen strobe light",
		Long:    longHelp,
		Version: version,
		Args: func(cmd *cobra.Command, args []string) error {
			_, err := config.ParseArgs(args)
			return err
		},
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := config.ParseArgs(args)
			if err != nil {
				return err
			}
			// Arguments are valid; later failures are not usage errors.
			cmd.SilenceUsage = true
			return execute(cmd.Context(), run, runOptions{
				ConfigPath: configPath,
				Backend:    backend,
				Stdout:     cmd.OutOrStdout(),
				Audio:      audio.NewClicker,
			})
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to strobe.toml (default: search upward from the working directory)")
	root.Flags().StringVar(&backend, "backend", "", "surface backend: terminal, tea, or window (overrides strobe.toml)")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", config.ErrUsage, err)
	})

	root.AddCommand(initCmd(), lastCmd())
	return root
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create strobe.toml in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			path, err := config.InitFile(dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
}
