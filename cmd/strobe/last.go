package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.Strobe/internal/config"
	"github.com/LISSConsulting/LISSTech.Strobe/internal/store"
)

func lastCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "last [journal-dir]",
		Short: "Show a summary of the most recent run from the journal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			} else {
				settings, err := config.Load(configPath)
				if err != nil {
					return err
				}
				dir = settings.Journal.Dir
			}
			if dir == "" {
				return fmt.Errorf("no journal directory: pass one or set [journal] dir in %s", config.FileName)
			}

			path, err := store.Latest(dir)
			if err != nil {
				return err
			}
			_, summary, err := store.ReadRun(path)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatRunSummary(summary))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to strobe.toml (default: search upward from the working directory)")
	return cmd
}

// formatRunSummary renders a run summary as aligned key/value lines.
func formatRunSummary(s store.RunSummary) string {
	var b strings.Builder
	line := func(k, v string) { fmt.Fprintf(&b, "%-9s %s\n", k+":", v) }

	line("Run", s.RunID)
	if !s.StartedAt.IsZero() {
		line("Started", s.StartedAt.Local().Format(time.DateTime))
	}
	if !s.StoppedAt.IsZero() && !s.StartedAt.IsZero() {
		line("Duration", s.StoppedAt.Sub(s.StartedAt).Round(time.Millisecond).String())
	}
	line("Ticks", fmt.Sprint(s.Ticks))
	line("Flashes", fmt.Sprint(s.Flashes))
	line("Dropped", fmt.Sprint(s.Dropped))
	reason := s.Reason
	if s.StoppedAt.IsZero() {
		reason = "incomplete"
	}
	line("Stopped", reason)
	return b.String()
}
