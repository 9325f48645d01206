package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the stationcheck root command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("STATIONCHECK_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "stationcheck",
		Short:         "Browser smoke tests for NBC affiliate station sites",
		Long:          "stationcheck drives a headless browser through each station homepage, runs the QA checklist, and renders JSON/HTML reports with an optional Slack summary.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the stationcheck version",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stationcheck version %s\n", version)
		},
	})

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newStationsCmd())
	cmd.AddCommand(newChecksCmd())

	return cmd
}
