package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"stationcheck/internal/checks"
)

func newChecksCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "checks",
		Short: "List the checks that run against each station",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(checks.Names())
			}
			for i, name := range checks.Names() {
				fmt.Fprintf(out, "%2d. %s\n", i+1, name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")

	return cmd
}
