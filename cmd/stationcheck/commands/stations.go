package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"stationcheck/cmd/stationcheck/internal/clierr"
	"stationcheck/internal/config"
)

func newStationsCmd() *cobra.Command {
	var configPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stations",
		Short: "List the configured stations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return clierr.Wrap(2, "loading configuration", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg.Targets())
			}
			for _, t := range cfg.Targets() {
				fmt.Fprintf(out, "%-24s %s\n", t.Name, t.Address)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "stationcheck.yaml", "configuration file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")

	return cmd
}
