package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"stationcheck/cmd/stationcheck/commands"
	"stationcheck/cmd/stationcheck/internal/clierr"
)

func main() {
	// Local runs keep the Slack webhook in .env; CI injects it directly.
	_ = godotenv.Load()

	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(clierr.ExitCodeOf(err))
	}
}
