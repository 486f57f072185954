package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/vigilai/internal/cli"
	"github.com/cloo-solutions/vigilai/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "vigil",
		Short: "Vigil CLI - Shift handoff briefings",
		Long: `Vigil CLI submits and inspects manufacturing shift-handoff briefings.

Environment variables:
  VIGIL_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.SubmitCmd())
	rootCmd.AddCommand(client.BriefingsCmd())
	rootCmd.AddCommand(client.GraphCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
