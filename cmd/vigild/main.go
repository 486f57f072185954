package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/vigilai/internal/cli"
	"github.com/cloo-solutions/vigilai/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vigild",
		Short: "Vigil daemon",
		Long:  "Vigil daemon for running the shift-handoff API server",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
