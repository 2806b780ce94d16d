package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the schedulers without the dashboard",
	Long: `Runs the reminder and sleep alert schedulers in the foreground until
interrupted. Changes made by other luna commands are picked up while it runs.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, args []string) (err error) {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine(e, &err)

	fmt.Fprintf(cmd.OutOrStdout(), "luna running (data: %s). Press Ctrl+C to stop.\n", e.DataDir())
	return e.Run(cmd.Context())
}
