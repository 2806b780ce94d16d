package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var quietCmd = &cobra.Command{
	Use:   "quiet",
	Short: "Report whether quiet hours are in effect now",
	Long: `Prints the quiet-hours window and whether it applies right now. During
quiet hours sounds and vibration are muted; notifications are still shown.`,
	Args: cobra.NoArgs,
	RunE: runQuiet,
}

func init() {
	rootCmd.AddCommand(quietCmd)
}

func runQuiet(cmd *cobra.Command, args []string) (err error) {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine(e, &err)

	s := e.Settings().Snapshot()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Quiet hours: %s (%s-%s)\n", onOff(s.QuietHoursEnabled), s.QuietHoursStart, s.QuietHoursEnd)
	if s.IsQuietHours(e.Now()) {
		fmt.Fprintln(out, "Quiet now: yes")
	} else {
		fmt.Fprintln(out, "Quiet now: no")
	}
	return nil
}
