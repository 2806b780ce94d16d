package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"luna/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change notification settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current notification settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set NAME=VALUE...",
	Short: "Change one or more notification settings",
	Long: `Applies NAME=VALUE assignments as one update. Names are matched
case-insensitively and may use dashes: quiet-hours-start=23:00.

Settings: ` + strings.Join(settings.FieldNames(), ", "),
	Args: cobra.MinimumNArgs(1),
	RunE: runSettingsSet,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) (err error) {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine(e, &err)

	return printSettings(cmd.OutOrStdout(), e.Settings().Snapshot())
}

func runSettingsSet(cmd *cobra.Command, args []string) (err error) {
	patch, err := settings.ParsePatch(args)
	if err != nil {
		return err
	}

	e, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine(e, &err)

	updated, err := e.Settings().Update(patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %s\n", strings.Join(patch.Fields(), ", "))
	return printSettings(cmd.OutOrStdout(), updated)
}

func printSettings(w io.Writer, s settings.NotificationSettings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
