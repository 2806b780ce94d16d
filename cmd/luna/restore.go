package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"luna/internal/backup"
)

var (
	restoreLatest bool
	restoreForce  bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore [BACKUP_NAME]",
	Short: "Restore data from a backup",
	Long: `Restores settings, reminders and sleep alerts from a backup. A safety
backup of the current data is created first. Use 'luna backup --list' to see
available backups.`,
	Example: `  luna restore 2026-08-20_143022_000
  luna restore --latest --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().BoolVar(&restoreLatest, "latest", false, "restore from the most recent backup")
	restoreCmd.Flags().BoolVarP(&restoreForce, "force", "f", false, "skip confirmation prompt")
}

func runRestore(cmd *cobra.Command, args []string) (err error) {
	manager, store, err := openBackups()
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, store.Close()) }()

	var name string
	switch {
	case restoreLatest:
		backups, err := manager.List()
		if err != nil {
			return fmt.Errorf("listing backups: %w", err)
		}
		if len(backups) == 0 {
			return backup.ErrNoBackups
		}
		name = backups[0].Name
	case len(args) == 1:
		name = args[0]
	default:
		return errors.New("no backup specified: use 'luna restore BACKUP_NAME' or 'luna restore --latest'")
	}

	info, err := manager.GetBackup(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Restoring from backup: %s\n", info.Name)
	fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  %s\n\n", formatStats(info.Stats))

	if !restoreForce {
		fmt.Fprintln(out, "⚠ This will overwrite your current data.")
		fmt.Fprint(out, "Continue? [y/N] ")

		response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading input: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Restore cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "✓ Creating safety backup first...")
	if err := manager.Restore(name); err != nil {
		return fmt.Errorf("restoring backup: %w", err)
	}
	fmt.Fprintf(out, "✓ Restored successfully from %s\n", name)
	return nil
}
