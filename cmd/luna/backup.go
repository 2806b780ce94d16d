package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"luna/internal/backup"
	"luna/internal/kv"
)

var (
	backupList  bool
	backupPrune int
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create and manage backups",
	Long: `Creates a timestamped backup of settings, reminders and sleep alerts.
Backups are stored in ~/.luna/backups/ and can be restored later, into
either storage backend.`,
	Example: `  luna backup
  luna backup --list
  luna backup --prune 5`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().BoolVarP(&backupList, "list", "l", false, "list available backups")
	backupCmd.Flags().IntVar(&backupPrune, "prune", -1, "delete all but the N most recent backups")
}

// openBackups opens the configured store and a backup manager over it.
func openBackups() (*backup.Manager, kv.Store, error) {
	dataDir := cfg.GetDataDir()
	store, err := kv.Open(cfg.Storage.Backend, dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return backup.NewManager(store, dataDir, version), store, nil
}

func runBackup(cmd *cobra.Command, args []string) (err error) {
	manager, store, err := openBackups()
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, store.Close()) }()

	out := cmd.OutOrStdout()
	switch {
	case backupList:
		return listBackups(out, manager)
	case backupPrune >= 0:
		deleted, err := manager.Prune(backupPrune)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Deleted %d old backup(s)\n", deleted)
		return nil
	}

	name, err := manager.Create()
	if err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}
	info, err := manager.GetBackup(name)
	if err != nil {
		return fmt.Errorf("reading backup info: %w", err)
	}

	fmt.Fprintf(out, "✓ Backup created: %s\n", name)
	fmt.Fprintf(out, "  %s\n", formatStats(info.Stats))
	fmt.Fprintf(out, "  Location: %s\n", info.Path)
	return nil
}

// listBackups lists all available backups.
func listBackups(out io.Writer, manager *backup.Manager) error {
	backups, err := manager.List()
	if err != nil {
		return fmt.Errorf("listing backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Fprintln(out, "No backups available.")
		fmt.Fprintln(out, "Run 'luna backup' to create one.")
		return nil
	}

	fmt.Fprintln(out, "Available backups:")
	for _, b := range backups {
		fmt.Fprintf(out, "  %s  (%s)   %s\n", b.Name, formatAge(b.CreatedAt), formatStats(b.Stats))
	}
	return nil
}

// formatStats renders per-key item counts as "reminders: 2, settings: 1".
func formatStats(stats map[string]int) string {
	if len(stats) == 0 {
		return "empty"
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %d", k, stats[k])
	}
	return strings.Join(parts, ", ")
}

// formatAge returns a human-readable age string.
func formatAge(t time.Time) string {
	d := time.Since(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	default:
		return plural(int(d.Hours()/24/7), "week")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
