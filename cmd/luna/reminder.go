package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"luna/internal/reminder"
	"luna/internal/sound"
)

var (
	reminderAt          string
	reminderSound       string
	reminderIcon        string
	reminderSilent      bool
	reminderNoVibration bool
)

var reminderCmd = &cobra.Command{
	Use:     "reminder",
	Aliases: []string{"reminders", "r"},
	Short:   "Manage one-off reminders",
}

var reminderAddCmd = &cobra.Command{
	Use:   "add TITLE...",
	Short: "Schedule a reminder",
	Long: `Schedules a reminder. --at accepts a clock time (15:30, today or
tomorrow if already past), a delay (45m, +1h30m) or an RFC 3339 timestamp.
Without --at the reminder is due in 30 minutes.`,
	Example: `  luna reminder add Drink water --at 45m
  luna reminder add Call mom --at 18:00 --sound chime`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReminderAdd,
}

var reminderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders, soonest first",
	Args:  cobra.NoArgs,
	RunE:  runReminderList,
}

var reminderRemoveCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete a reminder",
	Args:    cobra.ExactArgs(1),
	RunE:    runReminderRemove,
}

func init() {
	rootCmd.AddCommand(reminderCmd)
	reminderCmd.AddCommand(reminderAddCmd, reminderListCmd, reminderRemoveCmd)

	reminderAddCmd.Flags().StringVar(&reminderAt, "at", "", "when the reminder is due")
	reminderAddCmd.Flags().StringVar(&reminderSound, "sound", "", "sound profile (default: the defaultSoundType setting)")
	reminderAddCmd.Flags().StringVar(&reminderIcon, "icon", reminder.DefaultIcon, "icon shown with the reminder")
	reminderAddCmd.Flags().BoolVar(&reminderSilent, "silent", false, "do not play a sound")
	reminderAddCmd.Flags().BoolVar(&reminderNoVibration, "no-vibration", false, "do not vibrate")
}

func runReminderAdd(cmd *cobra.Command, args []string) (err error) {
	if reminderSound != "" && !sound.Valid(reminderSound) {
		return fmt.Errorf("%w: %q", sound.ErrUnknownProfile, reminderSound)
	}

	e, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine(e, &err)

	now := e.Now()
	due, err := reminder.ParseDue(reminderAt, now)
	if err != nil {
		return err
	}

	r := reminder.New(strings.Join(args, " "), due)
	r.Icon = reminderIcon
	r.SoundType = reminderSound
	r.Sound = !reminderSilent
	r.Vibration = !reminderNoVibration

	added, err := e.AddReminder(r)
	if err != nil {
		return err
	}
	e.Wait()
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s %s %s (%s)\n  id: %s\n",
		added.Icon, added.Title, reminder.RemainingTime(added.Time, now),
		added.Time.Format("Mon 15:04"), added.ID)
	return nil
}

func runReminderList(cmd *cobra.Command, args []string) (err error) {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine(e, &err)

	out := cmd.OutOrStdout()
	list := e.Reminders().List()
	if len(list) == 0 {
		fmt.Fprintln(out, "No reminders.")
		fmt.Fprintln(out, "Run 'luna reminder add TITLE --at WHEN' to add one.")
		return nil
	}

	sortByDue(list)
	now := e.Now()
	for _, r := range list {
		status := reminder.RemainingTime(r.Time, now)
		if e.Reminders().Fired(r.ID) {
			status = "done"
		}
		fmt.Fprintf(out, "%s  %s  %-14s %s %s\n",
			r.ID, r.Time.Local().Format("Jan 2 15:04"), status, r.Icon, r.Title)
	}
	return nil
}

func runReminderRemove(cmd *cobra.Command, args []string) (err error) {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine(e, &err)

	r, ok := e.Reminders().Get(args[0])
	if err := e.Reminders().Remove(args[0]); err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", r.Title)
	}
	return nil
}

func sortByDue(list []reminder.Reminder) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Time.Before(list[j].Time)
	})
}
