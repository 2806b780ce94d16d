package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"luna/internal/sleep"
)

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Manage the bedtime and wake-up alerts",
}

var sleepShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print both sleep alerts",
	Args:  cobra.NoArgs,
	RunE:  runSleepShow,
}

var sleepToggleCmd = &cobra.Command{
	Use:       "toggle ID FIELD",
	Short:     "Flip enabled, sound or vibration on bedtime or wakeup",
	Example:   "  luna sleep toggle bedtime enabled",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(sleep.Bedtime), string(sleep.Wakeup)},
	RunE:      runSleepToggle,
}

var sleepTimeCmd = &cobra.Command{
	Use:     "time ID HH:MM",
	Short:   "Set when an alert fires",
	Example: "  luna sleep time wakeup 06:45",
	Args:    cobra.ExactArgs(2),
	RunE:    runSleepTime,
}

var sleepSoundCmd = &cobra.Command{
	Use:     "sound ID PROFILE",
	Short:   "Set an alert's sound and play a preview",
	Example: "  luna sleep sound bedtime soft",
	Args:    cobra.ExactArgs(2),
	RunE:    runSleepSound,
}

func init() {
	rootCmd.AddCommand(sleepCmd)
	sleepCmd.AddCommand(sleepShowCmd, sleepToggleCmd, sleepTimeCmd, sleepSoundCmd)
}

func runSleepShow(cmd *cobra.Command, args []string) (err error) {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine(e, &err)

	if !e.Settings().Snapshot().SleepAlertsEnabled {
		fmt.Fprintln(cmd.OutOrStdout(), "Sleep alerts are paused (settings set sleepAlertsEnabled=true to resume).")
	}
	for _, a := range e.Sleep().List() {
		printSleepAlert(cmd.OutOrStdout(), a)
	}
	return nil
}

func runSleepToggle(cmd *cobra.Command, args []string) (err error) {
	return updateSleep(cmd, func(s *sleep.Scheduler) (sleep.Alert, error) {
		return s.Toggle(args[0], sleep.Field(args[1]))
	})
}

func runSleepTime(cmd *cobra.Command, args []string) (err error) {
	return updateSleep(cmd, func(s *sleep.Scheduler) (sleep.Alert, error) {
		return s.SetTime(args[0], args[1])
	})
}

func runSleepSound(cmd *cobra.Command, args []string) (err error) {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine(e, &err)

	a, err := e.SetSleepSound(args[0], args[1])
	if err != nil {
		return err
	}
	e.Wait()
	printSleepAlert(cmd.OutOrStdout(), a)
	return nil
}

func updateSleep(cmd *cobra.Command, fn func(*sleep.Scheduler) (sleep.Alert, error)) (err error) {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine(e, &err)

	a, err := fn(e.Sleep())
	if err != nil {
		return err
	}
	printSleepAlert(cmd.OutOrStdout(), a)
	return nil
}

func printSleepAlert(w io.Writer, a sleep.Alert) {
	fmt.Fprintf(w, "%-8s %-8s %s  sound: %s (%s)  vibration: %s\n",
		a.ID, onOff(a.Enabled), a.Time, onOff(a.Sound), a.SoundType, onOff(a.Vibration))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
