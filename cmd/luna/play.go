package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"luna/internal/sound"
)

var playVolume float64

var playCmd = &cobra.Command{
	Use:   "play [PROFILE]",
	Short: "Play a sound profile, or list them",
	Long: `Plays one of the built-in sound profiles (` + strings.Join(sound.Names(), ", ") + `)
and waits for it to finish. Quiet hours are ignored. Without a profile the
available profiles are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().Float64Var(&playVolume, "volume", -1, "volume from 0 to 1 (default: the notification volume setting)")
}

func runPlay(cmd *cobra.Command, args []string) (err error) {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		for _, name := range sound.Names() {
			p, _ := sound.Lookup(name)
			fmt.Fprintf(out, "%-8s %s %4.0f Hz, %d ms\n", p.Name, p.Waveform, p.Frequency, p.TotalDuration())
		}
		return nil
	}

	profile := args[0]
	if !sound.Valid(profile) {
		return fmt.Errorf("%w: %q (choose from %s)", sound.ErrUnknownProfile, profile, strings.Join(sound.Names(), ", "))
	}
	if playVolume > 1 {
		return fmt.Errorf("volume %.2f is out of range 0-1", playVolume)
	}

	e, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine(e, &err)

	volume := playVolume
	if volume < 0 {
		volume = e.Settings().Snapshot().NotificationVolume
	}
	return e.PlayNow(cmd.Context(), profile, volume)
}
