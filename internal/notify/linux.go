//go:build linux

package notify

import (
	"fmt"
	"os/exec"
)

// linuxNotifier shells out to notify-send.
type linuxNotifier struct{}

func newPlatformNotifier() Notifier {
	return linuxNotifier{}
}

func (linuxNotifier) IsSupported() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

func (linuxNotifier) Send(n Notification) error {
	cmd := exec.Command("notify-send", notifySendArgs(n)...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}

// notifySendArgs maps the tag onto the stacking hints dunst and GNOME Shell
// use to replace an earlier notification instead of stacking a new one.
func notifySendArgs(n Notification) []string {
	args := []string{"--app-name=" + AppName, "--urgency=normal"}
	if n.Tag != "" {
		args = append(args,
			"--hint=string:x-dunst-stack-tag:"+n.Tag,
			"--hint=string:x-canonical-private-synchronous:"+n.Tag,
		)
	}
	return append(args, n.Title, n.Body)
}
