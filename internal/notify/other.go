//go:build !darwin && !linux

package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// beeepNotifier covers Windows and the BSDs through beeep.
type beeepNotifier struct{}

func newPlatformNotifier() Notifier {
	return beeepNotifier{}
}

func (beeepNotifier) IsSupported() bool {
	return true
}

func (beeepNotifier) Send(n Notification) error {
	if err := beeep.Notify(n.Title, n.Body, ""); err != nil {
		return fmt.Errorf("beeep notify: %w", err)
	}
	return nil
}
