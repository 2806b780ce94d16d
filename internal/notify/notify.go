// Package notify delivers the non-audio side of an alert: a desktop
// notification and a vibration cue. Platform back ends live in the
// build-tagged files; unsupported platforms get no-op implementations.
package notify

import "errors"

// AppName is shown as the sender of every notification.
const AppName = "luna"

// ErrUnsupported is returned when the platform has no notification surface.
var ErrUnsupported = errors.New("notifications not supported on this platform")

// Notification is one desktop notification. Tag identifies the thing being
// announced; a second notification with the same tag replaces the first
// where the platform supports it.
type Notification struct {
	Title string
	Body  string
	Tag   string
}

// Notifier sends desktop notifications.
type Notifier interface {
	Send(n Notification) error

	// IsSupported reports whether Send can reach a notification surface.
	IsSupported() bool
}

type noopNotifier struct{}

func (noopNotifier) Send(Notification) error { return ErrUnsupported }
func (noopNotifier) IsSupported() bool       { return false }

// New returns the platform notifier, or a no-op one when the platform tool
// is missing.
func New() Notifier {
	n := newPlatformNotifier()
	if n == nil || !n.IsSupported() {
		return noopNotifier{}
	}
	return n
}

// Noop returns a notifier that never delivers anything.
func Noop() Notifier {
	return noopNotifier{}
}
