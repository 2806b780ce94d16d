package sound

import "sync"

// suspender is a device that can be paused and resumed but not reopened.
type suspender interface {
	Suspend() error
	Resume() error
}

// sharedDevice tracks the suspend state of a process-wide device. Outputs
// come and go but the device outlives them, so a fresh output opened after
// a Teardown still reports the device as suspended and gets resumed.
type sharedDevice struct {
	mu        sync.Mutex
	dev       suspender
	suspended bool
}

func newSharedDevice(dev suspender) *sharedDevice {
	return &sharedDevice{dev: dev}
}

func (d *sharedDevice) Suspended() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.suspended
}

func (d *sharedDevice) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.dev.Resume(); err != nil {
		return err
	}
	d.suspended = false
	return nil
}

func (d *sharedDevice) Suspend() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.dev.Suspend(); err != nil {
		return err
	}
	d.suspended = true
	return nil
}
