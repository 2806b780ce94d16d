package notify

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Pattern alternates on and off durations, starting with on.
type Pattern []time.Duration

// DefaultPattern is the buzz-pause-buzz used for every alert.
var DefaultPattern = Pattern{200 * time.Millisecond, 100 * time.Millisecond, 200 * time.Millisecond}

// PatternFromMillis converts a config list of milliseconds.
func PatternFromMillis(ms []int) Pattern {
	if len(ms) == 0 {
		return DefaultPattern
	}
	p := make(Pattern, len(ms))
	for i, v := range ms {
		p[i] = time.Duration(v) * time.Millisecond
	}
	return p
}

// Total is the wall time the pattern takes.
func (p Pattern) Total() time.Duration {
	var d time.Duration
	for _, v := range p {
		d += v
	}
	return d
}

// Vibrator triggers a haptic-style cue.
type Vibrator interface {
	Vibrate(ctx context.Context, p Pattern) error
	IsSupported() bool
}

// BellVibrator renders a vibration pattern as terminal bells: one BEL at the
// start of every "on" segment. Desktops have no vibration motor; the bell is
// what a terminal user feels instead.
type BellVibrator struct {
	mu sync.Mutex
	w  io.Writer
	tt bool
}

// NewBellVibrator writes bells to w. It is only supported when w is a
// terminal.
func NewBellVibrator(w io.Writer) *BellVibrator {
	tt := false
	if f, ok := w.(*os.File); ok {
		tt = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &BellVibrator{w: w, tt: tt}
}

// IsSupported reports whether the bell reaches a terminal.
func (b *BellVibrator) IsSupported() bool {
	return b.tt
}

// Vibrate plays p, returning early if ctx is cancelled.
func (b *BellVibrator) Vibrate(ctx context.Context, p Pattern) error {
	if !b.tt {
		return ErrUnsupported
	}
	for i, d := range p {
		if i%2 == 0 {
			b.mu.Lock()
			_, err := io.WriteString(b.w, "\a")
			b.mu.Unlock()
			if err != nil {
				return err
			}
		}
		if err := sleep(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type noopVibrator struct{}

func (noopVibrator) Vibrate(context.Context, Pattern) error { return ErrUnsupported }
func (noopVibrator) IsSupported() bool                      { return false }

// NoopVibrator returns a vibrator for headless runs.
func NoopVibrator() Vibrator {
	return noopVibrator{}
}
