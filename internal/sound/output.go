package sound

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSampleRate is used when the configured rate is zero.
const DefaultSampleRate = 44100

// ErrAudioUnavailable wraps every failure to open the platform output.
var ErrAudioUnavailable = errors.New("audio output unavailable")

// Output is an open audio device that accepts mono 16-bit samples.
type Output interface {
	// Play blocks until samples have been handed to the device and drained.
	Play(ctx context.Context, samples []int16) error
	// Suspended reports whether the device must be resumed before playing.
	Suspended() bool
	Resume() error
	Close() error
}

// Opener opens a platform output at sampleRate.
type Opener func(sampleRate int) (Output, error)

// State is the lifecycle state of an AudioContext.
type State int

const (
	StateClosed State = iota
	StateSuspended
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	default:
		return "closed"
	}
}

// AudioContext owns the single output every sound in the process shares. It
// is created closed; EnsureReady opens and resumes it on demand.
type AudioContext struct {
	mu         sync.Mutex
	open       Opener
	sampleRate int
	out        Output
	log        *zap.Logger
}

// NewAudioContext returns a closed context that opens outputs with open.
func NewAudioContext(sampleRate int, open Opener, log *zap.Logger) *AudioContext {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if open == nil {
		open = NullOpener
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AudioContext{open: open, sampleRate: sampleRate, log: log}
}

// SampleRate is the rate outputs are opened at.
func (a *AudioContext) SampleRate() int {
	return a.sampleRate
}

// EnsureReady opens the output if there is none and resumes it if suspended.
// It is safe to call repeatedly and from several goroutines.
func (a *AudioContext) EnsureReady() (Output, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.out == nil {
		out, err := a.open(a.sampleRate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAudioUnavailable, err)
		}
		a.out = out
		a.log.Debug("audio output opened", zap.Int("sample_rate", a.sampleRate))
	}

	if a.out.Suspended() {
		if err := a.out.Resume(); err != nil {
			return nil, fmt.Errorf("resume audio output: %w", err)
		}
		a.log.Debug("audio output resumed")
	}
	return a.out, nil
}

// Teardown closes the output. A later EnsureReady opens a new one.
func (a *AudioContext) Teardown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.out == nil {
		return nil
	}
	err := a.out.Close()
	a.out = nil
	a.log.Debug("audio output closed")
	return err
}

// State reports whether the context is closed, suspended or running.
func (a *AudioContext) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case a.out == nil:
		return StateClosed
	case a.out.Suspended():
		return StateSuspended
	default:
		return StateRunning
	}
}

// nullOutput discards samples. It still takes as long as the audio would, so
// callers observe the same completion timing with sound disabled.
type nullOutput struct {
	sampleRate int
}

// NullOpener opens an output that plays silence.
func NullOpener(sampleRate int) (Output, error) {
	return &nullOutput{sampleRate: sampleRate}, nil
}

func (o *nullOutput) Play(ctx context.Context, samples []int16) error {
	d := time.Duration(len(samples)) * time.Second / time.Duration(o.sampleRate)
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *nullOutput) Suspended() bool { return false }
func (o *nullOutput) Resume() error   { return nil }
func (o *nullOutput) Close() error    { return nil }
