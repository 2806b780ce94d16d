//go:build linux

package sound

import (
	"context"
	"sync"

	"github.com/jfreymuth/pulse"
)

// PlatformOpener connects to the PulseAudio (or PipeWire-pulse) server. The
// client connection is the output; closing it releases the server session.
func PlatformOpener(sampleRate int) (Output, error) {
	c, err := pulse.NewClient()
	if err != nil {
		return nil, err
	}
	return &pulseOutput{client: c, sampleRate: sampleRate}, nil
}

type pulseOutput struct {
	mu         sync.Mutex
	client     *pulse.Client
	sampleRate int
}

func (o *pulseOutput) Play(ctx context.Context, samples []int16) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pos := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if pos >= len(samples) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, samples[pos:])
		pos += n
		return n, nil
	})

	o.mu.Lock()
	client := o.client
	o.mu.Unlock()

	stream, err := client.NewPlayback(reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(o.sampleRate),
		pulse.PlaybackLatency(0.1),
	)
	if err != nil {
		return err
	}
	stream.Start()
	stream.Drain()
	stream.Stop()
	stream.Close()
	return nil
}

// A pulse connection is never suspended by the server.
func (o *pulseOutput) Suspended() bool { return false }
func (o *pulseOutput) Resume() error   { return nil }

func (o *pulseOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.client.Close()
	return nil
}
