//go:build !linux

package sound

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// oto allows exactly one context per process, so the device context is
// created once and Close only suspends it. The first sample rate wins.
var (
	otoOnce   sync.Once
	otoCtx    *oto.Context
	otoDevice *sharedDevice
	otoRate   int
	otoErr    error
)

// PlatformOpener opens the oto device (CoreAudio, WASAPI, ...).
func PlatformOpener(sampleRate int) (Output, error) {
	otoOnce.Do(func() {
		var ready chan struct{}
		otoCtx, ready, otoErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		})
		if otoErr == nil {
			<-ready
			otoRate = sampleRate
			otoDevice = newSharedDevice(otoCtx)
		}
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoRate != sampleRate {
		return nil, fmt.Errorf("audio device already opened at %d Hz", otoRate)
	}
	return &otoOutput{sharedDevice: otoDevice, ctx: otoCtx}, nil
}

// otoOutput plays on the shared context. Suspend state lives on the device
// so it survives Close and reopen.
type otoOutput struct {
	*sharedDevice
	ctx *oto.Context
}

func (o *otoOutput) Play(ctx context.Context, samples []int16) error {
	buf := new(bytes.Buffer)
	buf.Grow(len(samples) * 2)
	if err := binary.Write(buf, binary.LittleEndian, samples); err != nil {
		return err
	}

	player := o.ctx.NewPlayer(buf)
	defer player.Close()
	player.Play()

	tick := time.NewTicker(5 * time.Millisecond)
	defer tick.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}
	return player.Err()
}

func (o *otoOutput) Close() error {
	return o.Suspend()
}
