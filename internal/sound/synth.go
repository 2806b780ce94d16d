package sound

import (
	"context"
	"math"

	"go.uber.org/zap"
)

// attackMs is the linear fade-in at the start of every tone.
const attackMs = 10

// ClampVolume limits v to [0, 1].
func ClampVolume(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Render produces mono signed 16-bit samples for p at the given volume. Tones
// follow each other without gaps; each ramps linearly to Gain*pattern*volume
// over the attack, then linearly back to silence by the end of Duration.
func Render(p Profile, volume float64, sampleRate int) []int16 {
	volume = ClampVolume(volume)
	perTone := sampleRate * p.Duration / 1000
	attack := min(sampleRate*attackMs/1000, perTone)

	out := make([]int16, 0, perTone*len(p.Pattern))
	for _, level := range p.Pattern {
		peak := p.Gain * level * volume
		for i := 0; i < perTone; i++ {
			env := envelope(i, attack, perTone, peak)
			x := p.Frequency * float64(i) / float64(sampleRate)
			out = append(out, toSample(env*oscillate(p.Waveform, x)))
		}
	}
	return out
}

func envelope(i, attack, total int, peak float64) float64 {
	if i < attack {
		return peak * float64(i) / float64(attack)
	}
	release := total - attack
	if release <= 0 {
		return 0
	}
	return peak * float64(total-i) / float64(release)
}

// oscillate evaluates one waveform period-normalised at x cycles.
func oscillate(w Waveform, x float64) float64 {
	s := math.Sin(2 * math.Pi * x)
	switch w {
	case Square:
		if s >= 0 {
			return 1
		}
		return -1
	case Triangle:
		return 2 / math.Pi * math.Asin(s)
	default:
		return s
	}
}

func toSample(v float64) int16 {
	v = math.Max(-1, math.Min(1, v))
	return int16(math.Round(v * math.MaxInt16))
}

// Synthesizer plays profiles through a shared AudioContext.
type Synthesizer struct {
	audio *AudioContext
	log   *zap.Logger
}

// NewSynthesizer returns a synthesizer playing through audio.
func NewSynthesizer(audio *AudioContext, log *zap.Logger) *Synthesizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synthesizer{audio: audio, log: log}
}

// Play renders the named profile and blocks until every tone has been played.
// An unknown profile is returned as an error wrapping ErrUnknownProfile; audio
// failures are logged and swallowed so alerting never blocks the caller.
func (s *Synthesizer) Play(ctx context.Context, name string, volume float64) error {
	p, err := Lookup(name)
	if err != nil {
		return err
	}

	out, err := s.audio.EnsureReady()
	if err != nil {
		s.log.Warn("audio unavailable", zap.String("profile", name), zap.Error(err))
		return nil
	}

	samples := Render(p, volume, s.audio.SampleRate())
	if err := out.Play(ctx, samples); err != nil {
		s.log.Warn("playback failed", zap.String("profile", name), zap.Error(err))
		return nil
	}
	s.log.Debug("played sound", zap.String("profile", name), zap.Float64("volume", ClampVolume(volume)))
	return nil
}
