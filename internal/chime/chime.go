// Package chime synthesises the short audio cues of a scratch session and
// plays them on the HAL audio sink.
package chime

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// SampleRate is the rate cues are rendered and played at.
const SampleRate = beep.SampleRate(22050)

// Cue identifies a sound.
type Cue uint8

const (
	CueStarted Cue = iota + 1
	CueTier
	CueComplete
)

func (c Cue) String() string {
	switch c {
	case CueStarted:
		return "started"
	case CueTier:
		return "tier"
	case CueComplete:
		return "complete"
	default:
		return "unknown"
	}
}

const (
	noteLen   = 90 * time.Millisecond
	noteGap   = 20 * time.Millisecond
	tickLen   = 60 * time.Millisecond
	bellLen   = 300 * time.Millisecond
	maxRender = 2 * time.Second
)

// C major, from C5 up.
var scale = []float64{523.25, 587.33, 659.25, 698.46, 783.99, 880.00, 987.77, 1046.50}

// Synth builds the streamer for a cue. step selects the pitch of tier cues
// (1 for the first tier). volume is linear in [0, 1].
func Synth(cue Cue, step int, volume float64) beep.Streamer {
	var s beep.Streamer
	switch cue {
	case CueStarted:
		s = tone(scale[2], tickLen)
	case CueTier:
		i := 2 * step
		if i < 0 {
			i = 0
		}
		if i >= len(scale) {
			i = len(scale) - 1
		}
		s = tone(scale[i], noteLen)
	case CueComplete:
		s = beep.Seq(
			tone(scale[0], noteLen), beep.Silence(SampleRate.N(noteGap)),
			tone(scale[2], noteLen), beep.Silence(SampleRate.N(noteGap)),
			tone(scale[4], noteLen), beep.Silence(SampleRate.N(noteGap)),
			bell(scale[7]),
		)
	default:
		return beep.Silence(0)
	}
	return withVolume(s, volume)
}

// Render streams s into mono 16-bit samples.
func Render(s beep.Streamer) []int16 {
	limit := SampleRate.N(maxRender)
	out := make([]int16, 0, SampleRate.N(time.Second/2))
	buf := make([][2]float64, 512)
	for len(out) < limit {
		n, ok := s.Stream(buf)
		for i := 0; i < n && len(out) < limit; i++ {
			v := (buf[i][0] + buf[i][1]) / 2
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			out = append(out, int16(v*math.MaxInt16))
		}
		if !ok || n == 0 {
			break
		}
	}
	return out
}

func tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(SampleRate, freq)
	if err != nil {
		return beep.Silence(SampleRate.N(d))
	}
	return beep.Take(SampleRate.N(d), fade(sine, SampleRate.N(d)))
}

// bell mixes a note with its octave, decaying over bellLen.
func bell(freq float64) beep.Streamer {
	n := SampleRate.N(bellLen)
	fund, err1 := generators.SineTone(SampleRate, freq)
	over, err2 := generators.SineTone(SampleRate, freq*2)
	if err1 != nil || err2 != nil {
		return beep.Silence(n)
	}
	mixed := beep.Mix(withVolume(fund, 0.7), withVolume(over, 0.3))
	return beep.Take(n, fade(mixed, n))
}

// fade ramps a streamer linearly down to silence over total samples.
func fade(s beep.Streamer, total int) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := 0; i < n; i++ {
			g := 1 - float64(pos)/float64(total)
			if g < 0 {
				g = 0
			}
			samples[i][0] *= g
			samples[i][1] *= g
			pos++
		}
		return n, ok
	})
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
