//go:build cgo

package hal

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

var errAudioRate = errors.New("host audio: sample rate cannot change once audio has started")

// hostAudio plays mono samples through ebiten's audio package.
type hostAudio struct {
	pwm *hostPWMAudio
}

func newHostAudio() hostAudio {
	return hostAudio{pwm: &hostPWMAudio{vol: 0xff}}
}

func (a hostAudio) PWM() PWMAudio { return a.pwm }

// hostPWMAudio buffers up to a quarter second of samples. The ebiten player
// pulls from the buffer and pads with silence when it runs dry.
type hostPWMAudio struct {
	mu      sync.Mutex
	notFull *sync.Cond

	actx   *audio.Context
	player *audio.Player

	queue   []int16
	limit   int
	running bool
	vol     uint8
}

func (a *hostPWMAudio) Start(sampleRate uint32) error {
	if sampleRate == 0 {
		return errors.New("host audio: zero sample rate")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.notFull == nil {
		a.notFull = sync.NewCond(&a.mu)
	}
	// ebiten allows a single audio context per process.
	switch {
	case a.actx == nil:
		a.actx = audio.NewContext(int(sampleRate))
	case a.actx.SampleRate() != int(sampleRate):
		return errAudioRate
	}
	if a.running {
		return nil
	}

	a.limit = max(int(sampleRate/4), 1024)
	a.queue = a.queue[:0]
	p, err := a.actx.NewPlayer(hostAudioStream{a: a})
	if err != nil {
		return err
	}
	p.SetBufferSize(50 * time.Millisecond)
	p.SetVolume(float64(a.vol) / 0xff)
	p.Play()
	a.player = p
	a.running = true
	return nil
}

func (a *hostPWMAudio) Stop() error {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return nil
	}
	a.running = false
	a.queue = a.queue[:0]
	a.notFull.Broadcast()
	p := a.player
	a.player = nil
	a.mu.Unlock()

	return p.Close()
}

func (a *hostPWMAudio) SetVolume(vol uint8) {
	a.mu.Lock()
	a.vol = vol
	p := a.player
	a.mu.Unlock()
	if p != nil {
		p.SetVolume(float64(vol) / 0xff)
	}
}

func (a *hostPWMAudio) WriteSample(sample int16) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for a.running && len(a.queue) >= a.limit {
		a.notFull.Wait()
	}
	if !a.running {
		return
	}
	a.queue = append(a.queue, sample)
}

func (a *hostPWMAudio) PendingSamples() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.queue)
}

// hostAudioStream is the io.Reader handed to the ebiten player.
type hostAudioStream struct {
	a *hostPWMAudio
}

// Read fills p with 16-bit little-endian stereo frames.
func (s hostAudioStream) Read(p []byte) (int, error) {
	a := s.a
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return 0, io.EOF
	}

	frames := len(p) / 4
	n := min(frames, len(a.queue))
	for i := 0; i < frames; i++ {
		var v int16
		if i < n {
			v = a.queue[i]
		}
		off := i * 4
		p[off], p[off+1] = byte(v), byte(v>>8)
		p[off+2], p[off+3] = byte(v), byte(v>>8)
	}
	if n > 0 {
		a.queue = append(a.queue[:0], a.queue[n:]...)
		a.notFull.Broadcast()
	}
	return frames * 4, nil
}
