package hal

import "time"

// hostTime turns frames into a cumulative 1ms tick count.
//
// Ticks carry the absolute count, so a lagging reader only needs the newest
// value: when the queue is full the oldest entry is dropped.
type hostTime struct {
	ch  chan uint64
	seq uint64

	last time.Time
	rem  time.Duration
}

const tickQueue = 64

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, tickQueue)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// frame advances by the wall-clock time since the previous frame. The first
// frame counts as one tick.
func (t *hostTime) frame() {
	now := time.Now()
	if t.last.IsZero() {
		t.last = now
		t.stepN(1)
		return
	}
	t.rem += now.Sub(t.last)
	t.last = now

	n := uint64(t.rem / time.Millisecond)
	t.rem %= time.Millisecond
	t.stepN(n)
}

// stepN advances exactly n ticks and publishes each value.
func (t *hostTime) stepN(n uint64) {
	for ; n > 0; n-- {
		t.seq++
		t.publish(t.seq)
	}
}

func (t *hostTime) publish(seq uint64) {
	for {
		select {
		case t.ch <- seq:
			return
		default:
		}
		select {
		case <-t.ch:
		default:
		}
	}
}
