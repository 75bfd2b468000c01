package hal

const (
	keyboardQueue = 64
	pointerQueue  = 256
)

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, keyboardQueue)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *hostKeyboard) emit(ev KeyEvent) {
	select {
	case k.ch <- ev:
	default:
	}
}

type pointerContact struct {
	source PointerSource
	id     int
}

type hostPointer struct {
	ch chan PointerEvent

	// held keeps the newest move per contact that did not fit the queue.
	held  []PointerEvent
	heldN map[pointerContact]int

	// Last emitted positions, keyed by contact, in device pixels.
	mouseDown bool
	mouseX    int
	mouseY    int
	touches   map[int][2]int
}

func newHostPointer() *hostPointer {
	return &hostPointer{
		ch:      make(chan PointerEvent, pointerQueue),
		heldN:   make(map[pointerContact]int),
		touches: make(map[int][2]int),
	}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

// emit queues ev from the polling goroutine. Moves that do not fit are
// coalesced per contact; down and up wait for room so a gesture is never cut.
func (p *hostPointer) emit(ev PointerEvent) {
	if ev.Action == PointerMove {
		if p.flush(false) {
			select {
			case p.ch <- ev:
				return
			default:
			}
		}
		p.hold(ev)
		return
	}
	p.flush(true)
	p.ch <- ev
}

func (p *hostPointer) hold(ev PointerEvent) {
	c := pointerContact{source: ev.Source, id: ev.ID}
	if i, ok := p.heldN[c]; ok {
		p.held[i] = ev
		return
	}
	p.heldN[c] = len(p.held)
	p.held = append(p.held, ev)
}

// flush sends held moves in order. Without wait it stops at a full queue and
// reports whether everything went out.
func (p *hostPointer) flush(wait bool) bool {
	for len(p.held) > 0 {
		ev := p.held[0]
		if wait {
			p.ch <- ev
		} else {
			select {
			case p.ch <- ev:
			default:
				return false
			}
		}
		p.held = p.held[1:]
		delete(p.heldN, pointerContact{source: ev.Source, id: ev.ID})
		for c, i := range p.heldN {
			p.heldN[c] = i - 1
		}
	}
	p.held = nil
	return true
}
