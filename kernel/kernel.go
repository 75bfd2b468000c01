package kernel

import "sync"

const (
	maxEndpoints = 32
	mailboxSlots = 32
)

type TaskID uint8

// Rights define which operations are allowed for a capability.
type Rights uint8

const (
	RightSend Rights = 1 << iota
	RightRecv
)

// Endpoint identifies an IPC destination.
type Endpoint uint8

// Capability grants access to an IPC endpoint.
//
// It is opaque by construction (no exported fields) and may be transferred via IPC.
type Capability struct {
	ep     Endpoint
	rights Rights
}

func (c Capability) valid() bool {
	return c.rights != 0
}

func (c Capability) Valid() bool { return c.valid() }

func (c Capability) canSend() bool { return c.rights&RightSend != 0 }
func (c Capability) canRecv() bool { return c.rights&RightRecv != 0 }

// Restrict returns a capability with a reduced set of rights.
func (c Capability) Restrict(rights Rights) Capability {
	if !c.valid() {
		return Capability{}
	}
	r := c.rights & rights
	if r == 0 {
		return Capability{}
	}
	return Capability{ep: c.ep, rights: r}
}

// MaxMessageBytes is the maximum payload size for IPC messages.
const MaxMessageBytes = 128

// Message is a fixed-size IPC envelope.
type Message struct {
	From Endpoint
	To   Endpoint
	Kind uint16
	Len  uint16
	Data [MaxMessageBytes]byte
	Cap  Capability
}

// Payload returns the used part of Data.
func (m *Message) Payload() []byte {
	n := int(m.Len)
	if n > MaxMessageBytes {
		n = MaxMessageBytes
	}
	return m.Data[:n]
}

// SendResult describes the outcome of a send attempt.
type SendResult uint8

const (
	SendOK SendResult = iota
	SendErrInvalidFromCap
	SendErrInvalidToCap
	SendErrFromNoSendRight
	SendErrToNoSendRight
	SendErrNoEndpoint
	SendErrPayloadTooLarge
	SendErrQueueFull
)

func (r SendResult) String() string {
	switch r {
	case SendOK:
		return "ok"
	case SendErrInvalidFromCap:
		return "invalid from capability"
	case SendErrInvalidToCap:
		return "invalid to capability"
	case SendErrFromNoSendRight:
		return "from capability has no send right"
	case SendErrToNoSendRight:
		return "to capability has no send right"
	case SendErrNoEndpoint:
		return "no such endpoint"
	case SendErrPayloadTooLarge:
		return "payload too large"
	case SendErrQueueFull:
		return "queue full"
	default:
		return "unknown"
	}
}

// Task is a unit of execution. Each task runs on its own goroutine and owns
// its state exclusively; other tasks reach it only through endpoints.
type Task interface {
	Run(*Context)
}

type endpointState struct {
	ch     chan Message
	closed bool
}

// Kernel routes IPC between tasks and distributes the tick time base.
type Kernel struct {
	mu            sync.Mutex
	endpoints     [maxEndpoints]endpointState
	endpointCount Endpoint
	taskCount     TaskID

	tickMu   sync.Mutex
	tickCond *sync.Cond
	tick     uint64

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	panics panicState
}

// New creates a kernel instance.
func New() *Kernel {
	k := &Kernel{done: make(chan struct{})}
	k.tickCond = sync.NewCond(&k.tickMu)
	return k
}

// NewEndpoint allocates a new endpoint and returns a capability for it.
func (k *Kernel) NewEndpoint(rights Rights) Capability {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.endpointCount >= maxEndpoints || rights == 0 {
		return Capability{}
	}
	ep := k.endpointCount
	k.endpointCount++
	k.endpoints[ep] = endpointState{ch: make(chan Message, mailboxSlots)}
	return Capability{ep: ep, rights: rights}
}

// CloseEndpoint makes further sends to the endpoint fail with SendErrNoEndpoint.
// Queued messages stay readable.
func (k *Kernel) CloseEndpoint(c Capability) {
	if !c.valid() {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if c.ep < k.endpointCount {
		k.endpoints[c.ep].closed = true
	}
}

// AddTask starts a task and returns its ID.
func (k *Kernel) AddTask(t Task) TaskID {
	k.mu.Lock()
	id := k.taskCount
	k.taskCount++
	k.mu.Unlock()

	k.wg.Add(1)
	go func() {
		defer k.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				k.triggerPanic(PanicInfo{TaskID: id, Value: r})
			}
		}()
		t.Run(&Context{k: k, taskID: id})
	}()
	return id
}

// Stop wakes all blocked tasks; Context.Done is closed and receives fail.
func (k *Kernel) Stop() {
	k.stopOnce.Do(func() {
		close(k.done)
		k.tickMu.Lock()
		k.tickCond.Broadcast()
		k.tickMu.Unlock()
	})
}

// Wait blocks until every task has returned from Run.
func (k *Kernel) Wait() { k.wg.Wait() }

func (k *Kernel) stopped() bool {
	select {
	case <-k.done:
		return true
	default:
		return false
	}
}

// TickTo advances the time base to seq. Older values are ignored.
func (k *Kernel) TickTo(seq uint64) {
	k.tickMu.Lock()
	if seq > k.tick {
		k.tick = seq
		k.tickCond.Broadcast()
	}
	k.tickMu.Unlock()
}

func (k *Kernel) nowTick() uint64 {
	k.tickMu.Lock()
	defer k.tickMu.Unlock()
	return k.tick
}

// waitTick blocks until the tick passes after or the kernel stops.
func (k *Kernel) waitTick(after uint64) uint64 {
	k.tickMu.Lock()
	defer k.tickMu.Unlock()
	for k.tick <= after && !k.stopped() {
		k.tickCond.Wait()
	}
	return k.tick
}

func (k *Kernel) send(from Endpoint, to Endpoint, kind uint16, payload []byte, xfer Capability) SendResult {
	msg, ch, res := k.prepare(from, to, kind, payload, xfer)
	if res != SendOK {
		return res
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.endpoints[to].closed {
		return SendErrNoEndpoint
	}
	select {
	case ch <- msg:
		return SendOK
	default:
		return SendErrQueueFull
	}
}

// sendWait blocks while the queue is full.
func (k *Kernel) sendWait(from Endpoint, to Endpoint, kind uint16, payload []byte, xfer Capability) SendResult {
	msg, ch, res := k.prepare(from, to, kind, payload, xfer)
	if res != SendOK {
		return res
	}
	k.mu.Lock()
	closed := k.endpoints[to].closed
	k.mu.Unlock()
	if closed {
		return SendErrNoEndpoint
	}
	select {
	case ch <- msg:
		return SendOK
	case <-k.done:
		return SendErrNoEndpoint
	}
}

func (k *Kernel) prepare(from Endpoint, to Endpoint, kind uint16, payload []byte, xfer Capability) (Message, chan Message, SendResult) {
	if len(payload) > MaxMessageBytes {
		return Message{}, nil, SendErrPayloadTooLarge
	}
	k.mu.Lock()
	if to >= k.endpointCount || k.endpoints[to].ch == nil {
		k.mu.Unlock()
		return Message{}, nil, SendErrNoEndpoint
	}
	ch := k.endpoints[to].ch
	k.mu.Unlock()

	var msg Message
	msg.From = from
	msg.To = to
	msg.Kind = kind
	msg.Len = uint16(len(payload))
	copy(msg.Data[:], payload)
	msg.Cap = xfer
	return msg, ch, SendOK
}
