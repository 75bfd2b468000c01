package kernel

import (
	"runtime/debug"
	"sync"
)

// PanicInfo contains details about a recovered panic.
type PanicInfo struct {
	TaskID TaskID
	Value  any
	Stack  []byte
}

type panicState struct {
	mu      sync.Mutex
	once    sync.Once
	active  bool
	handler func(PanicInfo)
}

// InPanicMode reports whether a task of this kernel has panicked.
func (k *Kernel) InPanicMode() bool {
	k.panics.mu.Lock()
	defer k.panics.mu.Unlock()
	return k.panics.active
}

// SetPanicHandler installs the kernel's panic handler.
//
// The handler is invoked at most once (on the first panic). It must not panic.
func (k *Kernel) SetPanicHandler(fn func(PanicInfo)) {
	k.panics.mu.Lock()
	k.panics.handler = fn
	k.panics.mu.Unlock()
}

func (k *Kernel) triggerPanic(info PanicInfo) {
	k.panics.once.Do(func() {
		k.panics.mu.Lock()
		k.panics.active = true
		fn := k.panics.handler
		k.panics.mu.Unlock()

		info.Stack = debug.Stack()
		if fn != nil {
			fn(info)
		}
	})
}
