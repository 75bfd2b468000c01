//go:build !cgo

package hal

func (p *hostPointer) poll(scale float64) {
	_ = scale
	// No pointer support without the window backend.
}
