package proto

import (
	"encoding/binary"
	"math"
)

// Pointer mirrors hal.PointerEvent on the wire.
type Pointer struct {
	Action uint8
	Source uint8
	ID     int32
	X, Y   float64
}

const pointerPayloadLen = 22

// PointerPayload encodes a MsgPointer payload.
//
// Layout (little-endian):
//   - u8: action
//   - u8: source
//   - i32: contact id
//   - f64: x (display pixels, relative to the receiver's origin)
//   - f64: y
func PointerPayload(p Pointer) []byte {
	buf := make([]byte, pointerPayloadLen)
	buf[0] = p.Action
	buf[1] = p.Source
	binary.LittleEndian.PutUint32(buf[2:6], uint32(p.ID))
	binary.LittleEndian.PutUint64(buf[6:14], math.Float64bits(p.X))
	binary.LittleEndian.PutUint64(buf[14:22], math.Float64bits(p.Y))
	return buf
}

func DecodePointerPayload(b []byte) (Pointer, bool) {
	if len(b) != pointerPayloadLen {
		return Pointer{}, false
	}
	return Pointer{
		Action: b[0],
		Source: b[1],
		ID:     int32(binary.LittleEndian.Uint32(b[2:6])),
		X:      math.Float64frombits(binary.LittleEndian.Uint64(b[6:14])),
		Y:      math.Float64frombits(binary.LittleEndian.Uint64(b[14:22])),
	}, true
}
