package proto

import (
	"encoding/binary"
	"math"
)

// CardStartPayload asks the card task to cover a new result.
//
// The sender passes a reply capability in msg.Cap; MsgCardRevealed and
// MsgError responses go there.
//
// Layout (little-endian):
//   - u32: card id
//   - f64: result
func CardStartPayload(id uint32, result float64) []byte {
	return cardPayload(id, result)
}

func DecodeCardStartPayload(b []byte) (id uint32, result float64, ok bool) {
	return decodeCardPayload(b)
}

// CardRevealedPayload reports that the card finished its reveal.
//
// Layout matches CardStartPayload.
func CardRevealedPayload(id uint32, result float64) []byte {
	return cardPayload(id, result)
}

func DecodeCardRevealedPayload(b []byte) (id uint32, result float64, ok bool) {
	return decodeCardPayload(b)
}

// CardDiscardPayload drops the card with the given id, if it is current.
//
// Layout: u32 card id.
func CardDiscardPayload(id uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, id)
	return buf
}

func DecodeCardDiscardPayload(b []byte) (id uint32, ok bool) {
	if len(b) != 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func cardPayload(id uint32, result float64) []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:4], id)
	binary.LittleEndian.PutUint64(buf[4:12], math.Float64bits(result))
	return buf
}

func decodeCardPayload(b []byte) (id uint32, result float64, ok bool) {
	if len(b) != 12 {
		return 0, 0, false
	}
	id = binary.LittleEndian.Uint32(b[0:4])
	result = math.Float64frombits(binary.LittleEndian.Uint64(b[4:12]))
	return id, result, true
}
