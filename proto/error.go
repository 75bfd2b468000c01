package proto

import "encoding/binary"

const errorHeader = 4

// ErrorPayload encodes a MsgError reply: u16 code, u16 kind of the failed
// request, then optional detail bytes, little-endian. Detail is cut so the
// payload fits in one message.
func ErrorPayload(code ErrCode, ref Kind, detail []byte) []byte {
	if len(detail) > MaxLogLine-errorHeader {
		detail = detail[:MaxLogLine-errorHeader]
	}
	b := binary.LittleEndian.AppendUint16(make([]byte, 0, errorHeader+len(detail)), uint16(code))
	b = binary.LittleEndian.AppendUint16(b, uint16(ref))
	return append(b, detail...)
}

func DecodeErrorPayload(b []byte) (code ErrCode, ref Kind, detail []byte, ok bool) {
	if len(b) < errorHeader {
		return 0, 0, nil, false
	}
	return ErrCode(binary.LittleEndian.Uint16(b)), Kind(binary.LittleEndian.Uint16(b[2:])), b[errorHeader:], true
}
