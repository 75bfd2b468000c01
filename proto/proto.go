package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgLogLine Kind = iota + 1
	MsgError
	MsgPointer
	MsgCardStart
	MsgCardDiscard
	MsgCardRevealed
)

// ErrCode is a generic error category for MsgError responses.
type ErrCode uint16

const (
	ErrUnknown ErrCode = iota
	ErrBadMessage
	ErrBusy
	ErrInternal
)

func (c ErrCode) String() string {
	switch c {
	case ErrUnknown:
		return "unknown"
	case ErrBadMessage:
		return "bad_message"
	case ErrBusy:
		return "busy"
	case ErrInternal:
		return "internal"
	default:
		return "unknown"
	}
}

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgError:
		return "error"
	case MsgPointer:
		return "pointer"
	case MsgCardStart:
		return "card_start"
	case MsgCardDiscard:
		return "card_discard"
	case MsgCardRevealed:
		return "card_revealed"
	default:
		return "unknown"
	}
}
