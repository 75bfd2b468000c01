package proto

import (
	"strings"
	"unicode/utf8"
)

// MaxLogLine is the longest MsgLogLine payload; it equals the kernel's
// message size.
const MaxLogLine = 128

// LogLinePayload encodes a MsgLogLine payload: the UTF-8 line without
// trailing newlines, cut at a rune boundary to MaxLogLine bytes.
func LogLinePayload(line string) []byte {
	line = strings.TrimRight(line, "\r\n")
	if len(line) > MaxLogLine {
		n := MaxLogLine
		for n > 0 && !utf8.RuneStart(line[n]) {
			n--
		}
		line = line[:n]
	}
	return []byte(line)
}
