package dnswire

import (
	"errors"
	"strings"
)

var (
	// ErrTruncatedName is returned when the encoded name runs past the end of the buffer.
	ErrTruncatedName = errors.New("dnswire: truncated name")
	// ErrCompressedName is returned for names using compression pointers, which are not followed.
	ErrCompressedName = errors.New("dnswire: compressed name")
)

// AppendName appends domain to buf in DNS label encoding, each label prefixed by its length
// and the whole name terminated by a zero length byte.
// Labels are expected to be 1-63 bytes long, this is not checked.
func AppendName(buf []byte, domain string) []byte {
	domain = strings.TrimSuffix(domain, ".")
	if domain == "" {
		return append(buf, 0)
	}
	start := 0
	for {
		end := strings.IndexByte(domain[start:], '.')
		if end < 0 {
			buf = append(buf, byte(len(domain)-start))
			buf = append(buf, domain[start:]...)
			break
		}
		buf = append(buf, byte(end))
		buf = append(buf, domain[start:start+end]...)
		start += end + 1
	}
	return append(buf, 0)
}

// ReadName decodes label encoded name starting at off and returns it in dotted form without
// the trailing dot, together with the offset right after the terminating zero byte.
func ReadName(msg []byte, off int) (string, int, error) {
	var sb strings.Builder
	for {
		if off >= len(msg) {
			return "", 0, ErrTruncatedName
		}
		l := int(msg[off])
		off++
		if l == 0 {
			return sb.String(), off, nil
		}
		if l&0xC0 != 0 {
			return "", 0, ErrCompressedName
		}
		if off+l > len(msg) {
			return "", 0, ErrTruncatedName
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.Write(msg[off : off+l])
		off += l
	}
}
