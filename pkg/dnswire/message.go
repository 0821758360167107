package dnswire

import "encoding/binary"

const (
	// HeaderLen is the length of DNS message header.
	HeaderLen = 12

	// MaxUDPSize is the largest response read from the socket.
	MaxUDPSize = 512

	// QueryID is the transaction ID of every query, responses are matched by the socket they arrive on, not by ID.
	QueryID uint16 = 0x1234

	// FlagsStandardQuery is a standard query with recursion desired.
	FlagsStandardQuery uint16 = 0x0100

	// TypeA is the address record query type.
	TypeA uint16 = 1

	// ClassINET is the Internet query class.
	ClassINET uint16 = 1
)

// Message is an outgoing DNS query with a single question.
type Message struct {
	ID      uint16
	Flags   uint16
	QDCount uint16
	Name    string
	Qtype   uint16
	Qclass  uint16
}

// NewQuery returns A/IN query for the domain.
func NewQuery(domain string) Message {
	return Message{
		ID:      QueryID,
		Flags:   FlagsStandardQuery,
		QDCount: 1,
		Name:    domain,
		Qtype:   TypeA,
		Qclass:  ClassINET,
	}
}

// Pack returns the message in wire format.
func (m Message) Pack() []byte {
	buf := make([]byte, HeaderLen, HeaderLen+len(m.Name)+6)
	binary.BigEndian.PutUint16(buf[0:2], m.ID)
	binary.BigEndian.PutUint16(buf[2:4], m.Flags)
	binary.BigEndian.PutUint16(buf[4:6], m.QDCount)
	// ancount, nscount and arcount stay zero

	buf = AppendName(buf, m.Name)
	buf = binary.BigEndian.AppendUint16(buf, m.Qtype)
	buf = binary.BigEndian.AppendUint16(buf, m.Qclass)
	return buf
}

// AnswerCount reads answer count from the response header.
// The second return value is false when the response is shorter than the header.
func AnswerCount(resp []byte) (uint16, bool) {
	if len(resp) < HeaderLen {
		return 0, false
	}
	return binary.BigEndian.Uint16(resp[6:8]), true
}

// HasAnswer reports whether the response carries at least one answer record.
// Malformed responses have no answer.
func HasAnswer(resp []byte) bool {
	an, ok := AnswerCount(resp)
	return ok && an > 0
}
