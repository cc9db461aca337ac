package aprs

import (
	"errors"
	"fmt"
	"strings"
)

// Message parse errors.
var (
	ErrNoSource = errors.New("aprs: missing source callsign")
	ErrNoBody   = errors.New("aprs: missing message body")
)

// Message is an immutable APRS message. Construct it with NewMessage or
// Parse; do not mutate the fields after the message has been handed to a
// sender or logger.
type Message struct {
	// Source is the originating callsign, including SSID (e.g. "OE5BPA-10").
	Source string

	// Destination is the tocall destination (software identity for beacons).
	Destination string

	// Path holds the digipeater path elements, outermost first. May be empty.
	Path []string

	// Body is the information field, starting with the APRS data type byte.
	Body string
}

// NewMessage builds a message without a digipeater path.
func NewMessage(source, destination, body string) *Message {
	return &Message{Source: source, Destination: destination, Body: body}
}

// Encode renders the message in TNC2 monitor format, the form APRS-IS
// accepts on the wire. The output carries no trailing newline.
func (m *Message) Encode() string {
	var b strings.Builder
	b.WriteString(m.Source)
	b.WriteByte('>')
	b.WriteString(m.Destination)
	for _, hop := range m.Path {
		b.WriteByte(',')
		b.WriteString(hop)
	}
	b.WriteByte(':')
	b.WriteString(m.Body)
	return b.String()
}

// String returns the encoded form; Messages log well as values.
func (m *Message) String() string {
	return m.Encode()
}

// Parse decodes a TNC2 monitor line into a Message.
func Parse(line string) (*Message, error) {
	line = strings.TrimRight(line, "\r\n")

	gt := strings.IndexByte(line, '>')
	if gt <= 0 {
		return nil, fmt.Errorf("%w in %q", ErrNoSource, line)
	}
	colon := strings.IndexByte(line[gt:], ':')
	if colon < 0 || gt+colon+1 > len(line) {
		return nil, fmt.Errorf("%w in %q", ErrNoBody, line)
	}
	colon += gt

	header := strings.Split(line[gt+1:colon], ",")

	msg := &Message{
		Source:      line[:gt],
		Destination: header[0],
		Body:        line[colon+1:],
	}
	if len(header) > 1 {
		msg.Path = header[1:]
	}
	return msg, nil
}
