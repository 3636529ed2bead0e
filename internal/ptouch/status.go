package ptouch

import (
	"fmt"
)

// A status frame is always exactly 32 bytes.
const statusFrameLength = 32

// StatusType classifies why the device sent a status frame.
type StatusType byte

const (
	StatusReply     StatusType = 0x00
	StatusCompleted StatusType = 0x01
	StatusError     StatusType = 0x02
	// other values are phase/transitional frames and pass through unclassified
)

func (t StatusType) String() string {
	switch t {
	case StatusReply:
		return "reply"
	case StatusCompleted:
		return "completed"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("phase(0x%02x)", byte(t))
	}
}

// Status is one decoded snapshot of printer state. A new value is built from
// every frame read; it is never mutated in place.
type Status struct {
	Error1             byte
	Error2             byte
	MediaWidth         byte
	MediaType          byte
	Mode               byte
	MediaLength        byte
	Type               StatusType
	PhaseType          byte
	PhaseNumber        byte
	NotificationNumber byte
	TapeColor          byte
	TextColor          byte
}

// DecodeStatus extracts the structured fields from one raw status frame.
func DecodeStatus(frame []byte) (*Status, error) {
	if len(frame) != statusFrameLength {
		return nil, fmt.Errorf("%w: status frame is %d bytes, want %d",
			ErrProtocol, len(frame), statusFrameLength)
	}

	return &Status{
		Error1:             frame[8],
		Error2:             frame[9],
		MediaWidth:         frame[10],
		MediaType:          frame[11],
		Mode:               frame[15],
		MediaLength:        frame[17],
		Type:               StatusType(frame[18]),
		PhaseType:          frame[19],
		PhaseNumber:        frame[20],
		NotificationNumber: frame[22],
		TapeColor:          frame[24],
		TextColor:          frame[25],
	}, nil
}

type errorFlag struct {
	mask   byte
	reason string
}

var error1Flags = []errorFlag{
	{0x01, "no media"},
	{0x04, "cutter jam"},
	{0x08, "low batteries"},
	{0x40, "high-voltage adapter issue"},
}

var error2Flags = []errorFlag{
	{0x01, "wrong media size"},
	{0x10, "cover open"},
	{0x20, "overheating"},
}

// ErrorReasons decodes the two error bitflag bytes into human-readable fault
// reasons, in flag order.
func (s *Status) ErrorReasons() []string {
	var reasons []string
	for _, f := range error1Flags {
		if s.Error1&f.mask != 0 {
			reasons = append(reasons, f.reason)
		}
	}
	for _, f := range error2Flags {
		if s.Error2&f.mask != 0 {
			reasons = append(reasons, f.reason)
		}
	}
	return reasons
}
