package ptouch

import (
	"errors"
	"reflect"
	"testing"
)

func aStatusFrame() []byte {
	return make([]byte, 32)
}

func TestDecodeStatusRejectsWrongLength(t *testing.T) {
	for _, length := range []int{0, 1, 16, 31, 33, 64} {
		if _, err := DecodeStatus(make([]byte, length)); !errors.Is(err, ErrProtocol) {
			t.Errorf("DecodeStatus with %d bytes = %v, want ErrProtocol", length, err)
		}
	}
}

func TestDecodeStatusExtractsFields(t *testing.T) {
	frame := aStatusFrame()
	frame[8] = 0x05  // error1
	frame[9] = 0x30  // error2
	frame[10] = 12   // media width
	frame[11] = 0x01 // media type
	frame[15] = 0x02 // mode
	frame[17] = 42   // media length
	frame[18] = 0x02 // status type
	frame[19] = 0x06 // phase type
	frame[20] = 0x01 // phase number
	frame[22] = 0x03 // notification number
	frame[24] = 0x08 // tape colour
	frame[25] = 0x04 // text colour

	status, err := DecodeStatus(frame)
	if err != nil {
		t.Fatalf("DecodeStatus failed: %v", err)
	}

	want := &Status{
		Error1:             0x05,
		Error2:             0x30,
		MediaWidth:         12,
		MediaType:          0x01,
		Mode:               0x02,
		MediaLength:        42,
		Type:               StatusError,
		PhaseType:          0x06,
		PhaseNumber:        0x01,
		NotificationNumber: 0x03,
		TapeColor:          0x08,
		TextColor:          0x04,
	}
	if !reflect.DeepEqual(status, want) {
		t.Errorf("DecodeStatus = %+v, want %+v", status, want)
	}
}

func TestDecodeStatusClassifiesStatusType(t *testing.T) {
	cases := []struct {
		value byte
		want  StatusType
	}{
		{0x00, StatusReply},
		{0x01, StatusCompleted},
		{0x02, StatusError},
		{0x06, StatusType(0x06)}, // phase change frames pass through
	}

	for _, c := range cases {
		frame := aStatusFrame()
		frame[18] = c.value
		status, err := DecodeStatus(frame)
		if err != nil {
			t.Fatalf("DecodeStatus failed: %v", err)
		}
		if status.Type != c.want {
			t.Errorf("status type byte 0x%02x decoded as %v, want %v", c.value, status.Type, c.want)
		}
	}
}

func TestErrorReasons(t *testing.T) {
	cases := []struct {
		name   string
		error1 byte
		error2 byte
		want   []string
	}{
		{"no flags", 0x00, 0x00, nil},
		{"no media and cutter jam", 0x05, 0x00, []string{"no media", "cutter jam"}},
		{"low batteries", 0x08, 0x00, []string{"low batteries"}},
		{"adapter issue", 0x40, 0x00, []string{"high-voltage adapter issue"}},
		{"wrong media size", 0x00, 0x01, []string{"wrong media size"}},
		{"cover open and overheating", 0x00, 0x30, []string{"cover open", "overheating"}},
		{"both bytes", 0x01, 0x10, []string{"no media", "cover open"}},
		{"unknown bits ignored", 0x82, 0x42, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := &Status{Error1: c.error1, Error2: c.error2}
			got := s.ErrorReasons()
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("ErrorReasons() = %v, want %v", got, c.want)
			}
		})
	}
}
