package ptouch

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport records every write and replays a scripted sequence of
// status frames for reads.
type fakeTransport struct {
	writes   [][]byte
	frames   [][]byte
	writeErr error
	readErr  error
}

func (f *fakeTransport) Write(data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, append([]byte(nil), data...))
	return nil
}

func (f *fakeTransport) Read(maxLength int) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	if len(f.frames) == 0 {
		return nil, io.EOF
	}
	frame := f.frames[0]
	f.frames = f.frames[1:]
	return frame, nil
}

func (f *fakeTransport) queueFrame(frame []byte) {
	f.frames = append(f.frames, frame)
}

func frameWith(statusType byte, mediaWidth byte) []byte {
	frame := make([]byte, 32)
	frame[10] = mediaWidth
	frame[18] = statusType
	return frame
}

func connectedSession(t *testing.T, mediaWidth byte) (*Session, *fakeTransport) {
	t.Helper()
	transport := &fakeTransport{}
	transport.queueFrame(frameWith(0x00, mediaWidth))

	session := NewSession(transport)
	require.NoError(t, session.Connect())
	require.Equal(t, StateStatusKnown, session.State())

	return session, transport
}

func aPrintableJob(width int, columns int) [][]byte {
	job := make([][]byte, columns)
	for i := range job {
		job[i] = make([]byte, width)
		job[i][i%width] = 1
	}
	return job
}

func TestConnectSendsResetSequence(t *testing.T) {
	session, transport := connectedSession(t, 12)

	require.Len(t, transport.writes, 3)
	assert.Equal(t, invalidate(), transport.writes[0])
	assert.Equal(t, initialize(), transport.writes[1])
	assert.Equal(t, requestStatus(), transport.writes[2])

	width, err := session.MediaWidth()
	require.NoError(t, err)
	assert.Equal(t, 12, width)

	printable, err := session.PrintableWidth()
	require.NoError(t, err)
	assert.Equal(t, 70, printable)
}

func TestAccessorsBeforeFirstStatusRead(t *testing.T) {
	session := NewSession(&fakeTransport{})

	_, err := session.LastStatus()
	assert.ErrorIs(t, err, ErrUninitialized)
	_, err = session.MediaWidth()
	assert.ErrorIs(t, err, ErrUninitialized)
	_, err = session.TapeColor()
	assert.ErrorIs(t, err, ErrUninitialized)
	_, err = session.TextColor()
	assert.ErrorIs(t, err, ErrUninitialized)
	_, err = session.PrintableWidth()
	assert.ErrorIs(t, err, ErrUninitialized)

	err = session.Print(aPrintableJob(70, MinJobColumns), true)
	assert.ErrorIs(t, err, ErrUninitialized)
}

func TestPrintSendsConfigurationAndRasterInOrder(t *testing.T) {
	session, transport := connectedSession(t, 12)
	transport.queueFrame(frameWith(0x06, 12)) // feeding phase
	transport.queueFrame(frameWith(0x01, 12)) // completed
	transport.queueFrame(frameWith(0x06, 12)) // trailing phase change

	job := aPrintableJob(70, MinJobColumns)
	require.NoError(t, session.Print(job, true))
	assert.Equal(t, StateCompleted, session.State())

	writes := transport.writes[3:] // skip the connect sequence
	require.Len(t, writes, 7+MinJobColumns+1)

	assert.Equal(t, enterDynamicMode(), writes[0])
	assert.Equal(t, enableStatusNotify(), writes[1])
	assert.Equal(t, printInfo(12, MinJobColumns), writes[2])
	assert.Equal(t, setMode(), writes[3])
	assert.Equal(t, setAdvancedMode(), writes[4])
	assert.Equal(t, setMargin(), writes[5])
	assert.Equal(t, setNoCompression(), writes[6])

	for i := 0; i < MinJobColumns; i++ {
		line := writes[7+i]
		require.Len(t, line, 3+LineBytes)
		assert.EqualValues(t, 0x47, line[0])
	}
	assert.Equal(t, finalize(true), writes[len(writes)-1])

	// the frame after completion must have been absorbed
	assert.Empty(t, transport.frames)
}

func TestPrintWithoutCutHoldsTape(t *testing.T) {
	session, transport := connectedSession(t, 24)
	transport.queueFrame(frameWith(0x01, 24))
	transport.queueFrame(frameWith(0x06, 24))

	require.NoError(t, session.Print(aPrintableJob(128, MinJobColumns), false))

	last := transport.writes[len(transport.writes)-1]
	assert.Equal(t, []byte{0x0C}, last)
}

func TestPrintRejectsShortJobsBeforeAnyWrite(t *testing.T) {
	session, transport := connectedSession(t, 12)
	writesAfterConnect := len(transport.writes)

	err := session.Print(aPrintableJob(70, MinJobColumns-1), true)
	assert.ErrorIs(t, err, ErrJobTooShort)
	assert.Len(t, transport.writes, writesAfterConnect, "validation must not touch the transport")
	assert.Equal(t, StateStatusKnown, session.State())
}

func TestPrintRejectsMismatchedColumnsBeforeAnyWrite(t *testing.T) {
	session, transport := connectedSession(t, 12)
	writesAfterConnect := len(transport.writes)

	job := aPrintableJob(70, MinJobColumns)
	job[40] = make([]byte, 64)

	err := session.Print(job, true)
	var columnErr *ColumnWidthError
	assert.ErrorAs(t, err, &columnErr)
	assert.Len(t, transport.writes, writesAfterConnect, "validation must not touch the transport")
}

func TestPrintRejectsUnsupportedMedia(t *testing.T) {
	session, transport := connectedSession(t, 18)
	writesAfterConnect := len(transport.writes)

	err := session.Print(aPrintableJob(70, MinJobColumns), true)
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
	assert.Len(t, transport.writes, writesAfterConnect)
}

func TestPrintFailsOnDeviceFault(t *testing.T) {
	session, transport := connectedSession(t, 12)

	fault := frameWith(0x02, 12)
	fault[8] = 0x05 // no media, cutter jam
	transport.queueFrame(fault)

	err := session.Print(aPrintableJob(70, MinJobColumns), true)
	var printErr *PrintError
	require.ErrorAs(t, err, &printErr)
	assert.Equal(t, []string{"no media", "cutter jam"}, printErr.Reasons)
	assert.Equal(t, StateFailed, session.State())

	// a failed session refuses further prints until reconnected
	err = session.Print(aPrintableJob(70, MinJobColumns), true)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrJobTooShort)
}

func TestPrintTimesOutOnEndlessPhaseFrames(t *testing.T) {
	session, transport := connectedSession(t, 12)
	session.SetMaxStatusPolls(5)
	for range 10 {
		transport.queueFrame(frameWith(0x06, 12))
	}

	err := session.Print(aPrintableJob(70, MinJobColumns), true)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, StateFailed, session.State())
}

func TestPrintFailsOnTransportErrorDuringCompletion(t *testing.T) {
	session, _ := connectedSession(t, 12)
	// no frames queued; the next read fails

	err := session.Print(aPrintableJob(70, MinJobColumns), true)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, StateFailed, session.State())
}

func TestPrintFailsOnMalformedStatusFrame(t *testing.T) {
	session, transport := connectedSession(t, 12)
	transport.queueFrame(make([]byte, 31))

	err := session.Print(aPrintableJob(70, MinJobColumns), true)
	assert.ErrorIs(t, err, ErrProtocol)
	assert.Equal(t, StateFailed, session.State())
}

func TestConnectPropagatesTransportErrors(t *testing.T) {
	wantErr := errors.New("device unplugged")
	session := NewSession(&fakeTransport{writeErr: wantErr})

	err := session.Connect()
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, StateFailed, session.State())
}

func TestOnStatusSeesEveryDecodedFrame(t *testing.T) {
	session, transport := connectedSession(t, 12)

	var seen []StatusType
	session.OnStatus(func(s *Status) {
		seen = append(seen, s.Type)
	})

	transport.queueFrame(frameWith(0x06, 12))
	transport.queueFrame(frameWith(0x01, 12))
	transport.queueFrame(frameWith(0x06, 12))

	require.NoError(t, session.Print(aPrintableJob(70, MinJobColumns), true))
	assert.Equal(t, []StatusType{StatusType(0x06), StatusCompleted, StatusType(0x06)}, seen)
}

func TestPrintAgainAfterCompletion(t *testing.T) {
	session, transport := connectedSession(t, 12)

	for range 2 {
		transport.queueFrame(frameWith(0x01, 12))
		transport.queueFrame(frameWith(0x06, 12))
	}

	require.NoError(t, session.Print(aPrintableJob(70, MinJobColumns), false))
	require.NoError(t, session.Print(aPrintableJob(70, MinJobColumns), true))
	assert.Equal(t, StateCompleted, session.State())
}
