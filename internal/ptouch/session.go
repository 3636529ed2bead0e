package ptouch

import (
	"fmt"
	"log/slog"
	"sync"
)

// Transport is the byte-level connection to the device, supplied by the
// connection layer. Both calls may block. Errors are returned unchanged.
type Transport interface {
	Write(data []byte) error
	Read(maxLength int) ([]byte, error)
}

// State identifies where a session is in the device conversation.
type State int

const (
	StateIdle State = iota
	StateInitializing
	StateStatusKnown
	StateConfiguring
	StateTransmitting
	StateAwaitingCompletion
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateStatusKnown:
		return "status-known"
	case StateConfiguring:
		return "configuring"
	case StateTransmitting:
		return "transmitting"
	case StateAwaitingCompletion:
		return "awaiting-completion"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// defaultMaxStatusPolls bounds the completion wait; the device sends several
// phase frames per page, so this is generous.
const defaultMaxStatusPolls = 120

// Session drives one device conversation over a Transport. The protocol is
// strictly sequential: a mutex holds the whole of Connect or Print so no two
// operations ever interleave on the wire.
type Session struct {
	transport Transport

	mu       sync.Mutex
	state    State
	status   *Status
	onStatus func(*Status)
	maxPolls int
}

func NewSession(t Transport) *Session {
	return &Session{
		transport: t,
		state:     StateIdle,
		maxPolls:  defaultMaxStatusPolls,
	}
}

// SetMaxStatusPolls bounds how many status frames Print will read while
// waiting for completion before giving up with ErrTimeout.
func (s *Session) SetMaxStatusPolls(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > 0 {
		s.maxPolls = n
	}
}

// OnStatus registers a hook called with every decoded status frame, in read
// order. The hook runs on the goroutine performing the operation; it must
// not call back into the session.
func (s *Session) OnStatus(fn func(*Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStatus = fn
}

// State returns where the session currently is in the device conversation.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect resets the device and reads an initial status frame, leaving the
// session ready to print.
func (s *Session) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateInitializing
	slog.Debug("Resetting device")
	if err := s.write(invalidate()); err != nil {
		return s.fail(err)
	}
	if err := s.write(initialize()); err != nil {
		return s.fail(err)
	}

	if err := s.write(requestStatus()); err != nil {
		return s.fail(err)
	}
	status, err := s.readFrame()
	if err != nil {
		return s.fail(err)
	}

	s.state = StateStatusKnown
	slog.Info("Connected to printer",
		"mediaWidth", status.MediaWidth,
		"mediaType", status.MediaType,
	)
	return nil
}

// Print streams one job to the device and waits for it to finish. The job is
// validated in full before the first byte is written; validation failures
// leave the device untouched. Once transmission has started the call runs to
// Completed or Failed; there is no mid-stream cancellation.
func (s *Session) Print(columns [][]byte, lastPage bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == nil {
		return ErrUninitialized
	}
	switch s.state {
	case StateStatusKnown, StateCompleted:
	default:
		return fmt.Errorf("cannot print while session is %s", s.state)
	}

	width, err := PrintableWidth(s.status.MediaWidth)
	if err != nil {
		return err
	}
	lines, err := EncodeJob(columns, width)
	if err != nil {
		return err
	}

	s.state = StateConfiguring
	slog.Info("Printing job",
		"columns", len(lines),
		"mediaWidth", s.status.MediaWidth,
		"lastPage", lastPage,
	)
	configuration := [][]byte{
		enterDynamicMode(),
		enableStatusNotify(),
		printInfo(s.status.MediaWidth, uint32(len(lines))),
		setMode(),
		setAdvancedMode(),
		setMargin(),
		setNoCompression(),
	}
	for _, command := range configuration {
		if err := s.write(command); err != nil {
			return s.fail(err)
		}
	}

	s.state = StateTransmitting
	for _, line := range lines {
		if err := s.write(rasterLine(line)); err != nil {
			return s.fail(err)
		}
	}
	if err := s.write(finalize(lastPage)); err != nil {
		return s.fail(err)
	}

	s.state = StateAwaitingCompletion
	return s.awaitCompletion()
}

// awaitCompletion consumes the status frames the device pushes while it
// feeds, prints and cuts, until one reports completion or a fault.
func (s *Session) awaitCompletion() error {
	for polls := 0; polls < s.maxPolls; polls++ {
		status, err := s.readFrame()
		if err != nil {
			return s.fail(err)
		}

		switch status.Type {
		case StatusCompleted:
			// the device follows completion with one phase-change
			// notification which would otherwise confuse the next print
			if _, err := s.readFrame(); err != nil {
				return s.fail(err)
			}
			s.state = StateCompleted
			slog.Info("Print finished")
			return nil
		case StatusError:
			reasons := status.ErrorReasons()
			if len(reasons) == 0 {
				reasons = []string{"unknown device fault"}
			}
			s.state = StateFailed
			slog.Error("Printer reported a fault", "reasons", reasons)
			return &PrintError{Reasons: reasons}
		default:
			slog.Debug("Printer phase change",
				"statusType", status.Type,
				"phaseType", status.PhaseType,
				"phaseNumber", status.PhaseNumber,
			)
		}
	}

	s.state = StateFailed
	return fmt.Errorf("%w: no completion after %d status frames", ErrTimeout, s.maxPolls)
}

// readFrame reads and decodes one status frame, stores it as the current
// snapshot and notifies the status hook.
func (s *Session) readFrame() (*Status, error) {
	frame, err := s.transport.Read(statusFrameLength)
	if err != nil {
		return nil, fmt.Errorf("transport read failed: %w", err)
	}
	status, err := DecodeStatus(frame)
	if err != nil {
		return nil, err
	}

	s.status = status
	if s.onStatus != nil {
		s.onStatus(status)
	}
	return status, nil
}

func (s *Session) write(data []byte) error {
	if err := s.transport.Write(data); err != nil {
		return fmt.Errorf("transport write failed: %w", err)
	}
	return nil
}

// fail moves the session into the Failed state. Callers must Connect again
// before the next print; no retry is attempted because re-driving a
// mechanical fault without operator intervention risks damaging the device.
func (s *Session) fail(err error) error {
	s.state = StateFailed
	return err
}

// LastStatus returns the most recent decoded status snapshot.
func (s *Session) LastStatus() (*Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == nil {
		return nil, ErrUninitialized
	}
	return s.status, nil
}

// MediaWidth reports the loaded tape width in millimetres.
func (s *Session) MediaWidth() (int, error) {
	status, err := s.LastStatus()
	if err != nil {
		return 0, err
	}
	return int(status.MediaWidth), nil
}

// MediaType reports the loaded media type code.
func (s *Session) MediaType() (byte, error) {
	status, err := s.LastStatus()
	if err != nil {
		return 0, err
	}
	return status.MediaType, nil
}

// TapeColor reports the tape background colour code.
func (s *Session) TapeColor() (byte, error) {
	status, err := s.LastStatus()
	if err != nil {
		return 0, err
	}
	return status.TapeColor, nil
}

// TextColor reports the printed foreground colour code.
func (s *Session) TextColor() (byte, error) {
	status, err := s.LastStatus()
	if err != nil {
		return 0, err
	}
	return status.TextColor, nil
}

// PrintableWidth reports how many head pins are usable on the loaded tape.
func (s *Session) PrintableWidth() (int, error) {
	status, err := s.LastStatus()
	if err != nil {
		return 0, err
	}
	return PrintableWidth(status.MediaWidth)
}
