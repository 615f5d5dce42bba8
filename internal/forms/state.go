package forms

import "fmt"

// ActionStatus is the phase of a user-triggered admin action.
type ActionStatus int

const (
	Idle ActionStatus = iota
	Loading
	Success
	Failure
)

func (s ActionStatus) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failure:
		return "error"
	default:
		return fmt.Sprintf("ActionStatus(%d)", int(s))
	}
}

// ActionState tracks one action: idle -> loading -> success | error.
// Reset returns it to idle from any phase.
type ActionState struct {
	Status  ActionStatus
	Message string
}

// Start moves idle to loading.
func (s *ActionState) Start() error {
	return s.move(Idle, Loading, "")
}

// Succeed moves loading to success with a message for the user.
func (s *ActionState) Succeed(message string) error {
	return s.move(Loading, Success, message)
}

// Fail moves loading to error. The message is shown verbatim.
func (s *ActionState) Fail(message string) error {
	return s.move(Loading, Failure, message)
}

// Reset returns to idle.
func (s *ActionState) Reset() {
	s.Status = Idle
	s.Message = ""
}

// Failed reports whether the action ended in error.
func (s ActionState) Failed() bool {
	return s.Status == Failure
}

func (s *ActionState) move(from, to ActionStatus, message string) error {
	if s.Status != from {
		return fmt.Errorf("action state: cannot go from %s to %s", s.Status, to)
	}
	s.Status = to
	s.Message = message
	return nil
}
