package drill

import "fmt"

// State is the lifecycle stage of a session.
type State int

const (
	Ready    State = iota + 1 // Built, waiting for Start.
	Playing                   // Items are being presented.
	Paused                    // Timer frozen, input ignored.
	Finished                  // Terminal.
)

var stateNames = [...]string{Ready: "READY", Playing: "PLAYING", Paused: "PAUSED", Finished: "FINISHED"}

func (s State) isValid() bool {
	return s >= Ready && s <= Finished
}

// String returns the upper-case state name.
func (s State) String() string {
	if s.isValid() {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// PreconditionViolation is the panic value raised when a caller issues an
// operation the current state does not allow.
type PreconditionViolation struct {
	Op    string
	State State
}

func (p *PreconditionViolation) Error() string {
	return fmt.Sprintf("drill: %s not allowed in state %s", p.Op, p.State)
}

func violate(op string, st State) {
	panic(&PreconditionViolation{Op: op, State: st})
}

// Result is the outcome of a single answer or pick.
type Result int

const (
	Correct Result = iota + 1
	Incorrect
	Hit
	Miss
)

var resultNames = [...]string{Correct: "correct", Incorrect: "incorrect", Hit: "hit", Miss: "miss"}

func (r Result) String() string {
	if r >= Correct && r <= Miss {
		return resultNames[r]
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// Success reports whether the result counts in the player's favour.
func (r Result) Success() bool {
	return r == Correct || r == Hit
}
