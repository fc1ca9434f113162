package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// transitions is the closed state table:
// pending -> confirmed | cancelled, confirmed -> cancelled | completed.
// cancelled and completed are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// Transition validates a requested status change against the state table.
// Every status mutation in the service goes through here; there are no ad hoc
// status comparisons elsewhere.
func Transition(current, requested Status) error {
	if !ValidStatus(requested) {
		return ErrInvalidTransition
	}
	for _, next := range transitions[current] {
		if next == requested {
			return nil
		}
	}
	return ErrInvalidTransition
}

// IsTerminal reports whether no further transition is possible from s.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}
