package resource

// State represents a lifecycle state of a resource.
type State string

const (
	// StateCreated is the initial state of every resource.
	StateCreated State = "created"

	// StateStarted indicates the resource is running.
	StateStarted State = "started"

	// StateStopped indicates the resource has been stopped.
	StateStopped State = "stopped"

	// StateDeleted is the terminal tombstone state. Deleted resources
	// are never removed from the collection.
	StateDeleted State = "deleted"
)

// Operation represents a lifecycle operation on a resource.
type Operation string

const (
	// OpCreate is the implicit operation recorded when a resource is created.
	OpCreate Operation = "create"

	// OpStart starts a created or stopped resource.
	OpStart Operation = "start"

	// OpStop stops a started resource.
	OpStop Operation = "stop"

	// OpDelete soft-deletes a stopped resource.
	OpDelete Operation = "delete"
)

// transitions is the legal transition table. Any (state, op) pair not
// present here is rejected. The start/stop cycle is unbounded.
var transitions = map[State]map[Operation]State{
	StateCreated: {
		OpStart: StateStarted,
	},
	StateStarted: {
		OpStop: StateStopped,
	},
	StateStopped: {
		OpStart:  StateStarted,
		OpDelete: StateDeleted,
	},
}

// Next returns the state reached by applying op in the given state.
// It returns an INVALID_TRANSITION error when the pair is not in the
// transition table; the caller's state must remain unchanged in that case.
func Next(current State, op Operation) (State, error) {
	if ops, ok := transitions[current]; ok {
		if next, ok := ops[op]; ok {
			return next, nil
		}
	}
	return current, NewInvalidTransitionError(current, op, transitionReason(current, op))
}

// transitionReason builds the human-readable explanation for a rejected
// transition.
func transitionReason(current State, op Operation) string {
	switch {
	case current == StateDeleted:
		return "cannot " + string(op) + " a deleted resource"
	case op == OpDelete && current == StateStarted:
		return "cannot delete a running resource; stop it first"
	case op == OpDelete && current == StateCreated:
		return "cannot delete a resource that was never stopped; stop it first"
	case op == OpStart && current == StateStarted:
		return "resource is already running"
	case op == OpStop && current != StateStarted:
		return "resource is not running"
	default:
		return "operation " + string(op) + " is not permitted in state " + string(current)
	}
}

// Valid reports whether s is one of the four lifecycle states.
func (s State) Valid() bool {
	switch s {
	case StateCreated, StateStarted, StateStopped, StateDeleted:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transitions.
func (s State) Terminal() bool {
	return s == StateDeleted
}
