// Package fsm implements a table-driven finite state machine with guarded
// transitions.
//
// A Machine holds its current state and an ordered transition table. Fire
// scans the table in declaration order and takes the first transition whose
// origin matches the current state and whose guard holds, so the table order
// is the priority order between transitions leaving the same state.
package fsm

import "errors"

// State identifies one state of a Machine. Domain packages declare their own
// typed constants of this type.
type State uint8

// Transition is one row of a transition table.
type Transition struct {
	From   State
	Guard  func() bool
	To     State
	Action func() // optional
}

// Tracer is called after every transition a Machine takes.
type Tracer func(name string, from, to State)

var (
	ErrEmptyTable    = errors.New("fsm: empty transition table")
	ErrNilGuard      = errors.New("fsm: transition without guard")
	ErrUnknownState  = errors.New("fsm: initial state not in transition table")
	ErrInvalidTarget = errors.New("fsm: destination state not in transition table")
)

// Machine is a polled state machine. It is not safe for concurrent use; all
// calls are expected from the main loop.
type Machine struct {
	name   string
	state  State
	table  []Transition
	tracer Tracer
}

// New validates table and returns a Machine positioned in initial.
func New(name string, initial State, table []Transition) (*Machine, error) {
	if len(table) == 0 {
		return nil, ErrEmptyTable
	}

	known := make(map[State]bool, len(table))
	for _, t := range table {
		if t.Guard == nil {
			return nil, ErrNilGuard
		}
		known[t.From] = true
	}
	for _, t := range table {
		// Destinations need rows of their own.
		if !known[t.To] {
			return nil, ErrInvalidTarget
		}
	}
	if !known[initial] {
		return nil, ErrUnknownState
	}

	return &Machine{
		name:  name,
		state: initial,
		table: table,
	}, nil
}

// Fire takes at most one transition and reports whether one was taken.
func (m *Machine) Fire() bool {
	for i := range m.table {
		t := &m.table[i]
		if t.From != m.state || !t.Guard() {
			continue
		}
		if t.Action != nil {
			t.Action()
		}
		from := m.state
		m.state = t.To
		if m.tracer != nil {
			m.tracer(m.name, from, t.To)
		}
		return true
	}
	return false
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Name returns the name given at construction.
func (m *Machine) Name() string {
	return m.name
}

// SetTracer installs fn to observe transitions. A nil fn disables tracing.
func (m *Machine) SetTracer(fn Tracer) {
	m.tracer = fn
}
