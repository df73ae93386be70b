package order

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions is the full order status transition table. ready -> preparing
// is the kitchen-correction revert; completed and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted, StatusPreparing},
	StatusCompleted: {},
	StatusCancelled: {},
}

// Valid reports whether s is a known order status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the move from s to next is in the
// transition table.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Payable reports whether an order in this status may be marked paid.
// Dine-in orders are settled once served, so both ready and completed
// qualify.
func (s Status) Payable() bool {
	return s == StatusReady || s == StatusCompleted
}
