package models

// OrderState represents the current state of an order in its lifecycle.
type OrderState string

const (
	StatePlaced    OrderState = "placed"
	StateAccepted  OrderState = "accepted"
	StateDelivered OrderState = "delivered"
	StateCancelled OrderState = "cancelled"
)

// Allowed state transitions. Delivered and Cancelled are terminal.
var transitions = map[OrderState]map[OrderState]bool{
	StatePlaced:    {StateAccepted: true, StateCancelled: true},
	StateAccepted:  {StateDelivered: true, StateCancelled: true},
	StateDelivered: {},
	StateCancelled: {},
}

// CanTransition reports whether from->to is a valid lifecycle move.
func CanTransition(from, to OrderState) bool {
	next := transitions[from]
	return next != nil && next[to]
}

// Terminal reports whether the state has no outgoing transitions.
func (s OrderState) Terminal() bool {
	return len(transitions[s]) == 0
}

func (s OrderState) String() string {
	return string(s)
}
