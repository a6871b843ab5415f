package service

import (
	"innkeep/pkg/model"
)

// allowedTransitions is the full booking state machine. CANCELLED and
// COMPLETED are terminal; absence from the map means no way out.
var allowedTransitions = map[model.BookingStatus][]model.BookingStatus{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusCancelled, model.StatusCompleted},
}

func canTransition(from, to model.BookingStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
