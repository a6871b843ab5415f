package service

import (
	"testing"

	"innkeep/pkg/model"
)

func TestCanTransition_FullTable(t *testing.T) {
	statuses := []model.BookingStatus{
		model.StatusPending,
		model.StatusConfirmed,
		model.StatusCancelled,
		model.StatusCompleted,
	}

	allowed := map[[2]model.BookingStatus]bool{
		{model.StatusPending, model.StatusConfirmed}:   true,
		{model.StatusPending, model.StatusCancelled}:   true,
		{model.StatusConfirmed, model.StatusCancelled}: true,
		{model.StatusConfirmed, model.StatusCompleted}: true,
	}

	// Every pair not in the allowed set must be rejected, including
	// self-transitions and anything out of a terminal state.
	for _, from := range statuses {
		for _, to := range statuses {
			got := canTransition(from, to)
			want := allowed[[2]model.BookingStatus{from, to}]
			if got != want {
				t.Errorf("canTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []model.BookingStatus{model.StatusCancelled, model.StatusCompleted} {
		if exits, ok := allowedTransitions[terminal]; ok && len(exits) > 0 {
			t.Errorf("%s is terminal but has exits: %v", terminal, exits)
		}
	}
}
