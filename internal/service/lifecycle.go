package service

import (
	"errors"
	"time"

	"github.com/stando/backend/internal/db"
)

// Booking lifecycle: Pending -> Queued -> In Progress -> Completed.
// Queued is only reachable through the assignment engine (accept or
// auto-assign), never through the status endpoint. Cancelled exists in the
// data model but has no implemented transition. No transition is reversible.
const (
	StatusPending    = "Pending"
	StatusQueued     = "Queued"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"
)

var (
	ErrUnknownStatus     = errors.New("unknown booking status")
	ErrInvalidTransition = errors.New("illegal status transition")
)

// PlanTransition validates a requested status change against the current
// state and returns the field updates the store must apply atomically.
// Completing a booking computes billing exactly once, from createdAt;
// re-completing an already Completed booking is rejected, never recomputed.
func PlanTransition(current, target string, createdAt, now time.Time) (db.StatusUpdate, error) {
	switch target {
	case StatusInProgress:
		if current != StatusQueued {
			return db.StatusUpdate{}, ErrInvalidTransition
		}
		progress := 10
		estimated := BaseFare
		return db.StatusUpdate{
			Status:        StatusInProgress,
			Progress:      &progress,
			EstimatedCost: &estimated,
		}, nil

	case StatusCompleted:
		if current != StatusInProgress {
			return db.StatusUpdate{}, ErrInvalidTransition
		}
		minutes := BillableMinutes(createdAt, now)
		finalCost, agentPayout := Fare(minutes)
		progress := 100
		return db.StatusUpdate{
			Status:          StatusCompleted,
			Progress:        &progress,
			DurationMinutes: &minutes,
			FinalCost:       &finalCost,
			AgentPayout:     &agentPayout,
			ReleaseAgent:    true,
		}, nil

	case StatusPending, StatusQueued, StatusCancelled:
		return db.StatusUpdate{}, ErrInvalidTransition

	default:
		return db.StatusUpdate{}, ErrUnknownStatus
	}
}
