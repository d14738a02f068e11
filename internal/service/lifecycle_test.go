package service

import (
	"errors"
	"testing"
	"time"
)

func TestPlanTransitionQueuedToInProgress(t *testing.T) {
	now := time.Now()
	upd, err := PlanTransition(StatusQueued, StatusInProgress, now.Add(-10*time.Minute), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Status != StatusInProgress {
		t.Errorf("status = %q, want %q", upd.Status, StatusInProgress)
	}
	if upd.Progress == nil || *upd.Progress != 10 {
		t.Errorf("progress = %v, want 10", upd.Progress)
	}
	if upd.EstimatedCost == nil || *upd.EstimatedCost != BaseFare {
		t.Errorf("estimatedCost = %v, want %v", upd.EstimatedCost, BaseFare)
	}
	if upd.ReleaseAgent {
		t.Error("starting work must not release the agent")
	}
}

func TestPlanTransitionInProgressToCompleted(t *testing.T) {
	now := time.Now()
	createdAt := now.Add(-50 * time.Minute)

	upd, err := PlanTransition(StatusInProgress, StatusCompleted, createdAt, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", upd.Status, StatusCompleted)
	}
	if upd.Progress == nil || *upd.Progress != 100 {
		t.Errorf("progress = %v, want 100", upd.Progress)
	}
	if upd.DurationMinutes == nil || *upd.DurationMinutes != 50 {
		t.Fatalf("durationMinutes = %v, want 50", upd.DurationMinutes)
	}
	// 49 + 45*2 + 5*3 = 154, payout 70%.
	if upd.FinalCost == nil || *upd.FinalCost != 154 {
		t.Errorf("finalCost = %v, want 154", upd.FinalCost)
	}
	if upd.AgentPayout == nil || *upd.AgentPayout != 154*0.7 {
		t.Errorf("agentPayout = %v, want %v", upd.AgentPayout, 154*0.7)
	}
	if !upd.ReleaseAgent {
		t.Error("completion must release the assigned agent")
	}
}

func TestPlanTransitionRejectsSkippingQueue(t *testing.T) {
	now := time.Now()
	if _, err := PlanTransition(StatusPending, StatusInProgress, now, now); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Pending -> In Progress: err = %v, want ErrInvalidTransition", err)
	}
	if _, err := PlanTransition(StatusQueued, StatusCompleted, now, now); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Queued -> Completed: err = %v, want ErrInvalidTransition", err)
	}
}

func TestPlanTransitionRejectsRecompletion(t *testing.T) {
	now := time.Now()
	if _, err := PlanTransition(StatusCompleted, StatusCompleted, now.Add(-time.Hour), now); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("re-completing: err = %v, want ErrInvalidTransition", err)
	}
}

func TestPlanTransitionRejectsBackwardTargets(t *testing.T) {
	now := time.Now()
	for _, target := range []string{StatusPending, StatusQueued, StatusCancelled} {
		if _, err := PlanTransition(StatusInProgress, target, now, now); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("target %q: err = %v, want ErrInvalidTransition", target, err)
		}
	}
}

func TestPlanTransitionUnknownStatus(t *testing.T) {
	now := time.Now()
	if _, err := PlanTransition(StatusQueued, "Paused", now, now); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("err = %v, want ErrUnknownStatus", err)
	}
}
