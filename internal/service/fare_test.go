package service

import (
	"testing"
	"time"
)

func TestFareStandardTier(t *testing.T) {
	for _, minutes := range []int{1, 10, 30, 44} {
		cost, _ := Fare(minutes)
		want := 49 + 2*float64(minutes)
		if cost != want {
			t.Fatalf("Fare(%d) = %f, want %f", minutes, cost, want)
		}
	}
}

func TestFareAtStandardLimit(t *testing.T) {
	cost, payout := Fare(45)
	if cost != 139 {
		t.Fatalf("Fare(45) = %f, want 139", cost)
	}
	if payout != 139*0.7 {
		t.Fatalf("payout = %f, want %f", payout, 139*0.7)
	}
}

func TestFareExtendedTier(t *testing.T) {
	cost, _ := Fare(60)
	if cost != 184 {
		t.Fatalf("Fare(60) = %f, want 184 (49 + 90 + 3*15)", cost)
	}
	cost, _ = Fare(50)
	if cost != 154 {
		t.Fatalf("Fare(50) = %f, want 154", cost)
	}
}

func TestFarePayoutShare(t *testing.T) {
	for _, minutes := range []int{1, 45, 46, 120} {
		cost, payout := Fare(minutes)
		if payout != cost*0.7 {
			t.Fatalf("Fare(%d): payout %f is not 0.7 * %f", minutes, payout, cost)
		}
	}
}

func TestFareClampsToOneMinute(t *testing.T) {
	cost0, _ := Fare(0)
	costNeg, _ := Fare(-5)
	cost1, _ := Fare(1)
	if cost0 != cost1 || costNeg != cost1 {
		t.Fatalf("expected sub-minute durations to bill as one minute")
	}
}

func TestBillableMinutesRoundsToNearest(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 1},
		{20 * time.Second, 1},
		{90 * time.Second, 2},
		{50 * time.Minute, 50},
		{45*time.Minute + 29*time.Second, 45},
		{45*time.Minute + 31*time.Second, 46},
	}
	for _, tc := range cases {
		got := BillableMinutes(created, created.Add(tc.elapsed))
		if got != tc.want {
			t.Fatalf("BillableMinutes(+%s) = %d, want %d", tc.elapsed, got, tc.want)
		}
	}
}
