package service

import "time"

// Fare policy: a flat base fare plus tiered per-minute billing. The first
// StandardDurationLimit minutes bill at the standard rate, anything beyond
// at the extended rate. Agents keep 70% of the final cost.
const (
	BaseFare              = 49.0
	PerMinuteRateStandard = 2.0
	PerMinuteRateExtended = 3.0
	StandardDurationLimit = 45

	agentPayoutShare = 0.7
)

// Fare maps a service duration to the customer's final cost and the agent's
// payout. Durations below one minute are clamped to one. Values are full
// precision; display rounding is the presentation layer's problem.
func Fare(durationMinutes int) (finalCost, agentPayout float64) {
	if durationMinutes < 1 {
		durationMinutes = 1
	}

	finalCost = BaseFare
	if durationMinutes > StandardDurationLimit {
		finalCost += StandardDurationLimit * PerMinuteRateStandard
		finalCost += float64(durationMinutes-StandardDurationLimit) * PerMinuteRateExtended
	} else {
		finalCost += float64(durationMinutes) * PerMinuteRateStandard
	}

	return finalCost, finalCost * agentPayoutShare
}

// BillableMinutes measures the booking's whole lifetime: completion time
// minus creation time, rounded to the nearest minute, never below one.
// Billing anchors on creation rather than job start, so assignment wait
// time is on the customer.
func BillableMinutes(createdAt, completedAt time.Time) int {
	minutes := int(completedAt.Sub(createdAt).Round(time.Minute) / time.Minute)
	if minutes < 1 {
		return 1
	}
	return minutes
}
