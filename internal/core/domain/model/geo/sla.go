package geo

import (
	"math/rand/v2"
	"time"
)

// Tier is the customer's loyalty tier. Higher tiers receive tighter
// delivery-time estimates.
type Tier string

const (
	TierPlatinum Tier = "platinum"
	TierGold     Tier = "gold"
	TierSilver   Tier = "silver"
	TierNone     Tier = "none"
)

// deliveryMinuteRanges maps each tier to its inclusive [min, max] estimate
// range in minutes. Unknown tiers fall back to TierNone.
var deliveryMinuteRanges = map[Tier][2]int{
	TierPlatinum: {10, 15},
	TierGold:     {15, 20},
	TierSilver:   {20, 25},
	TierNone:     {25, 30},
}

// SampleDeliveryMinutes draws a pseudo-random delivery estimate, uniform over
// the tier's inclusive range. The estimate is sampled exactly once per
// delivery at dispatch time and persisted with the record; re-sampling on a
// later read would change an already promised SLA.
func SampleDeliveryMinutes(tier Tier) int {
	bounds, ok := deliveryMinuteRanges[tier]
	if !ok {
		bounds = deliveryMinuteRanges[TierNone]
	}
	return bounds[0] + rand.IntN(bounds[1]-bounds[0]+1) //nolint:gosec // SLA estimate, not a secret
}

// ExpectedArrival returns the promised arrival time for an estimate that
// starts counting at start.
func ExpectedArrival(start time.Time, minutes int) time.Time {
	return start.Add(time.Duration(minutes) * time.Minute)
}
