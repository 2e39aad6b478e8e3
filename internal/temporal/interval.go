// Package temporal holds the time model shared by every graph operator:
// intervals in epoch milliseconds, time dimensions, period bounds,
// calendar fields, duration units and temporal predicates.
package temporal

import "math"

// Sentinels for half-open or fully unbounded intervals. They match the
// representation used by the exported CSV data (empty cell -> unbounded).
const (
	UnboundedFrom int64 = math.MinInt64
	UnboundedTo   int64 = math.MaxInt64
)

// Interval is a [From, To) period in epoch milliseconds. From and To may
// carry the unbounded sentinels.
type Interval struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// Unbounded returns the interval covering all of time.
func Unbounded() Interval {
	return Interval{From: UnboundedFrom, To: UnboundedTo}
}

// Bound returns the interval endpoint selected by b.
func (iv Interval) Bound(b PeriodBound) int64 {
	if b == BoundTo {
		return iv.To
	}
	return iv.From
}

// DurationMillis is the raw length of the interval. Unbounded endpoints
// are not special-cased; callers that care must check them beforehand.
func (iv Interval) DurationMillis() int64 {
	return iv.To - iv.From
}
