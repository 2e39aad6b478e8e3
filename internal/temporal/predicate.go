package temporal

import "fmt"

// PredicateKind enumerates the supported temporal predicates.
type PredicateKind int

const (
	PredicateAll PredicateKind = iota
	PredicateAsOf
	PredicateFromTo
	PredicateBetween
)

func (k PredicateKind) String() string {
	switch k {
	case PredicateAsOf:
		return "asOf"
	case PredicateFromTo:
		return "fromTo"
	case PredicateBetween:
		return "betweenAnd"
	default:
		return "all"
	}
}

// Predicate decides whether an element's interval (under some dimension)
// satisfies a point-in-time or interval query.
type Predicate struct {
	Kind PredicateKind
	T1   int64
	T2   int64
}

// All matches every interval.
func All() Predicate { return Predicate{Kind: PredicateAll} }

// AsOf matches intervals that contain the instant t (end exclusive).
func AsOf(t int64) Predicate { return Predicate{Kind: PredicateAsOf, T1: t} }

// FromTo matches intervals overlapping [t1, t2).
func FromTo(t1, t2 int64) Predicate { return Predicate{Kind: PredicateFromTo, T1: t1, T2: t2} }

// Between matches intervals fully contained in [t1, t2].
func Between(t1, t2 int64) Predicate { return Predicate{Kind: PredicateBetween, T1: t1, T2: t2} }

// Matches evaluates the predicate against an interval.
func (p Predicate) Matches(iv Interval) bool {
	switch p.Kind {
	case PredicateAsOf:
		return iv.From <= p.T1 && iv.To > p.T1
	case PredicateFromTo:
		return iv.From < p.T2 && iv.To > p.T1
	case PredicateBetween:
		// An unbounded end can only be contained by an unbounded upper bound.
		return iv.From >= p.T1 && iv.To <= p.T2
	default:
		return true
	}
}

// ParsePredicate builds a predicate from its wire tag and two literal
// timestamps. Both timestamps are parsed up front, so a malformed value
// is rejected even when the chosen predicate would not use it. An
// unrecognized tag falls back to the all-matching predicate; that is a
// documented permissive default, not an error.
func ParsePredicate(tag, ts1, ts2 string) (Predicate, error) {
	t1, err := ParseTimestamp(ts1)
	if err != nil {
		return Predicate{}, fmt.Errorf("first timestamp: %w", err)
	}
	t2, err := ParseTimestamp(ts2)
	if err != nil {
		return Predicate{}, fmt.Errorf("second timestamp: %w", err)
	}

	switch tag {
	case "asOf":
		return AsOf(t1), nil
	case "fromTo":
		return FromTo(t1, t2), nil
	case "betweenAnd":
		return Between(t1, t2), nil
	default:
		return All(), nil
	}
}
