package query

import (
	"github.com/MaxZim21/temporal-graph-explorer/api/schemas"
	"github.com/MaxZim21/temporal-graph-explorer/internal/graph"
	"github.com/MaxZim21/temporal-graph-explorer/internal/temporal"
)

// Aggregator accumulates one summary value over the elements of a group.
// Implementations must be order-independent: the engine gives no ordering
// guarantee within a group.
type Aggregator interface {
	Add(el *graph.Element)
	// Result returns the aggregate value; ok is false when no element
	// contributed (the output property is then omitted).
	Result() (v graph.Value, ok bool)
}

// AggregateFunction pairs the fixed output property name with a factory
// producing a fresh accumulator per group.
type AggregateFunction struct {
	PropertyName string
	New          func() Aggregator
}

// resolveAggregateFunction turns an aggregate descriptor into an
// executable aggregate. Tag validation happens here, before any data is
// processed.
//
// legacyAvgDuration preserves the behavior observed in the service this
// replaces, where the avgDuration tag was wired to a maximum-duration
// reducer. The correct mean reducer is used when the flag is off.
func resolveAggregateFunction(args schemas.AggFunctionArgs, legacyAvgDuration bool) (AggregateFunction, error) {
	switch args.Agg {
	case "count":
		return AggregateFunction{
			PropertyName: "count",
			New:          func() Aggregator { return &countAggregator{} },
		}, nil

	case "minProp", "maxProp", "sumProp", "avgProp":
		if args.Prop == "" {
			return AggregateFunction{}, configErrorf("%s needs a property name", args.Agg)
		}
		prefix := map[string]string{
			"minProp": "min_", "maxProp": "max_", "sumProp": "sum_", "avgProp": "avg_",
		}[args.Agg]
		mode := args.Agg
		prop := args.Prop
		return AggregateFunction{
			PropertyName: prefix + prop,
			New:          func() Aggregator { return &propertyAggregator{mode: mode, prop: prop} },
		}, nil

	case "minTime", "maxTime":
		dim, err := temporal.ParseDimensionName(args.Dimension)
		if err != nil {
			return AggregateFunction{}, configErrorf("%s: %v", args.Agg, err)
		}
		bound, err := temporal.ParsePeriodBound(args.PeriodBound)
		if err != nil {
			return AggregateFunction{}, configErrorf("%s: %v", args.Agg, err)
		}
		max := args.Agg == "maxTime"
		return AggregateFunction{
			PropertyName: args.Agg + "_" + dim.String() + "_" + bound.String(),
			New:          func() Aggregator { return &timeAggregator{dim: dim, bound: bound, max: max} },
		}, nil

	case "minDuration", "maxDuration":
		dim, err := temporal.ParseDimensionName(args.Dimension)
		if err != nil {
			return AggregateFunction{}, configErrorf("%s: %v", args.Agg, err)
		}
		max := args.Agg == "maxDuration"
		return AggregateFunction{
			PropertyName: args.Agg + "_" + dim.String(),
			New:          func() Aggregator { return &durationAggregator{dim: dim, max: max} },
		}, nil

	case "avgDuration":
		dim, err := temporal.ParseDimensionName(args.Dimension)
		if err != nil {
			return AggregateFunction{}, configErrorf("avgDuration: %v", err)
		}
		name := "avgDuration_" + dim.String()
		if legacyAvgDuration {
			// Compatibility: the previous implementation computed a
			// maximum under the avgDuration name.
			return AggregateFunction{
				PropertyName: name,
				New:          func() Aggregator { return &durationAggregator{dim: dim, max: true} },
			}, nil
		}
		return AggregateFunction{
			PropertyName: name,
			New:          func() Aggregator { return &durationAggregator{dim: dim, mean: true} },
		}, nil

	default:
		return AggregateFunction{}, configErrorf("unknown aggregate function %q", args.Agg)
	}
}

// resolveAggregateFunctions splits the request's aggregate descriptors
// into vertex and edge lists, order-preserving.
func resolveAggregateFunctions(all []schemas.AggFunctionArgs, legacyAvgDuration bool) (vertexAggs, edgeAggs []AggregateFunction, err error) {
	for _, args := range all {
		kind, err := parseElementKind(args.Type)
		if err != nil {
			return nil, nil, err
		}
		af, err := resolveAggregateFunction(args, legacyAvgDuration)
		if err != nil {
			return nil, nil, err
		}
		if kind == KindVertex {
			vertexAggs = append(vertexAggs, af)
		} else {
			edgeAggs = append(edgeAggs, af)
		}
	}
	return vertexAggs, edgeAggs, nil
}

// countAggregator counts group cardinality, ignoring element content.
type countAggregator struct {
	n int64
}

func (a *countAggregator) Add(*graph.Element) { a.n++ }

func (a *countAggregator) Result() (graph.Value, bool) {
	return graph.IntValue(a.n), true
}

// propertyAggregator computes min/max/sum/avg over a numerical property.
// Non-numerical occurrences are skipped, not an error; the average
// divides by the count of contributing values only.
type propertyAggregator struct {
	mode string
	prop string

	seen     int64
	best     graph.Value
	sumInt   int64
	sumFloat float64
	sawFloat bool
}

func (a *propertyAggregator) Add(el *graph.Element) {
	v := el.Property(a.prop)
	f, ok := v.Float64()
	if !ok {
		return
	}
	a.seen++
	switch a.mode {
	case "minProp":
		if cur, have := a.best.Float64(); !have || f < cur {
			a.best = v
		}
	case "maxProp":
		if cur, have := a.best.Float64(); !have || f > cur {
			a.best = v
		}
	default: // sumProp, avgProp
		if i, isInt := v.Int64(); isInt {
			a.sumInt += i
		} else {
			a.sawFloat = true
		}
		a.sumFloat += f
	}
}

func (a *propertyAggregator) Result() (graph.Value, bool) {
	if a.seen == 0 {
		return graph.NullValue(), false
	}
	switch a.mode {
	case "minProp", "maxProp":
		return a.best, true
	case "sumProp":
		if a.sawFloat {
			return graph.FloatValue(a.sumFloat), true
		}
		return graph.IntValue(a.sumInt), true
	default: // avgProp
		return graph.FloatValue(a.sumFloat / float64(a.seen)), true
	}
}

// timeAggregator selects the extremum instant at (dimension, bound).
type timeAggregator struct {
	dim   temporal.Dimension
	bound temporal.PeriodBound
	max   bool

	seen bool
	best int64
}

func (a *timeAggregator) Add(el *graph.Element) {
	t := el.Interval(a.dim).Bound(a.bound)
	if !a.seen || (a.max && t > a.best) || (!a.max && t < a.best) {
		a.best = t
	}
	a.seen = true
}

func (a *timeAggregator) Result() (graph.Value, bool) {
	if !a.seen {
		return graph.NullValue(), false
	}
	return graph.IntValue(a.best), true
}

// durationAggregator computes min/max/mean over interval lengths.
type durationAggregator struct {
	dim  temporal.Dimension
	max  bool
	mean bool

	seen int64
	best int64
	sum  int64
}

func (a *durationAggregator) Add(el *graph.Element) {
	d := el.Interval(a.dim).DurationMillis()
	if a.seen == 0 || (a.max && d > a.best) || (!a.max && d < a.best) {
		a.best = d
	}
	a.sum += d
	a.seen++
}

func (a *durationAggregator) Result() (graph.Value, bool) {
	if a.seen == 0 {
		return graph.NullValue(), false
	}
	if a.mean {
		return graph.IntValue(a.sum / a.seen), true
	}
	return graph.IntValue(a.best), true
}
