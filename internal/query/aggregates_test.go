package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxZim21/temporal-graph-explorer/api/schemas"
	"github.com/MaxZim21/temporal-graph-explorer/internal/graph"
	"github.com/MaxZim21/temporal-graph-explorer/internal/temporal"
)

func elementWithProp(name string, v graph.Value) *graph.Element {
	return &graph.Element{
		Properties: graph.Properties{name: v},
		ValidTime:  temporal.Unbounded(),
		TxTime:     temporal.Unbounded(),
	}
}

func elementWithValidTime(from, to int64) *graph.Element {
	return &graph.Element{
		ValidTime: temporal.Interval{From: from, To: to},
		TxTime:    temporal.Unbounded(),
	}
}

func runAggregate(t *testing.T, args schemas.AggFunctionArgs, legacy bool, els ...*graph.Element) (graph.Value, bool) {
	t.Helper()
	af, err := resolveAggregateFunction(args, legacy)
	require.NoError(t, err)
	agg := af.New()
	for _, el := range els {
		agg.Add(el)
	}
	return agg.Result()
}

func TestCountAggregate(t *testing.T) {
	t.Parallel()

	af, err := resolveAggregateFunction(schemas.AggFunctionArgs{Agg: "count"}, true)
	require.NoError(t, err)
	assert.Equal(t, "count", af.PropertyName)

	v, ok := runAggregate(t, schemas.AggFunctionArgs{Agg: "count"}, true,
		elementWithProp("x", graph.IntValue(1)),
		elementWithProp("x", graph.IntValue(2)),
		elementWithProp("x", graph.IntValue(3)),
	)
	require.True(t, ok)
	assert.Equal(t, graph.IntValue(3), v)
}

func TestPropertyAggregates(t *testing.T) {
	t.Parallel()

	mixed := []*graph.Element{
		elementWithProp("age", graph.IntValue(20)),
		elementWithProp("age", graph.IntValue(40)),
		elementWithProp("age", graph.StringValue("old")),
		elementWithProp("other", graph.IntValue(99)),
	}

	t.Run("avg divides by contributing values only", func(t *testing.T) {
		t.Parallel()
		v, ok := runAggregate(t, schemas.AggFunctionArgs{Agg: "avgProp", Prop: "age"}, true, mixed...)
		require.True(t, ok)
		f, isNum := v.Float64()
		require.True(t, isNum)
		assert.Equal(t, 30.0, f, "non-numerical and absent values are skipped")
	})

	t.Run("min and max keep the winning value", func(t *testing.T) {
		t.Parallel()
		v, ok := runAggregate(t, schemas.AggFunctionArgs{Agg: "minProp", Prop: "age"}, true, mixed...)
		require.True(t, ok)
		assert.Equal(t, graph.IntValue(20), v)

		v, ok = runAggregate(t, schemas.AggFunctionArgs{Agg: "maxProp", Prop: "age"}, true, mixed...)
		require.True(t, ok)
		assert.Equal(t, graph.IntValue(40), v)
	})

	t.Run("sum stays integral without float inputs", func(t *testing.T) {
		t.Parallel()
		v, ok := runAggregate(t, schemas.AggFunctionArgs{Agg: "sumProp", Prop: "age"}, true, mixed...)
		require.True(t, ok)
		assert.Equal(t, graph.IntValue(60), v)
	})

	t.Run("sum turns float when any input is float", func(t *testing.T) {
		t.Parallel()
		v, ok := runAggregate(t, schemas.AggFunctionArgs{Agg: "sumProp", Prop: "age"}, true,
			elementWithProp("age", graph.IntValue(1)),
			elementWithProp("age", graph.FloatValue(0.5)),
		)
		require.True(t, ok)
		f, isNum := v.Float64()
		require.True(t, isNum)
		assert.Equal(t, 1.5, f)
	})

	t.Run("no contributing values omits the property", func(t *testing.T) {
		t.Parallel()
		_, ok := runAggregate(t, schemas.AggFunctionArgs{Agg: "avgProp", Prop: "age"}, true,
			elementWithProp("age", graph.StringValue("n/a")),
		)
		assert.False(t, ok)
	})

	t.Run("missing property name fails", func(t *testing.T) {
		t.Parallel()
		_, err := resolveAggregateFunction(schemas.AggFunctionArgs{Agg: "avgProp"}, true)
		requireKind(t, err, KindConfig)
	})
}

func TestTimeAggregates(t *testing.T) {
	t.Parallel()

	els := []*graph.Element{
		elementWithValidTime(100, 200),
		elementWithValidTime(50, 400),
		elementWithValidTime(150, 300),
	}

	t.Run("minTime picks the earliest bound", func(t *testing.T) {
		t.Parallel()
		af, err := resolveAggregateFunction(schemas.AggFunctionArgs{
			Agg: "minTime", Dimension: "VALID_TIME", PeriodBound: "FROM",
		}, true)
		require.NoError(t, err)
		assert.Equal(t, "minTime_VALID_TIME_FROM", af.PropertyName)

		agg := af.New()
		for _, el := range els {
			agg.Add(el)
		}
		v, ok := agg.Result()
		require.True(t, ok)
		assert.Equal(t, graph.IntValue(50), v)
	})

	t.Run("maxTime picks the latest bound", func(t *testing.T) {
		t.Parallel()
		v, ok := runAggregate(t, schemas.AggFunctionArgs{
			Agg: "maxTime", Dimension: "VALID_TIME", PeriodBound: "TO",
		}, true, els...)
		require.True(t, ok)
		assert.Equal(t, graph.IntValue(400), v)
	})
}

func TestDurationAggregates(t *testing.T) {
	t.Parallel()

	// Durations: 100, 350, 150.
	els := []*graph.Element{
		elementWithValidTime(100, 200),
		elementWithValidTime(50, 400),
		elementWithValidTime(150, 300),
	}

	t.Run("minDuration and maxDuration", func(t *testing.T) {
		t.Parallel()
		v, ok := runAggregate(t, schemas.AggFunctionArgs{Agg: "minDuration", Dimension: "VALID_TIME"}, true, els...)
		require.True(t, ok)
		assert.Equal(t, graph.IntValue(100), v)

		v, ok = runAggregate(t, schemas.AggFunctionArgs{Agg: "maxDuration", Dimension: "VALID_TIME"}, true, els...)
		require.True(t, ok)
		assert.Equal(t, graph.IntValue(350), v)
	})

	t.Run("avgDuration in legacy mode reproduces the maximum", func(t *testing.T) {
		t.Parallel()
		af, err := resolveAggregateFunction(schemas.AggFunctionArgs{Agg: "avgDuration", Dimension: "VALID_TIME"}, true)
		require.NoError(t, err)
		assert.Equal(t, "avgDuration_VALID_TIME", af.PropertyName)

		agg := af.New()
		for _, el := range els {
			agg.Add(el)
		}
		v, ok := agg.Result()
		require.True(t, ok)
		assert.Equal(t, graph.IntValue(350), v)
	})

	t.Run("avgDuration without legacy mode is the mean", func(t *testing.T) {
		t.Parallel()
		v, ok := runAggregate(t, schemas.AggFunctionArgs{Agg: "avgDuration", Dimension: "VALID_TIME"}, false, els...)
		require.True(t, ok)
		assert.Equal(t, graph.IntValue(200), v)
	})
}

func TestResolveAggregateFunctions(t *testing.T) {
	t.Parallel()

	t.Run("splits by element kind", func(t *testing.T) {
		t.Parallel()
		va, ea, err := resolveAggregateFunctions([]schemas.AggFunctionArgs{
			{Type: "vertex", Agg: "count"},
			{Type: "edge", Agg: "count"},
		}, true)
		require.NoError(t, err)
		assert.Len(t, va, 1)
		assert.Len(t, ea, 1)
	})

	t.Run("unknown aggregate fails", func(t *testing.T) {
		t.Parallel()
		_, _, err := resolveAggregateFunctions([]schemas.AggFunctionArgs{
			{Type: "vertex", Agg: "median"},
		}, true)
		requireKind(t, err, KindConfig)
	})
}
