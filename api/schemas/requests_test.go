package schemas_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxZim21/temporal-graph-explorer/api/schemas"
)

func TestGroupingRequestValidate(t *testing.T) {
	t.Parallel()

	t.Run("accepts a complete request", func(t *testing.T) {
		t.Parallel()
		req := &schemas.GroupingRequest{
			DBName: "social",
			KeyFunctions: []schemas.KeyFunctionArgs{
				{Type: "vertex", Key: "label"},
			},
			AggFunctions: []schemas.AggFunctionArgs{
				{Type: "vertex", Agg: "count"},
			},
		}
		require.NoError(t, req.Validate())
	})

	t.Run("requires the database name", func(t *testing.T) {
		t.Parallel()
		req := &schemas.GroupingRequest{}
		require.Error(t, req.Validate())
	})

	t.Run("rejects unknown element kinds structurally", func(t *testing.T) {
		t.Parallel()
		req := &schemas.GroupingRequest{
			DBName:       "social",
			KeyFunctions: []schemas.KeyFunctionArgs{{Type: "graph", Key: "label"}},
		}
		require.Error(t, req.Validate())
	})
}

func TestSnapshotRequestValidate(t *testing.T) {
	t.Parallel()

	t.Run("both timestamps are required", func(t *testing.T) {
		t.Parallel()
		req := &schemas.SnapshotRequest{
			DBName:     "social",
			Predicate:  "asOf",
			Timestamp1: "2020-01-01 00:00:00",
		}
		require.Error(t, req.Validate(), "timestamp2 is required even when the predicate ignores it")

		req.Timestamp2 = "2020-06-01 00:00:00"
		require.NoError(t, req.Validate())
	})

	t.Run("predicate and dimension tags are free-form", func(t *testing.T) {
		t.Parallel()
		// Unknown tags fall back to permissive defaults at translation
		// time, so validation does not constrain them.
		req := &schemas.SnapshotRequest{
			DBName:     "social",
			Predicate:  "sometime",
			Timestamp1: "2020-01-01 00:00:00",
			Timestamp2: "2020-06-01 00:00:00",
			Dimension:  "whatever",
		}
		require.NoError(t, req.Validate())
	})
}

func TestDifferenceRequestValidate(t *testing.T) {
	t.Parallel()

	req := &schemas.DifferenceRequest{
		DBName:          "social",
		FirstPredicate:  "asOf",
		SecondPredicate: "asOf",
		Timestamp11:     "2020-01-01 00:00:00",
		Timestamp12:     "2020-01-01 00:00:00",
		Timestamp21:     "2020-06-01 00:00:00",
	}
	require.Error(t, req.Validate(), "all four timestamps are required")

	req.Timestamp22 = "2020-06-01 00:00:00"
	require.NoError(t, req.Validate())
}

func TestRequestWireFormat(t *testing.T) {
	t.Parallel()

	raw := `{
		"dbName": "social",
		"vertexFilters": ["Person"],
		"filterAllEdges": true,
		"keyFunctions": [
			{"type": "vertex", "key": "timestamp", "dimension": "VALID_TIME", "periodBound": "FROM", "field": "year"},
			{"type": "vertex", "key": "duration", "dimension": "VALID_TIME", "unit": "DAYS"}
		],
		"aggFunctions": [
			{"type": "edge", "agg": "minTime", "dimension": "TRANSACTION_TIME", "periodBound": "TO"}
		]
	}`

	var req schemas.GroupingRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))

	assert.Equal(t, "social", req.DBName)
	assert.Equal(t, []string{"Person"}, req.VertexFilters)
	assert.True(t, req.FilterAllEdges)
	require.Len(t, req.KeyFunctions, 2)
	assert.Equal(t, "year", req.KeyFunctions[0].Field)
	assert.Equal(t, "DAYS", req.KeyFunctions[1].Unit)
	require.Len(t, req.AggFunctions, 1)
	assert.Equal(t, "TO", req.AggFunctions[0].PeriodBound)
}

func TestGraphResponseWireFormat(t *testing.T) {
	t.Parallel()

	resp := schemas.GraphResponse{
		Head: &schemas.GraphElement{ID: "g1", Label: "social"},
		Vertices: []schemas.GraphVertex{
			{GraphElement: schemas.GraphElement{ID: "v1", Label: "Person", TxFrom: 1, TxTo: 2, ValFrom: 3, ValTo: 4}},
		},
		Edges: []schemas.GraphEdge{
			{GraphElement: schemas.GraphElement{ID: "e1", Label: "knows"}, Source: "v1", Target: "v2"},
		},
	}

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Contains(t, decoded, "head")
	require.Contains(t, decoded, "vertices")
	require.Contains(t, decoded, "edges")

	vertex := decoded["vertices"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(3), vertex["valFrom"], "interval bounds use flat wire fields")

	edge := decoded["edges"].([]any)[0].(map[string]any)
	assert.Equal(t, "v1", edge["source"])
	assert.Equal(t, "v2", edge["target"])
}
