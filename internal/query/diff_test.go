package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxZim21/temporal-graph-explorer/internal/graph"
	"github.com/MaxZim21/temporal-graph-explorer/internal/temporal"
)

func diffTag(t *testing.T, el graph.Element) string {
	t.Helper()
	v := el.Property(DiffProperty)
	require.False(t, v.IsNull(), "element %s carries no diff tag", el.ID)
	return v.String()
}

func TestDifferenceOfIdenticalSnapshotsIsEmpty(t *testing.T) {
	t.Parallel()

	g := fixtureGraph()
	vd, ed := diffPipeline(g, temporal.All(), temporal.All(), temporal.ValidTime)
	vs, es := runPipeline(t, vd, ed)
	assert.Empty(t, vs, "identical snapshots leave nothing to report")
	assert.Empty(t, es)
}

func TestDifferenceTagsSides(t *testing.T) {
	t.Parallel()

	g := fixtureGraph()
	// First snapshot at 120: {p1, c1, e2}. Second at 250: {p2, c1, e3}.
	vd, ed := diffPipeline(g, temporal.AsOf(120), temporal.AsOf(250), temporal.ValidTime)
	vs, es := runPipeline(t, vd, ed)

	tagsByID := map[string]string{}
	for _, v := range vs {
		tagsByID[v.ID] = diffTag(t, v.Element)
	}
	assert.Equal(t, DiffBefore, tagsByID["p1"])
	assert.Equal(t, DiffAfter, tagsByID["p2"])
	assert.Equal(t, DiffEqual, tagsByID["c1"], "c1 is unchanged but both diff edges need it")

	require.Len(t, es, 2)
	edgeTags := map[string]string{}
	for _, e := range es {
		edgeTags[e.ID] = diffTag(t, e.Element)
	}
	assert.Equal(t, DiffBefore, edgeTags["e2"])
	assert.Equal(t, DiffAfter, edgeTags["e3"])
}

func TestDifferenceDropsUnneededEqualVertices(t *testing.T) {
	t.Parallel()

	// A graph where the unchanged vertex is not an endpoint of any
	// changed edge: it must not appear in the result.
	g := &graph.TemporalGraph{
		Head: graph.Head{Element: graph.Element{ID: "g", ValidTime: temporal.Unbounded(), TxTime: temporal.Unbounded()}},
		Vertices: []graph.Vertex{
			{Element: graph.Element{ID: "stable", ValidTime: temporal.Unbounded(), TxTime: temporal.Unbounded()}},
			{Element: graph.Element{ID: "young", ValidTime: temporal.Interval{From: 200, To: 300}, TxTime: temporal.Unbounded()}},
		},
	}

	vd, ed := diffPipeline(g, temporal.AsOf(100), temporal.AsOf(250), temporal.ValidTime)
	vs, es := runPipeline(t, vd, ed)

	require.Len(t, vs, 1)
	assert.Equal(t, "young", vs[0].ID)
	assert.Equal(t, DiffAfter, diffTag(t, vs[0].Element))
	assert.Empty(t, es)
}

func TestDifferenceDoesNotMutateTheSource(t *testing.T) {
	t.Parallel()

	g := fixtureGraph()
	vd, ed := diffPipeline(g, temporal.AsOf(120), temporal.AsOf(250), temporal.ValidTime)
	_, _ = runPipeline(t, vd, ed)

	for _, v := range g.Vertices {
		assert.True(t, v.Property(DiffProperty).IsNull(),
			"tagging must work on copies, vertex %s was mutated", v.ID)
	}
	for _, e := range g.Edges {
		assert.True(t, e.Property(DiffProperty).IsNull(),
			"tagging must work on copies, edge %s was mutated", e.ID)
	}
}
