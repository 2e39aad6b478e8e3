package query

import (
	"github.com/MaxZim21/temporal-graph-explorer/internal/dataflow"
	"github.com/MaxZim21/temporal-graph-explorer/internal/graph"
	"github.com/MaxZim21/temporal-graph-explorer/internal/temporal"
)

// snapshotPipeline composes the snapshot operator: vertices whose
// interval (under dim) satisfies the predicate, and edges that satisfy
// it AND keep both endpoints. The graph head passes through unchanged.
func snapshotPipeline(g *graph.TemporalGraph, pred temporal.Predicate, dim temporal.Dimension) (*dataflow.Dataset[graph.Vertex], *dataflow.Dataset[graph.Edge]) {
	vertices := dataflow.Filter(dataflow.FromSlice(g.Vertices), func(v graph.Vertex) bool {
		return pred.Matches(v.Interval(dim))
	})

	matchingEdges := dataflow.Filter(dataflow.FromSlice(g.Edges), func(e graph.Edge) bool {
		return pred.Matches(e.Interval(dim))
	})

	// Dangling edges are removed against the surviving vertex set.
	edges := dataflow.Combine(matchingEdges, vertices,
		func(es []graph.Edge, vs []graph.Vertex) []graph.Edge {
			alive := vertexIDs(vs)
			out := make([]graph.Edge, 0, len(es))
			for _, e := range es {
				if _, ok := alive[e.Source]; !ok {
					continue
				}
				if _, ok := alive[e.Target]; !ok {
					continue
				}
				out = append(out, e)
			}
			return out
		},
	)

	return vertices, edges
}
