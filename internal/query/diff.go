package query

import (
	"github.com/MaxZim21/temporal-graph-explorer/internal/dataflow"
	"github.com/MaxZim21/temporal-graph-explorer/internal/graph"
	"github.com/MaxZim21/temporal-graph-explorer/internal/temporal"
)

// DiffProperty is the reserved output property marking which side of the
// difference an element came from.
const DiffProperty = "diff"

const (
	// DiffBefore marks elements present only in the first snapshot.
	DiffBefore = "before"
	// DiffAfter marks elements present only in the second snapshot.
	DiffAfter = "after"
	// DiffEqual marks unchanged vertices retained solely because a
	// changed edge needs them as endpoints.
	DiffEqual = "equal"
)

// diffPipeline composes the difference operator: both snapshots are
// computed independently, then merged into their symmetric difference by
// element id. Elements in exactly one snapshot are tagged before/after;
// elements in both are dropped, except vertices an output edge still
// needs as an endpoint, which are retained tagged equal so no edge ever
// dangles.
func diffPipeline(g *graph.TemporalGraph, first, second temporal.Predicate, dim temporal.Dimension) (*dataflow.Dataset[graph.Vertex], *dataflow.Dataset[graph.Edge]) {
	v1, e1 := snapshotPipeline(g, first, dim)
	v2, e2 := snapshotPipeline(g, second, dim)

	diffEdges := dataflow.Combine(e1, e2, func(left, right []graph.Edge) []graph.Edge {
		inLeft := edgeIDs(left)
		inRight := edgeIDs(right)
		out := make([]graph.Edge, 0, len(left)+len(right))
		for _, e := range left {
			if _, both := inRight[e.ID]; !both {
				out = append(out, tagEdge(e, DiffBefore))
			}
		}
		for _, e := range right {
			if _, both := inLeft[e.ID]; !both {
				out = append(out, tagEdge(e, DiffAfter))
			}
		}
		return out
	})

	taggedVertices := dataflow.Combine(v1, v2, func(left, right []graph.Vertex) []graph.Vertex {
		inLeft := vertexIDs(left)
		inRight := vertexIDs(right)
		out := make([]graph.Vertex, 0, len(left)+len(right))
		for _, v := range left {
			if _, both := inRight[v.ID]; !both {
				out = append(out, tagVertex(v, DiffBefore))
			}
		}
		for _, v := range right {
			if _, both := inLeft[v.ID]; both {
				// Present on both sides: only kept later if an output
				// edge needs it.
				out = append(out, tagVertex(v, DiffEqual))
			} else {
				out = append(out, tagVertex(v, DiffAfter))
			}
		}
		return out
	})

	diffVertices := dataflow.Combine(taggedVertices, diffEdges,
		func(vs []graph.Vertex, es []graph.Edge) []graph.Vertex {
			needed := make(map[string]struct{}, len(es)*2)
			for _, e := range es {
				needed[e.Source] = struct{}{}
				needed[e.Target] = struct{}{}
			}
			out := make([]graph.Vertex, 0, len(vs))
			for _, v := range vs {
				if v.Property(DiffProperty).Equal(graph.StringValue(DiffEqual)) {
					if _, ok := needed[v.ID]; !ok {
						continue
					}
				}
				out = append(out, v)
			}
			return out
		},
	)

	// Edges may still reference a vertex outside the result when the
	// endpoint matched neither snapshot side; verify against the final
	// vertex set.
	finalEdges := dataflow.Combine(diffEdges, diffVertices,
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

	return diffVertices, finalEdges
}

func vertexIDs(vs []graph.Vertex) map[string]struct{} {
	ids := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		ids[v.ID] = struct{}{}
	}
	return ids
}

func edgeIDs(es []graph.Edge) map[string]struct{} {
	ids := make(map[string]struct{}, len(es))
	for _, e := range es {
		ids[e.ID] = struct{}{}
	}
	return ids
}

func tagVertex(v graph.Vertex, side string) graph.Vertex {
	v.Properties = v.Properties.Clone()
	v.SetProperty(DiffProperty, graph.StringValue(side))
	return v
}

func tagEdge(e graph.Edge, side string) graph.Edge {
	e.Properties = e.Properties.Clone()
	e.SetProperty(DiffProperty, graph.StringValue(side))
	return e
}
