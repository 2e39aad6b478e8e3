package query

import (
	"strings"

	"github.com/google/uuid"

	"github.com/MaxZim21/temporal-graph-explorer/internal/dataflow"
	"github.com/MaxZim21/temporal-graph-explorer/internal/graph"
	"github.com/MaxZim21/temporal-graph-explorer/internal/temporal"
)

// GroupingSpec is the fully resolved form of a grouping request: label
// filters, key functions and aggregate functions per element kind.
type GroupingSpec struct {
	VertexLabels []string
	EdgeLabels   []string
	DropAllEdges bool

	VertexKeys []KeyFunction
	EdgeKeys   []KeyFunction
	VertexAggs []AggregateFunction
	EdgeAggs   []AggregateFunction
}

// vertexGroup couples a representative vertex with the ids of the
// original vertices it stands for; the edge pipeline needs the mapping.
type vertexGroup struct {
	rep     graph.Vertex
	members []string
}

const keySeparator = "\x1f"

// keyTuple encodes the outputs of all key functions into one partition
// key. With no key functions every element lands in a single partition,
// collapsing the graph.
func keyTuple(el *graph.Element, keys []KeyFunction) string {
	if len(keys) == 0 {
		return ""
	}
	parts := make([]string, len(keys))
	for i, kf := range keys {
		parts[i] = kf.Extract(el).Key()
	}
	return strings.Join(parts, keySeparator)
}

// labelAccepted applies a label filter list. An empty list accepts every
// label.
func labelAccepted(label string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if f == label {
			return true
		}
	}
	return false
}

// applyKeysAndAggregates builds the representative element of one
// partition: key values become properties (a label key becomes the
// label), aggregates append their summary properties.
func applyKeysAndAggregates(rep *graph.Element, sample *graph.Element, group []*graph.Element, keys []KeyFunction, aggs []AggregateFunction) {
	for _, kf := range keys {
		v := kf.Extract(sample)
		if kf.IsLabel {
			rep.Label = sample.Label
			continue
		}
		rep.SetProperty(kf.Name, v)
	}
	for _, af := range aggs {
		acc := af.New()
		for _, el := range group {
			acc.Add(el)
		}
		if v, ok := acc.Result(); ok {
			rep.SetProperty(af.PropertyName, v)
		}
	}
}

// groupingPipeline composes the keyed grouping operator over the lazy
// dataflow engine. Nothing executes until the caller's environment runs.
func groupingPipeline(g *graph.TemporalGraph, spec GroupingSpec) (*dataflow.Dataset[graph.Vertex], *dataflow.Dataset[graph.Edge]) {
	vertices := dataflow.FromSlice(g.Vertices)

	filteredVertices := dataflow.Filter(vertices, func(v graph.Vertex) bool {
		return labelAccepted(v.Label, spec.VertexLabels)
	})

	grouped := dataflow.ReduceGroup(
		dataflow.GroupBy(filteredVertices, func(v graph.Vertex) string {
			return keyTuple(&v.Element, spec.VertexKeys)
		}),
		func(_ string, group []graph.Vertex) vertexGroup {
			rep := graph.Vertex{Element: graph.Element{
				ID:        uuid.NewString(),
				ValidTime: temporal.Unbounded(),
				TxTime:    temporal.Unbounded(),
			}}
			members := make([]string, len(group))
			elements := make([]*graph.Element, len(group))
			for i := range group {
				members[i] = group[i].ID
				elements[i] = &group[i].Element
			}
			applyKeysAndAggregates(&rep.Element, &group[0].Element, elements, spec.VertexKeys, spec.VertexAggs)
			return vertexGroup{rep: rep, members: members}
		},
	)

	superVertices := dataflow.Map(grouped, func(vg vertexGroup) graph.Vertex {
		return vg.rep
	})

	// Edge work is skipped entirely when the request drops all edges.
	if spec.DropAllEdges {
		return superVertices, dataflow.FromSlice[graph.Edge](nil)
	}

	edges := dataflow.FromSlice(g.Edges)
	filteredEdges := dataflow.Filter(edges, func(e graph.Edge) bool {
		return labelAccepted(e.Label, spec.EdgeLabels)
	})

	// Re-target every surviving edge to the representatives of its
	// endpoints' partitions; edges losing an endpoint are dropped.
	retargeted := dataflow.Combine(filteredEdges, grouped,
		func(es []graph.Edge, groups []vertexGroup) []graph.Edge {
			repOf := make(map[string]string)
			for _, vg := range groups {
				for _, id := range vg.members {
					repOf[id] = vg.rep.ID
				}
			}
			out := make([]graph.Edge, 0, len(es))
			for _, e := range es {
				src, okSrc := repOf[e.Source]
				tgt, okTgt := repOf[e.Target]
				if !okSrc || !okTgt {
					continue
				}
				e.Source = src
				e.Target = tgt
				out = append(out, e)
			}
			return out
		},
	)

	superEdges := dataflow.ReduceGroup(
		dataflow.GroupBy(retargeted, func(e graph.Edge) string {
			return e.Source + keySeparator + e.Target + keySeparator + keyTuple(&e.Element, spec.EdgeKeys)
		}),
		func(_ string, group []graph.Edge) graph.Edge {
			rep := graph.Edge{
				Element: graph.Element{
					ID:        uuid.NewString(),
					ValidTime: temporal.Unbounded(),
					TxTime:    temporal.Unbounded(),
				},
				Source: group[0].Source,
				Target: group[0].Target,
			}
			elements := make([]*graph.Element, len(group))
			for i := range group {
				elements[i] = &group[i].Element
			}
			applyKeysAndAggregates(&rep.Element, &group[0].Element, elements, spec.EdgeKeys, spec.EdgeAggs)
			return rep
		},
	)

	return superVertices, superEdges
}
