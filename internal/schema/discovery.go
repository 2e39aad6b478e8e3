// Package schema discovers the property keys and labels of a temporal
// graph and caches the result per database through an injected cache
// abstraction.
package schema

import (
	"context"
	"fmt"
	"sort"

	"github.com/MaxZim21/temporal-graph-explorer/api/schemas"
	"github.com/MaxZim21/temporal-graph-explorer/internal/dataflow"
	"github.com/MaxZim21/temporal-graph-explorer/internal/graph"
)

// keyObservation is one (labels, name, numerical) sighting of a property
// on a single element.
type keyObservation struct {
	labels    map[string]struct{}
	name      string
	numerical bool
}

// Discover scans a graph and derives its schema: distinct vertex and
// edge labels, and per side the property keys with a numerical flag. A
// key is numerical only if every observed value is; one non-numerical
// occurrence poisons the key regardless of processing order.
func Discover(ctx context.Context, g *graph.TemporalGraph) (*schemas.GraphSchema, error) {
	env := dataflow.NewEnvironment()

	vertexElements := dataflow.Map(dataflow.FromSlice(g.Vertices), func(v graph.Vertex) *graph.Element {
		return &v.Element
	})
	edgeElements := dataflow.Map(dataflow.FromSlice(g.Edges), func(e graph.Edge) *graph.Element {
		return &e.Element
	})

	var (
		vertexKeys, edgeKeys     []schemas.PropertyKey
		vertexLabels, edgeLabels []string
	)
	dataflow.Output(env, propertyKeys(vertexElements), &vertexKeys)
	dataflow.Output(env, propertyKeys(edgeElements), &edgeKeys)
	dataflow.Output(env, labels(vertexElements), &vertexLabels)
	dataflow.Output(env, labels(edgeElements), &edgeLabels)

	if err := env.Execute(ctx); err != nil {
		return nil, fmt.Errorf("schema discovery: %w", err)
	}

	sortKeys(vertexKeys)
	sortKeys(edgeKeys)
	sort.Strings(vertexLabels)
	sort.Strings(edgeLabels)

	return &schemas.GraphSchema{
		VertexKeys:   vertexKeys,
		EdgeKeys:     edgeKeys,
		VertexLabels: vertexLabels,
		EdgeLabels:   edgeLabels,
	}, nil
}

// propertyKeys maps every element to one observation per property, then
// folds observations per property name: label sets union, numerical
// flags AND.
func propertyKeys(elements *dataflow.Dataset[*graph.Element]) *dataflow.Dataset[schemas.PropertyKey] {
	observations := dataflow.FlatMap(elements, func(el *graph.Element) []keyObservation {
		out := make([]keyObservation, 0, len(el.Properties))
		for name, v := range el.Properties {
			out = append(out, keyObservation{
				labels:    map[string]struct{}{el.Label: {}},
				name:      name,
				numerical: v.IsNumeric(),
			})
		}
		return out
	})

	return dataflow.ReduceGroup(
		dataflow.GroupBy(observations, func(o keyObservation) string { return o.name }),
		func(name string, group []keyObservation) schemas.PropertyKey {
			labelSet := make(map[string]struct{})
			numerical := true
			for _, o := range group {
				for l := range o.labels {
					labelSet[l] = struct{}{}
				}
				numerical = numerical && o.numerical
			}
			labels := make([]string, 0, len(labelSet))
			for l := range labelSet {
				labels = append(labels, l)
			}
			sort.Strings(labels)
			return schemas.PropertyKey{Labels: labels, Name: name, Numerical: numerical}
		},
	)
}

// labels folds the distinct label set of the elements.
func labels(elements *dataflow.Dataset[*graph.Element]) *dataflow.Dataset[string] {
	sets := dataflow.Map(elements, func(el *graph.Element) map[string]struct{} {
		return map[string]struct{}{el.Label: {}}
	})
	union := dataflow.Reduce(sets, func(a, b map[string]struct{}) map[string]struct{} {
		merged := make(map[string]struct{}, len(a)+len(b))
		for l := range a {
			merged[l] = struct{}{}
		}
		for l := range b {
			merged[l] = struct{}{}
		}
		return merged
	})
	return dataflow.FlatMap(union, func(set map[string]struct{}) []string {
		out := make([]string, 0, len(set))
		for l := range set {
			out = append(out, l)
		}
		return out
	})
}

func sortKeys(keys []schemas.PropertyKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })
}
