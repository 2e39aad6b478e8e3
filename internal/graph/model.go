package graph

import (
	"github.com/MaxZim21/temporal-graph-explorer/internal/temporal"
)

// Properties maps property names to values. Keys are unique per element.
type Properties map[string]Value

// Clone returns a shallow copy safe for independent mutation of the map.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Element carries the state shared by vertices, edges and graph heads:
// identifier, label, properties and the two temporal intervals.
type Element struct {
	ID         string
	Label      string
	Properties Properties
	ValidTime  temporal.Interval
	TxTime     temporal.Interval
}

// Interval returns the element's interval under the given dimension.
func (e *Element) Interval(dim temporal.Dimension) temporal.Interval {
	if dim == temporal.TransactionTime {
		return e.TxTime
	}
	return e.ValidTime
}

// Property returns the named property, or the null sentinel when absent.
func (e *Element) Property(name string) Value {
	if v, ok := e.Properties[name]; ok {
		return v
	}
	return NullValue()
}

// SetProperty stores a property, allocating the map lazily.
func (e *Element) SetProperty(name string, v Value) {
	if e.Properties == nil {
		e.Properties = make(Properties)
	}
	e.Properties[name] = v
}

// Vertex is a temporal vertex.
type Vertex struct {
	Element
}

// Edge is a temporal edge. It references its endpoints by id but does
// not own them; an edge is only meaningful while both endpoints exist in
// the same result set.
type Edge struct {
	Element
	Source string
	Target string
}

// Head is the graph head carrying graph-level metadata.
type Head struct {
	Element
}

// TemporalGraph is an in-memory temporal property graph. A graph
// instance is loaded fresh per request, transformed by exactly one
// operator pipeline and then discarded.
type TemporalGraph struct {
	Head     Head
	Vertices []Vertex
	Edges    []Edge
}
