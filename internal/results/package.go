// Package results normalizes operator output into the canonical
// (head, vertices, edges) response shape handed to the serializer.
package results

import (
	"sort"

	"github.com/MaxZim21/temporal-graph-explorer/api/schemas"
	"github.com/MaxZim21/temporal-graph-explorer/internal/graph"
)

// Package assembles the canonical result graph. Vertices and edges are
// ordered by id so the same pipeline always serializes identically.
func Package(head *graph.Head, vertices []graph.Vertex, edges []graph.Edge) *schemas.GraphResponse {
	resp := &schemas.GraphResponse{
		Vertices: make([]schemas.GraphVertex, 0, len(vertices)),
		Edges:    make([]schemas.GraphEdge, 0, len(edges)),
	}

	if head != nil {
		h := wireElement(&head.Element)
		resp.Head = &h
	}

	for i := range vertices {
		resp.Vertices = append(resp.Vertices, schemas.GraphVertex{
			GraphElement: wireElement(&vertices[i].Element),
		})
	}
	for i := range edges {
		resp.Edges = append(resp.Edges, schemas.GraphEdge{
			GraphElement: wireElement(&edges[i].Element),
			Source:       edges[i].Source,
			Target:       edges[i].Target,
		})
	}

	sort.Slice(resp.Vertices, func(i, j int) bool { return resp.Vertices[i].ID < resp.Vertices[j].ID })
	sort.Slice(resp.Edges, func(i, j int) bool { return resp.Edges[i].ID < resp.Edges[j].ID })

	return resp
}

func wireElement(el *graph.Element) schemas.GraphElement {
	props := make(map[string]any, len(el.Properties))
	for name, v := range el.Properties {
		props[name] = v
	}
	return schemas.GraphElement{
		ID:         el.ID,
		Label:      el.Label,
		Properties: props,
		TxFrom:     el.TxTime.From,
		TxTo:       el.TxTime.To,
		ValFrom:    el.ValidTime.From,
		ValTo:      el.ValidTime.To,
	}
}
