package schemas

// -- Canonical result graph --
// The normalized output shape handed to the serializer: at most one head
// record, a vertex list and an edge list.

// GraphElement carries the wire form of a temporal element. Unbounded
// interval endpoints keep their sentinel values.
type GraphElement struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties"`
	TxFrom     int64          `json:"txFrom"`
	TxTo       int64          `json:"txTo"`
	ValFrom    int64          `json:"valFrom"`
	ValTo      int64          `json:"valTo"`
}

// GraphVertex is a vertex in the result graph.
type GraphVertex struct {
	GraphElement
}

// GraphEdge is an edge in the result graph. Source and Target reference
// vertex ids within the same response.
type GraphEdge struct {
	GraphElement
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphResponse is the canonical (head, vertices, edges) result shape.
// Head is nil when the pipeline produced no head record.
type GraphResponse struct {
	Head     *GraphElement `json:"head"`
	Vertices []GraphVertex `json:"vertices"`
	Edges    []GraphEdge   `json:"edges"`
}

// -- Schema discovery --

// PropertyKey describes one discovered property: the labels using it and
// whether every observed value was numerical.
type PropertyKey struct {
	Labels    []string `json:"labels"`
	Name      string   `json:"name"`
	Numerical bool     `json:"numerical"`
}

// GraphSchema lists the labels and property keys of a database, used for
// client-side query building. It is also the on-disk metadata cache
// payload.
type GraphSchema struct {
	VertexKeys   []PropertyKey `json:"vertexKeys"`
	EdgeKeys     []PropertyKey `json:"edgeKeys"`
	VertexLabels []string      `json:"vertexLabels"`
	EdgeLabels   []string      `json:"edgeLabels"`
}
