// Package source loads temporal graphs from disk. This is thin I/O
// glue; the interesting work happens in the query operators.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/MaxZim21/temporal-graph-explorer/internal/graph"
	"github.com/MaxZim21/temporal-graph-explorer/internal/temporal"
)

// ErrDatabaseNotFound reports an unknown database name.
var ErrDatabaseNotFound = errors.New("database not found")

const (
	vertexFile = "vertices.csv"
	edgeFile   = "edges.csv"
)

// CSVSource loads a database from <dataDir>/<name>/vertices.csv and
// edges.csv. Fields are semicolon-separated:
//
//	vertices: id;label;properties;txFrom;txTo;valFrom;valTo
//	edges:    id;source;target;label;properties;txFrom;txTo;valFrom;valTo
//
// Times are epoch milliseconds; an empty cell is unbounded. Properties
// are "name=type:value" pairs joined with '|', types in
// {string,int,float,bool,null}.
type CSVSource struct {
	dataDir string
	log     *zap.Logger
}

// NewCSVSource creates a loader rooted at dataDir.
func NewCSVSource(dataDir string, logger *zap.Logger) *CSVSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVSource{dataDir: dataDir, log: logger.Named("csv_source")}
}

// Load reads a fresh graph instance for one request.
func (s *CSVSource) Load(databaseName string) (*graph.TemporalGraph, error) {
	dir := filepath.Join(s.dataDir, databaseName)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %q", ErrDatabaseNotFound, databaseName)
	}

	vertices, err := s.loadVertices(filepath.Join(dir, vertexFile))
	if err != nil {
		return nil, fmt.Errorf("loading vertices of %q: %w", databaseName, err)
	}
	edges, err := s.loadEdges(filepath.Join(dir, edgeFile))
	if err != nil {
		return nil, fmt.Errorf("loading edges of %q: %w", databaseName, err)
	}

	s.log.Debug("Graph loaded",
		zap.String("database", databaseName),
		zap.Int("vertices", len(vertices)),
		zap.Int("edges", len(edges)))

	return &graph.TemporalGraph{
		Head: graph.Head{Element: graph.Element{
			ID:        databaseName,
			Label:     databaseName,
			ValidTime: temporal.Unbounded(),
			TxTime:    temporal.Unbounded(),
		}},
		Vertices: vertices,
		Edges:    edges,
	}, nil
}

func (s *CSVSource) loadVertices(path string) ([]graph.Vertex, error) {
	rows, err := readRows(path, 7)
	if err != nil {
		return nil, err
	}
	vertices := make([]graph.Vertex, 0, len(rows))
	for i, row := range rows {
		el, err := parseElement(row[0], row[1], row[2], row[3:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		vertices = append(vertices, graph.Vertex{Element: el})
	}
	return vertices, nil
}

func (s *CSVSource) loadEdges(path string) ([]graph.Edge, error) {
	rows, err := readRows(path, 9)
	if err != nil {
		// A database without edges is legal.
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	edges := make([]graph.Edge, 0, len(rows))
	for i, row := range rows {
		el, err := parseElement(row[0], row[3], row[4], row[5:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		edges = append(edges, graph.Edge{Element: el, Source: row[1], Target: row[2]})
	}
	return edges, nil
}

func readRows(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = fields

	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

func parseElement(id, label, props string, times []string) (graph.Element, error) {
	properties, err := parseProperties(props)
	if err != nil {
		return graph.Element{}, err
	}
	txFrom, err := parseInstant(times[0], temporal.UnboundedFrom)
	if err != nil {
		return graph.Element{}, err
	}
	txTo, err := parseInstant(times[1], temporal.UnboundedTo)
	if err != nil {
		return graph.Element{}, err
	}
	valFrom, err := parseInstant(times[2], temporal.UnboundedFrom)
	if err != nil {
		return graph.Element{}, err
	}
	valTo, err := parseInstant(times[3], temporal.UnboundedTo)
	if err != nil {
		return graph.Element{}, err
	}
	return graph.Element{
		ID:         id,
		Label:      label,
		Properties: properties,
		TxTime:     temporal.Interval{From: txFrom, To: txTo},
		ValidTime:  temporal.Interval{From: valFrom, To: valTo},
	}, nil
}

func parseInstant(cell string, unbounded int64) (int64, error) {
	if cell == "" {
		return unbounded, nil
	}
	millis, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad instant %q: %w", cell, err)
	}
	return millis, nil
}

func parseProperties(cell string) (graph.Properties, error) {
	if cell == "" {
		return nil, nil
	}
	props := make(graph.Properties)
	for _, pair := range strings.Split(cell, "|") {
		name, typed, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("bad property %q", pair)
		}
		v, err := parseValue(typed)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		props[name] = v
	}
	return props, nil
}

func parseValue(typed string) (graph.Value, error) {
	typ, raw, ok := strings.Cut(typed, ":")
	if !ok {
		return graph.Value{}, fmt.Errorf("bad typed value %q", typed)
	}
	switch typ {
	case "string":
		return graph.StringValue(raw), nil
	case "int":
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return graph.Value{}, fmt.Errorf("bad int %q: %w", raw, err)
		}
		return graph.IntValue(i), nil
	case "float":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return graph.Value{}, fmt.Errorf("bad float %q: %w", raw, err)
		}
		return graph.FloatValue(f), nil
	case "bool":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return graph.Value{}, fmt.Errorf("bad bool %q: %w", raw, err)
		}
		return graph.BoolValue(b), nil
	case "null":
		return graph.NullValue(), nil
	default:
		return graph.Value{}, fmt.Errorf("unknown property type %q", typ)
	}
}
