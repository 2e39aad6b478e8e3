package query

import (
	"context"

	"go.uber.org/zap"

	"github.com/MaxZim21/temporal-graph-explorer/api/schemas"
	"github.com/MaxZim21/temporal-graph-explorer/internal/dataflow"
	"github.com/MaxZim21/temporal-graph-explorer/internal/graph"
	"github.com/MaxZim21/temporal-graph-explorer/internal/results"
	"github.com/MaxZim21/temporal-graph-explorer/internal/schema"
	"github.com/MaxZim21/temporal-graph-explorer/internal/temporal"
)

// Source loads a fresh graph instance per request. Load failures are
// surfaced to callers as a not-found condition.
type Source interface {
	Load(databaseName string) (*graph.TemporalGraph, error)
}

// Options tune service behavior.
type Options struct {
	// LegacyAvgDuration keeps the historical wiring of the avgDuration
	// aggregate to a maximum-duration reducer.
	LegacyAvgDuration bool
}

// Service is the query facade: it translates requests into operator
// pipelines, executes them and packages the normalized result graph.
// Each request is stateless; only the schema cache persists between
// requests.
type Service struct {
	source Source
	cache  schema.Cache
	opts   Options
	log    *zap.Logger
}

// NewService wires the service with its collaborators.
func NewService(src Source, cache schema.Cache, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source: src,
		cache:  cache,
		opts:   opts,
		log:    logger.Named("query_service"),
	}
}

// RunGrouping translates and executes a keyed grouping request.
func (s *Service) RunGrouping(ctx context.Context, req *schemas.GroupingRequest) (*schemas.GraphResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &Error{Kind: KindConfig, Msg: "request validation failed", Err: err}
	}

	// Translation is pure and fails before any data is touched.
	vertexKeys, edgeKeys, err := resolveKeyFunctions(req.KeyFunctions)
	if err != nil {
		return nil, err
	}
	vertexAggs, edgeAggs, err := resolveAggregateFunctions(req.AggFunctions, s.opts.LegacyAvgDuration)
	if err != nil {
		return nil, err
	}

	g, err := s.load(req.DBName)
	if err != nil {
		return nil, err
	}

	spec := GroupingSpec{
		VertexLabels: req.VertexFilters,
		EdgeLabels:   req.EdgeFilters,
		DropAllEdges: req.FilterAllEdges,
		VertexKeys:   vertexKeys,
		EdgeKeys:     edgeKeys,
		VertexAggs:   vertexAggs,
		EdgeAggs:     edgeAggs,
	}

	s.log.Info("Running keyed grouping",
		zap.String("database", req.DBName),
		zap.Int("vertex_keys", len(vertexKeys)),
		zap.Int("edge_keys", len(edgeKeys)),
		zap.Bool("drop_all_edges", req.FilterAllEdges))

	vertices, edges := groupingPipeline(g, spec)
	return s.collect(ctx, &g.Head, vertices, edges)
}

// RunSnapshot translates and executes a snapshot request.
func (s *Service) RunSnapshot(ctx context.Context, req *schemas.SnapshotRequest) (*schemas.GraphResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &Error{Kind: KindConfig, Msg: "request validation failed", Err: err}
	}

	pred, err := temporal.ParsePredicate(req.Predicate, req.Timestamp1, req.Timestamp2)
	if err != nil {
		return nil, parseError("snapshot predicate", err)
	}
	dim := temporal.ParseDimensionTag(req.Dimension)

	g, err := s.load(req.DBName)
	if err != nil {
		return nil, err
	}

	s.log.Info("Running snapshot",
		zap.String("database", req.DBName),
		zap.Stringer("predicate", pred.Kind),
		zap.Stringer("dimension", dim))

	vertices, edges := snapshotPipeline(g, pred, dim)
	return s.collect(ctx, &g.Head, vertices, edges)
}

// RunDifference translates and executes a difference request.
func (s *Service) RunDifference(ctx context.Context, req *schemas.DifferenceRequest) (*schemas.GraphResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &Error{Kind: KindConfig, Msg: "request validation failed", Err: err}
	}

	first, err := temporal.ParsePredicate(req.FirstPredicate, req.Timestamp11, req.Timestamp12)
	if err != nil {
		return nil, parseError("first predicate", err)
	}
	second, err := temporal.ParsePredicate(req.SecondPredicate, req.Timestamp21, req.Timestamp22)
	if err != nil {
		return nil, parseError("second predicate", err)
	}
	dim := temporal.ParseDimensionTag(req.Dimension)

	g, err := s.load(req.DBName)
	if err != nil {
		return nil, err
	}

	s.log.Info("Running difference",
		zap.String("database", req.DBName),
		zap.Stringer("first", first.Kind),
		zap.Stringer("second", second.Kind),
		zap.Stringer("dimension", dim))

	vertices, edges := diffPipeline(g, first, second, dim)
	return s.collect(ctx, &g.Head, vertices, edges)
}

// GetGraph returns the complete graph of a database, unchanged.
func (s *Service) GetGraph(ctx context.Context, databaseName string) (*schemas.GraphResponse, error) {
	g, err := s.load(databaseName)
	if err != nil {
		return nil, err
	}
	vertices := dataflow.FromSlice(g.Vertices)
	edges := dataflow.FromSlice(g.Edges)
	return s.collect(ctx, &g.Head, vertices, edges)
}

// GetSchema returns the labels and property keys of a database, serving
// from the cache when possible and computing (then caching) on a miss.
func (s *Service) GetSchema(ctx context.Context, databaseName string) (*schemas.GraphSchema, error) {
	if cached, hit, err := s.cache.Read(ctx, databaseName); err == nil && hit {
		s.log.Debug("Schema cache hit", zap.String("database", databaseName))
		return cached, nil
	} else if err != nil {
		s.log.Warn("Schema cache read failed, recomputing",
			zap.String("database", databaseName), zap.Error(err))
	}

	g, err := s.load(databaseName)
	if err != nil {
		return nil, err
	}

	discovered, err := schema.Discover(ctx, g)
	if err != nil {
		return nil, executionError(err)
	}

	if err := s.cache.Write(ctx, databaseName, discovered); err != nil {
		// Serving the schema matters more than caching it.
		s.log.Warn("Schema cache write failed",
			zap.String("database", databaseName), zap.Error(err))
	}
	return discovered, nil
}

func (s *Service) load(databaseName string) (*graph.TemporalGraph, error) {
	g, err := s.source.Load(databaseName)
	if err != nil {
		return nil, notFoundError("database "+databaseName, err)
	}
	return g, nil
}

// collect registers the three output sinks and triggers the single
// deferred execution; callers get all collections or none.
func (s *Service) collect(ctx context.Context, head *graph.Head, vertices *dataflow.Dataset[graph.Vertex], edges *dataflow.Dataset[graph.Edge]) (*schemas.GraphResponse, error) {
	env := dataflow.NewEnvironment()

	var (
		outVertices []graph.Vertex
		outEdges    []graph.Edge
	)
	dataflow.Output(env, vertices, &outVertices)
	dataflow.Output(env, edges, &outEdges)

	if err := env.Execute(ctx); err != nil {
		return nil, executionError(err)
	}
	return results.Package(head, outVertices, outEdges), nil
}
