// Package schemas holds the wire-level request and response types of the
// temporal graph explorer. Requests are immutable value objects; they are
// validated once, at translation time, before any graph data is loaded.
package schemas

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Element kinds a key or aggregate function may target.
const (
	ElementVertex = "vertex"
	ElementEdge   = "edge"
)

// KeyFunctionArgs describes one grouping key: which element kind it
// applies to and how the key is derived.
type KeyFunctionArgs struct {
	// Type is the element kind, vertex or edge.
	Type string `json:"type" validate:"required,oneof=vertex edge"`
	// Key selects the key variant: label, property, timestamp, interval
	// or duration.
	Key string `json:"key" validate:"required"`
	// Prop names the property for the property variant.
	Prop string `json:"prop,omitempty"`
	// Dimension is VALID_TIME or TRANSACTION_TIME for temporal variants.
	Dimension string `json:"dimension,omitempty"`
	// PeriodBound is FROM or TO for the timestamp variant.
	PeriodBound string `json:"periodBound,omitempty"`
	// Field optionally names a calendar component of the timestamp; the
	// literal "no" (or empty) keeps the raw instant.
	Field string `json:"field,omitempty"`
	// Unit names the calendar unit for the duration variant.
	Unit string `json:"unit,omitempty"`
}

// AggFunctionArgs describes one aggregate: which element kind it applies
// to and what it computes.
type AggFunctionArgs struct {
	Type string `json:"type" validate:"required,oneof=vertex edge"`
	// Agg selects the aggregate: count, minProp, maxProp, avgProp,
	// sumProp, minTime, maxTime, minDuration, maxDuration, avgDuration.
	Agg string `json:"agg" validate:"required"`
	// Prop names the property for the property aggregates.
	Prop string `json:"prop,omitempty"`
	// Dimension is VALID_TIME or TRANSACTION_TIME for temporal
	// aggregates.
	Dimension string `json:"dimension,omitempty"`
	// PeriodBound is FROM or TO for minTime/maxTime.
	PeriodBound string `json:"periodBound,omitempty"`
}

// GroupingRequest asks for a coarsened graph: vertices (then edges)
// partitioned by key functions and summarized by aggregate functions.
type GroupingRequest struct {
	DBName         string            `json:"dbName" validate:"required"`
	VertexFilters  []string          `json:"vertexFilters"`
	EdgeFilters    []string          `json:"edgeFilters"`
	FilterAllEdges bool              `json:"filterAllEdges"`
	KeyFunctions   []KeyFunctionArgs `json:"keyFunctions" validate:"dive"`
	AggFunctions   []AggFunctionArgs `json:"aggFunctions" validate:"dive"`
}

// Validate checks the request's structural invariants.
func (r *GroupingRequest) Validate() error {
	if err := getValidator().Struct(r); err != nil {
		return fmt.Errorf("invalid grouping request: %w", err)
	}
	return nil
}

// SnapshotRequest asks for the graph as it existed under a temporal
// predicate. Predicate tags: all, asOf, fromTo, betweenAnd; dimension
// tags: val, tx. Unknown tags fall back to all / val.
type SnapshotRequest struct {
	DBName     string `json:"dbName" validate:"required"`
	Predicate  string `json:"predicate"`
	Timestamp1 string `json:"timestamp1" validate:"required"`
	Timestamp2 string `json:"timestamp2" validate:"required"`
	Dimension  string `json:"dimension"`
}

// Validate checks the request's structural invariants.
func (r *SnapshotRequest) Validate() error {
	if err := getValidator().Struct(r); err != nil {
		return fmt.Errorf("invalid snapshot request: %w", err)
	}
	return nil
}

// DifferenceRequest asks for the delta between two snapshots of the same
// graph, evaluated under one shared time dimension.
type DifferenceRequest struct {
	DBName          string `json:"dbName" validate:"required"`
	FirstPredicate  string `json:"firstPredicate"`
	SecondPredicate string `json:"secondPredicate"`
	Timestamp11     string `json:"timestamp11" validate:"required"`
	Timestamp12     string `json:"timestamp12" validate:"required"`
	Timestamp21     string `json:"timestamp21" validate:"required"`
	Timestamp22     string `json:"timestamp22" validate:"required"`
	Dimension       string `json:"dimension"`
}

// Validate checks the request's structural invariants.
func (r *DifferenceRequest) Validate() error {
	if err := getValidator().Struct(r); err != nil {
		return fmt.Errorf("invalid difference request: %w", err)
	}
	return nil
}
