// Package query translates declarative requests into dataflow pipelines
// over a temporal graph and executes them: key and aggregate resolution,
// keyed grouping, snapshot, difference and the service facade.
package query

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the query layer can report. No
// other error shape crosses the package boundary.
type ErrorKind int

const (
	// KindConfig marks an unknown key/aggregate/field/unit tag or an
	// element-kind mismatch, detected before any graph data is touched.
	KindConfig ErrorKind = iota
	// KindParse marks a malformed timestamp.
	KindParse
	// KindNotFound marks an unknown database.
	KindNotFound
	// KindExecution marks a failure while the pipeline materialized.
	KindExecution
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindParse:
		return "parse"
	case KindNotFound:
		return "not_found"
	case KindExecution:
		return "execution"
	default:
		return "unknown"
	}
}

// Error is the discriminated error value reported upward by the query
// layer.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func configErrorf(format string, args ...any) *Error {
	return &Error{Kind: KindConfig, Msg: fmt.Sprintf(format, args...)}
}

func parseError(msg string, err error) *Error {
	return &Error{Kind: KindParse, Msg: msg, Err: err}
}

func notFoundError(msg string, err error) *Error {
	return &Error{Kind: KindNotFound, Msg: msg, Err: err}
}

func executionError(err error) *Error {
	return &Error{Kind: KindExecution, Msg: "pipeline failed", Err: err}
}

// KindOf extracts the classification of an error produced by this
// package. ok is false for foreign errors.
func KindOf(err error) (ErrorKind, bool) {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind, true
	}
	return 0, false
}
