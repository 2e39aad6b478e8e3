package query

import (
	"github.com/MaxZim21/temporal-graph-explorer/api/schemas"
	"github.com/MaxZim21/temporal-graph-explorer/internal/graph"
	"github.com/MaxZim21/temporal-graph-explorer/internal/temporal"
)

// ElementKind is the element family a resolved function operates on.
type ElementKind int

const (
	KindVertex ElementKind = iota
	KindEdge
)

func (k ElementKind) String() string {
	if k == KindEdge {
		return "edge"
	}
	return "vertex"
}

func parseElementKind(tag string) (ElementKind, error) {
	switch tag {
	case schemas.ElementVertex:
		return KindVertex, nil
	case schemas.ElementEdge:
		return KindEdge, nil
	default:
		return KindVertex, configErrorf("element kind %q is not one of [vertex, edge]", tag)
	}
}

// KeyFunction is a pure mapping from an element to a grouping key value.
// The key value is also stored as a property on the representative
// element, under Name; a label key instead becomes the representative's
// label.
type KeyFunction struct {
	Name    string
	IsLabel bool
	Extract func(el *graph.Element) graph.Value
}

// resolveKeyFunction turns a key descriptor into an executable key
// function. All tag validation happens here, before any data is
// processed.
func resolveKeyFunction(args schemas.KeyFunctionArgs) (KeyFunction, error) {
	switch args.Key {
	case "label":
		return KeyFunction{
			Name:    "label",
			IsLabel: true,
			Extract: func(el *graph.Element) graph.Value {
				return graph.StringValue(el.Label)
			},
		}, nil

	case "property":
		prop := args.Prop
		if prop == "" {
			return KeyFunction{}, configErrorf("property key needs a property name")
		}
		return KeyFunction{
			Name: prop,
			Extract: func(el *graph.Element) graph.Value {
				return el.Property(prop)
			},
		}, nil

	case "timestamp":
		dim, err := temporal.ParseDimensionName(args.Dimension)
		if err != nil {
			return KeyFunction{}, configErrorf("timestamp key: %v", err)
		}
		bound, err := temporal.ParsePeriodBound(args.PeriodBound)
		if err != nil {
			return KeyFunction{}, configErrorf("timestamp key: %v", err)
		}
		name := "timestamp_" + dim.String() + "_" + bound.String()
		if args.Field == "" || args.Field == "no" {
			return KeyFunction{
				Name: name,
				Extract: func(el *graph.Element) graph.Value {
					return graph.IntValue(el.Interval(dim).Bound(bound))
				},
			}, nil
		}
		field, err := temporal.ParseCalendarField(args.Field)
		if err != nil {
			return KeyFunction{}, configErrorf("timestamp key: %v", err)
		}
		return KeyFunction{
			Name: name + "_" + args.Field,
			Extract: func(el *graph.Element) graph.Value {
				return graph.IntValue(field.Extract(el.Interval(dim).Bound(bound)))
			},
		}, nil

	case "interval":
		dim, err := temporal.ParseDimensionName(args.Dimension)
		if err != nil {
			return KeyFunction{}, configErrorf("interval key: %v", err)
		}
		return KeyFunction{
			Name: "interval_" + dim.String(),
			Extract: func(el *graph.Element) graph.Value {
				iv := el.Interval(dim)
				return graph.ListValue([]graph.Value{
					graph.IntValue(iv.From),
					graph.IntValue(iv.To),
				})
			},
		}, nil

	case "duration":
		dim, err := temporal.ParseDimensionName(args.Dimension)
		if err != nil {
			return KeyFunction{}, configErrorf("duration key: %v", err)
		}
		unit, err := temporal.ParseDurationUnit(args.Unit)
		if err != nil {
			return KeyFunction{}, configErrorf("duration key: %v", err)
		}
		return KeyFunction{
			Name: "duration_" + dim.String(),
			Extract: func(el *graph.Element) graph.Value {
				return graph.IntValue(unit.Convert(el.Interval(dim).DurationMillis()))
			},
		}, nil

	default:
		return KeyFunction{}, configErrorf("unknown key function %q", args.Key)
	}
}

// resolveKeyFunctions splits the request's key descriptors into vertex
// and edge lists, rejecting unknown element kinds up front.
func resolveKeyFunctions(all []schemas.KeyFunctionArgs) (vertexKeys, edgeKeys []KeyFunction, err error) {
	for _, args := range all {
		kind, err := parseElementKind(args.Type)
		if err != nil {
			return nil, nil, err
		}
		kf, err := resolveKeyFunction(args)
		if err != nil {
			return nil, nil, err
		}
		if kind == KindVertex {
			vertexKeys = append(vertexKeys, kf)
		} else {
			edgeKeys = append(edgeKeys, kf)
		}
	}
	return vertexKeys, edgeKeys, nil
}
