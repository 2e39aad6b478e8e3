// Package graph defines the temporal property graph model: tagged
// property values, temporal elements (vertices, edges, graph heads) and
// the in-memory graph container operators work on.
package graph

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ValueType tags the variants of a property value.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeString
	TypeBool
	TypeInt
	TypeFloat
	TypeList
	TypeMap
	TypeDateTime
	TypeDuration
)

// Value is a tagged union over the property types supported by the
// graph model. The zero value is the null value.
type Value struct {
	kind ValueType

	s  string
	b  bool
	i  int64
	f  float64
	ls []Value
	m  map[string]Value
	t  time.Time
	d  time.Duration
}

// NullValue is the sentinel for an absent property. Absent values compare
// equal to each other, so elements missing a grouping property end up in
// the same partition.
func NullValue() Value { return Value{} }

func StringValue(s string) Value        { return Value{kind: TypeString, s: s} }
func BoolValue(b bool) Value            { return Value{kind: TypeBool, b: b} }
func IntValue(i int64) Value            { return Value{kind: TypeInt, i: i} }
func FloatValue(f float64) Value        { return Value{kind: TypeFloat, f: f} }
func ListValue(vs []Value) Value        { return Value{kind: TypeList, ls: vs} }
func MapValue(m map[string]Value) Value { return Value{kind: TypeMap, m: m} }
func DateTimeValue(t time.Time) Value   { return Value{kind: TypeDateTime, t: t.UTC()} }
func DurationValue(d time.Duration) Value {
	return Value{kind: TypeDuration, d: d}
}

// Type returns the variant tag.
func (v Value) Type() ValueType { return v.kind }

// IsNull reports whether the value is the absent sentinel.
func (v Value) IsNull() bool { return v.kind == TypeNull }

// IsNumeric reports whether the value participates in numerical
// aggregation. Only integers and floats qualify.
func (v Value) IsNumeric() bool {
	return v.kind == TypeInt || v.kind == TypeFloat
}

// Float64 returns the numeric value as a float. ok is false for
// non-numeric variants.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case TypeInt:
		return float64(v.i), true
	case TypeFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Int64 returns the integer payload; ok is false unless the value is an
// integer.
func (v Value) Int64() (int64, bool) {
	if v.kind == TypeInt {
		return v.i, true
	}
	return 0, false
}

// Equal compares two values structurally.
func (v Value) Equal(o Value) bool {
	return v.Key() == o.Key()
}

// Key renders a canonical, type-tagged encoding of the value, suitable
// as a map key for partitioning. Map keys are emitted in sorted order so
// the encoding is independent of iteration order.
func (v Value) Key() string {
	switch v.kind {
	case TypeNull:
		return "0:"
	case TypeString:
		return "s:" + v.s
	case TypeBool:
		return "b:" + strconv.FormatBool(v.b)
	case TypeInt:
		return "i:" + strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return "f:" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeDateTime:
		return "t:" + strconv.FormatInt(v.t.UnixMilli(), 10)
	case TypeDuration:
		return "d:" + strconv.FormatInt(int64(v.d), 10)
	case TypeList:
		parts := make([]string, len(v.ls))
		for i, e := range v.ls {
			parts[i] = e.Key()
		}
		return "l:[" + strings.Join(parts, ",") + "]"
	case TypeMap:
		names := make([]string, 0, len(v.m))
		for name := range v.m {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = name + "=" + v.m[name].Key()
		}
		return "m:{" + strings.Join(parts, ",") + "}"
	default:
		return "?"
	}
}

// String renders the value for logs and CSV round-trips.
func (v Value) String() string {
	switch v.kind {
	case TypeNull:
		return "NULL"
	case TypeString:
		return v.s
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeDateTime:
		return v.t.Format(time.RFC3339)
	case TypeDuration:
		return v.d.String()
	default:
		return v.Key()
	}
}

// MarshalJSON renders the natural JSON shape of each variant; the null
// sentinel becomes JSON null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case TypeNull:
		return []byte("null"), nil
	case TypeString:
		return json.Marshal(v.s)
	case TypeBool:
		return json.Marshal(v.b)
	case TypeInt:
		return json.Marshal(v.i)
	case TypeFloat:
		return json.Marshal(v.f)
	case TypeList:
		return json.Marshal(v.ls)
	case TypeMap:
		return json.Marshal(v.m)
	case TypeDateTime:
		return json.Marshal(v.t.Format(time.RFC3339))
	case TypeDuration:
		return json.Marshal(v.d.String())
	default:
		return nil, fmt.Errorf("unsupported value type %d", v.kind)
	}
}
