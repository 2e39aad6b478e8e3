package graph

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueNumerics(t *testing.T) {
	t.Parallel()

	t.Run("only ints and floats are numeric", func(t *testing.T) {
		t.Parallel()
		assert.True(t, IntValue(3).IsNumeric())
		assert.True(t, FloatValue(3.5).IsNumeric())
		assert.False(t, StringValue("3").IsNumeric())
		assert.False(t, BoolValue(true).IsNumeric())
		assert.False(t, NullValue().IsNumeric())
	})

	t.Run("float view of an int", func(t *testing.T) {
		t.Parallel()
		f, ok := IntValue(7).Float64()
		require.True(t, ok)
		assert.Equal(t, 7.0, f)

		_, ok = StringValue("7").Float64()
		assert.False(t, ok)
	})
}

func TestValueKey(t *testing.T) {
	t.Parallel()

	t.Run("distinguishes type even for equal renderings", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, IntValue(1).Key(), StringValue("1").Key())
		assert.NotEqual(t, BoolValue(true).Key(), StringValue("true").Key())
	})

	t.Run("nulls compare equal", func(t *testing.T) {
		t.Parallel()
		assert.True(t, NullValue().Equal(NullValue()))
		assert.True(t, Value{}.Equal(NullValue()), "zero value is null")
	})

	t.Run("map keys are order-independent", func(t *testing.T) {
		t.Parallel()
		a := MapValue(map[string]Value{"x": IntValue(1), "y": IntValue(2)})
		b := MapValue(map[string]Value{"y": IntValue(2), "x": IntValue(1)})
		assert.Equal(t, a.Key(), b.Key())
	})

	t.Run("lists are positional", func(t *testing.T) {
		t.Parallel()
		a := ListValue([]Value{IntValue(1), IntValue(2)})
		b := ListValue([]Value{IntValue(2), IntValue(1)})
		assert.NotEqual(t, a.Key(), b.Key())
	})
}

func TestValueJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		v    Value
		want string
	}{
		{"null", NullValue(), `null`},
		{"string", StringValue("hi"), `"hi"`},
		{"int", IntValue(42), `42`},
		{"float", FloatValue(1.5), `1.5`},
		{"bool", BoolValue(false), `false`},
		{"list", ListValue([]Value{IntValue(1), StringValue("a")}), `[1,"a"]`},
		{"datetime", DateTimeValue(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)), `"2020-01-01T00:00:00Z"`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out, err := json.Marshal(tc.v)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(out))
		})
	}
}

func TestElementProperties(t *testing.T) {
	t.Parallel()

	t.Run("absent property reads as null", func(t *testing.T) {
		t.Parallel()
		var e Element
		assert.True(t, e.Property("missing").IsNull())
	})

	t.Run("SetProperty allocates lazily", func(t *testing.T) {
		t.Parallel()
		var e Element
		e.SetProperty("name", StringValue("alice"))
		assert.Equal(t, StringValue("alice"), e.Property("name"))
	})

	t.Run("Clone detaches the map", func(t *testing.T) {
		t.Parallel()
		orig := Properties{"a": IntValue(1)}
		clone := orig.Clone()
		clone["a"] = IntValue(2)
		assert.Equal(t, IntValue(1), orig["a"])
	})
}
