package xmldoc

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoerceScalar(t *testing.T) {
	t.Run("Successful Coercions", func(t *testing.T) {
		var s string
		_, ok := coerceScalar("hello", reflect.ValueOf(&s).Elem())
		require.True(t, ok)
		require.Equal(t, "hello", s)

		var i int32
		_, ok = coerceScalar("-42", reflect.ValueOf(&i).Elem())
		require.True(t, ok)
		require.Equal(t, int32(-42), i)

		var u uint8
		_, ok = coerceScalar("200", reflect.ValueOf(&u).Elem())
		require.True(t, ok)
		require.Equal(t, uint8(200), u)

		var f float64
		_, ok = coerceScalar("2.5", reflect.ValueOf(&f).Elem())
		require.True(t, ok)
		require.Equal(t, 2.5, f)

		var b bool
		_, ok = coerceScalar("true", reflect.ValueOf(&b).Elem())
		require.True(t, ok)
		require.True(t, b)
	})

	t.Run("Failures Name The Expected Kind", func(t *testing.T) {
		cases := []struct {
			input    string
			target   any
			expected string
		}{
			{"abc", new(int), "int"},
			{"-1", new(uint), "uint"},
			{"1.5.3", new(float64), "float"},
			{"yep", new(bool), "bool"},
			{"300", new(uint8), "uint"},
			{"99999999999999999999", new(int64), "int"},
		}
		for _, tc := range cases {
			expected, ok := coerceScalar(tc.input, reflect.ValueOf(tc.target).Elem())
			require.False(t, ok, "input %q", tc.input)
			require.Equal(t, tc.expected, expected, "input %q", tc.input)
		}
	})
}

func TestFormatScalar(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"s", "s"},
		{42, "42"},
		{uint(7), "7"},
		{-1.25, "-1.25"},
		{true, "true"},
	}
	for _, tc := range cases {
		got, ok := formatScalar(reflect.ValueOf(tc.in))
		require.True(t, ok)
		require.Equal(t, tc.want, got)
	}

	_, ok := formatScalar(reflect.ValueOf([]int{1}))
	require.False(t, ok)
}
