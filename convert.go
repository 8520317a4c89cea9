package xmldoc

import (
	"reflect"
	"strconv"
)

// coerceScalar converts the string s into the scalar kind of rv. It returns
// the name of the expected kind on failure so the caller can build a
// TypeMismatch error.
func coerceScalar(s string, rv reflect.Value) (string, bool) {
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(s)
		return "", true
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return "bool", false
		}
		rv.SetBool(b)
		return "", true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil || rv.OverflowInt(i) {
			return "int", false
		}
		rv.SetInt(i)
		return "", true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil || rv.OverflowUint(u) {
			return "uint", false
		}
		rv.SetUint(u)
		return "", true
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || rv.OverflowFloat(f) {
			return "float", false
		}
		rv.SetFloat(f)
		return "", true
	default:
		return rv.Kind().String(), false
	}
}

// isScalarKind reports whether rv's kind decodes from a single element value
// rather than from a keyed or sequential frame.
func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// formatScalar renders a scalar reflect value as element text.
func formatScalar(rv reflect.Value) (string, bool) {
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), true
	default:
		return "", false
	}
}
