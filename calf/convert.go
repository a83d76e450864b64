package calf

import (
	"reflect"
	"strconv"
	"time"
)

// ConverterFunc turns a raw command-line token into a typed value.
type ConverterFunc func(string) (any, error)

// ConverterSet maps parameter types to conversion functions. Register
// teaches a set how to read additional types; the primitive kinds are
// handled without registration.
type ConverterSet struct {
	byType map[reflect.Type]ConverterFunc
}

// NewConverterSet returns a converter set with the built-in entries for
// time.Duration and time.Time.
func NewConverterSet() *ConverterSet {
	cs := &ConverterSet{byType: make(map[reflect.Type]ConverterFunc)}
	cs.Register(reflect.TypeOf(time.Duration(0)), func(s string) (any, error) {
		return time.ParseDuration(s)
	})
	cs.Register(reflect.TypeOf(time.Time{}), func(s string) (any, error) {
		return parseTime(s)
	})
	return cs
}

// Register installs a conversion function for t, replacing any previous
// entry.
func (cs *ConverterSet) Register(t reflect.Type, fn ConverterFunc) *ConverterSet {
	cs.byType[t] = fn
	return cs
}

// typeName returns the display name used in help text and diagnostics.
func typeName(t reflect.Type) string {
	if t == nil {
		return "string"
	}
	if n := t.Name(); n != "" && t.PkgPath() == "" {
		return n
	}
	return t.String()
}

func conversionError(raw string, t reflect.Type, cause error) *CLIError {
	err := Errorf(ErrorTypeInvalidValue, "value %q cannot be converted to type %s", raw, typeName(t))
	return err.WithCause(cause).WithContext("value", raw)
}

// Convert coerces raw into a value of type t. Registered converters are
// consulted first, then the primitive kinds. Failures are reported as
// invalid-value errors naming the offending token and the target type.
func (cs *ConverterSet) Convert(t reflect.Type, raw string) (any, error) {
	if t == nil {
		return raw, nil
	}
	if fn, ok := cs.byType[t]; ok {
		v, err := fn(raw)
		if err != nil {
			return nil, conversionError(raw, t, err)
		}
		return v, nil
	}
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, conversionError(raw, t, err)
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return nil, conversionError(raw, t, err)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, t.Bits())
		if err != nil {
			return nil, conversionError(raw, t, err)
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return nil, conversionError(raw, t, err)
		}
		v.SetFloat(f)
	default:
		return nil, Errorf(ErrorTypeInternal, "no converter registered for type %s", typeName(t))
	}
	return v.Interface(), nil
}

var timeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"15:04",
	"15:04:05",
}

func parseTime(s string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var ts time.Time
		if ts, err = time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}

// DefaultConverters is the process-wide converter table used when a
// Runner is not given its own set. It is initialized once at startup;
// add entries before serving invocations, never concurrently with them.
var DefaultConverters = NewConverterSet()
